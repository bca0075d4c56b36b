package service

import (
	"context"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"
	"github.com/EnmerSandoval/gasolinera/internal/repository"

	"github.com/google/uuid"
)

type TurnoService interface {
	Abrir(ctx context.Context, scope Scope, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error)
	Cerrar(ctx context.Context, scope Scope, turnoID uuid.UUID, req dto.CerrarTurnoRequest) (*dto.TurnoResponse, error)
	// Abierto returns the caller's open shift in the branch, or NoOpenShift.
	Abierto(ctx context.Context, scope Scope) (*model.Turno, error)
}

type turnoService struct {
	repo repository.TurnoRepository
}

func NewTurnoService(repo repository.TurnoRepository) TurnoService {
	return &turnoService{repo: repo}
}

func (s *turnoService) Abrir(ctx context.Context, scope Scope, req dto.AbrirTurnoRequest) (*dto.TurnoResponse, error) {
	if existente, err := s.repo.FindAbierto(ctx, scope.UsuarioID, scope.SucursalID); err == nil && existente != nil {
		return nil, apierror.New(apierror.KindShiftAlreadyOpen, "Ya tiene un turno abierto en esta sucursal")
	} else if err != nil && !apierror.IsKind(err, apierror.KindNoOpenShift) {
		return nil, err
	}

	ahora := time.Now()
	turno := &model.Turno{
		SucursalID:      scope.SucursalID,
		UsuarioID:       scope.UsuarioID,
		Fecha:           ahora,
		HoraInicio:      ahora,
		EfectivoInicial: req.EfectivoInicial,
		Estado:          model.TurnoAbierto,
	}
	if err := s.repo.Create(ctx, turno); err != nil {
		return nil, err
	}
	return turnoToResponse(turno), nil
}

func (s *turnoService) Cerrar(ctx context.Context, scope Scope, turnoID uuid.UUID, req dto.CerrarTurnoRequest) (*dto.TurnoResponse, error) {
	turno, err := s.repo.FindByID(ctx, turnoID)
	if err != nil {
		return nil, err
	}
	if turno.SucursalID != scope.SucursalID {
		return nil, apierror.New(apierror.KindNotFound, "Turno no encontrado")
	}
	if turno.Estado != model.TurnoAbierto {
		return nil, apierror.New(apierror.KindValidation, "El turno ya está cerrado")
	}

	ahora := time.Now()
	turno.Estado = model.TurnoCerrado
	turno.HoraFin = &ahora
	turno.EfectivoFinal = &req.EfectivoFinal
	turno.Notas = req.Notas
	if err := s.repo.Update(ctx, turno); err != nil {
		return nil, err
	}
	return turnoToResponse(turno), nil
}

func (s *turnoService) Abierto(ctx context.Context, scope Scope) (*model.Turno, error) {
	return s.repo.FindAbierto(ctx, scope.UsuarioID, scope.SucursalID)
}

func turnoToResponse(t *model.Turno) *dto.TurnoResponse {
	resp := &dto.TurnoResponse{
		ID:              t.ID.String(),
		SucursalID:      t.SucursalID.String(),
		UsuarioID:       t.UsuarioID.String(),
		Fecha:           t.Fecha.Format("2006-01-02"),
		HoraInicio:      t.HoraInicio.Format(time.RFC3339),
		EfectivoInicial: t.EfectivoInicial,
		EfectivoFinal:   t.EfectivoFinal,
		Estado:          t.Estado,
	}
	if t.HoraFin != nil {
		fin := t.HoraFin.Format(time.RFC3339)
		resp.HoraFin = &fin
	}
	return resp
}
