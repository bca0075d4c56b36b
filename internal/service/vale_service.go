package service

import (
	"context"
	"errors"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"
	"github.com/EnmerSandoval/gasolinera/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ValeService is the voucher ledger: it validates a voucher against the
// redemption rules and consumes it inside the caller's sale transaction.
type ValeService interface {
	// Validar runs the redemption checks in order: existence, estado,
	// expiry, branch restriction, voucher balance, client credit. The first
	// failing check wins. A business rejection still carries the voucher
	// snapshot so the POS can show the operator what it looks like.
	Validar(ctx context.Context, scope Scope, req dto.ValidarValeRequest) (*dto.ValidarValeResponse, error)

	// Resolver returns the vale when every check passes, or the check's
	// error kind when one fails. Used by the sale orchestrator pre-flight.
	Resolver(ctx context.Context, scope Scope, codigo string, monto decimal.Decimal) (*model.Vale, error)

	// ConsumirTx increments the voucher's consumed counters and the client's
	// outstanding balance inside tx. Both updates are guarded; a guard
	// rejection means a concurrent consumption won the race after our
	// pre-flight validation.
	ConsumirTx(tx *gorm.DB, vale *model.Vale, monto, galones decimal.Decimal) error

	Listar(ctx context.Context, scope Scope, estado string) ([]model.Vale, error)
}

type valeService struct {
	repo repository.ValeRepository
}

func NewValeService(repo repository.ValeRepository) ValeService {
	return &valeService{repo: repo}
}

func (s *valeService) Resolver(ctx context.Context, scope Scope, codigo string, monto decimal.Decimal) (*model.Vale, error) {
	vale, err := s.repo.FindByCodigo(ctx, codigo, scope.EmpresaID)
	if err != nil {
		return nil, err
	}
	if err := s.check(vale, scope, monto); err != nil {
		return vale, err
	}
	return vale, nil
}

// check applies the redemption rules to an already-resolved voucher.
func (s *valeService) check(vale *model.Vale, scope Scope, monto decimal.Decimal) error {
	if vale.Estado != model.ValeActivo {
		return apierror.Newf(apierror.KindVoucherNotActive, "El vale está %s", vale.Estado)
	}
	hoy := time.Now().Truncate(24 * time.Hour)
	if vale.FechaVencimiento.Before(hoy) {
		return apierror.Newf(apierror.KindVoucherExpired, "El vale venció el %s", vale.FechaVencimiento.Format("2006-01-02"))
	}
	if vale.SucursalValida != nil && *vale.SucursalValida != scope.SucursalID {
		return apierror.New(apierror.KindVoucherBranchMismatch, "El vale no es válido en esta sucursal")
	}
	if monto.GreaterThan(vale.SaldoDisponible()) {
		return apierror.Newf(apierror.KindInsufficientVoucherBalance,
			"Saldo del vale insuficiente: disponible %s", vale.SaldoDisponible().StringFixed(2))
	}
	if vale.Cliente != nil {
		creditoDisponible := vale.Cliente.LimiteCredito.Sub(vale.Cliente.SaldoActual)
		if monto.GreaterThan(creditoDisponible) {
			return apierror.Newf(apierror.KindInsufficientCredit,
				"Crédito del cliente insuficiente: disponible %s", creditoDisponible.StringFixed(2))
		}
	}
	return nil
}

func (s *valeService) Validar(ctx context.Context, scope Scope, req dto.ValidarValeRequest) (*dto.ValidarValeResponse, error) {
	vale, err := s.Resolver(ctx, scope, req.Codigo, req.Monto)
	if err != nil {
		if apierror.IsKind(err, apierror.KindNotFound) {
			return nil, err
		}
		var apiErr *apierror.Error
		if errors.As(err, &apiErr) {
			return &dto.ValidarValeResponse{
				Valido: false,
				Motivo: apiErr.Detail,
				Vale:   valeToResponse(vale),
			}, nil
		}
		return nil, err
	}
	return &dto.ValidarValeResponse{Valido: true, Vale: valeToResponse(vale)}, nil
}

func (s *valeService) ConsumirTx(tx *gorm.DB, vale *model.Vale, monto, galones decimal.Decimal) error {
	if err := s.repo.ConsumirTx(tx, vale.ID, monto, galones); err != nil {
		if errors.Is(err, repository.ErrValeGuard) {
			return apierror.New(apierror.KindInsufficientVoucherBalance,
				"El saldo del vale fue consumido por otra operación")
		}
		return err
	}
	if err := s.repo.CargarSaldoClienteTx(tx, vale.ClienteID, monto); err != nil {
		if errors.Is(err, repository.ErrCreditoGuard) {
			return apierror.New(apierror.KindInsufficientCredit,
				"El límite de crédito del cliente fue alcanzado por otra operación")
		}
		return err
	}
	return nil
}

func (s *valeService) Listar(ctx context.Context, scope Scope, estado string) ([]model.Vale, error) {
	return s.repo.List(ctx, scope.EmpresaID, estado)
}

func valeToResponse(v *model.Vale) *dto.ValeResponse {
	if v == nil {
		return nil
	}
	resp := &dto.ValeResponse{
		ID:               v.ID.String(),
		Codigo:           v.Codigo,
		Estado:           v.Estado,
		MontoAutorizado:  v.MontoAutorizado,
		MontoConsumido:   v.MontoConsumido,
		SaldoDisponible:  v.SaldoDisponible(),
		FechaVencimiento: v.FechaVencimiento.Format("2006-01-02"),
	}
	if v.Cliente != nil {
		resp.Cliente = v.Cliente.RazonSocial
		resp.CreditoCliente = v.Cliente.LimiteCredito.Sub(v.Cliente.SaldoActual)
	}
	return resp
}
