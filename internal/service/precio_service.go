package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"
	"github.com/EnmerSandoval/gasolinera/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const preciosCacheTTL = 5 * time.Minute

type PrecioService interface {
	// Vigentes lists the effective price board of the branch. Served from
	// Redis when warm; the POS polls this on every screen refresh.
	Vigentes(ctx context.Context, scope Scope) (*dto.PreciosVigentesResponse, error)
	Crear(ctx context.Context, scope Scope, req dto.CrearPrecioRequest) (*dto.PrecioResponse, error)
}

type precioService struct {
	repo repository.PrecioRepository
	rdb  *redis.Client
}

func NewPrecioService(repo repository.PrecioRepository, rdb *redis.Client) PrecioService {
	return &precioService{repo: repo, rdb: rdb}
}

func preciosCacheKey(sucursalID uuid.UUID) string {
	return fmt.Sprintf("precios:vigentes:%s", sucursalID)
}

func (s *precioService) Vigentes(ctx context.Context, scope Scope) (*dto.PreciosVigentesResponse, error) {
	key := preciosCacheKey(scope.SucursalID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.PreciosVigentesResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	precios, err := s.repo.ListVigentes(ctx, scope.SucursalID)
	if err != nil {
		return nil, err
	}
	resp := &dto.PreciosVigentesResponse{SucursalID: scope.SucursalID.String()}
	for _, p := range precios {
		resp.Precios = append(resp.Precios, *precioToResponse(&p))
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, preciosCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("precio cache write failed")
			}
		}
	}
	return resp, nil
}

// Crear inserts a new price row; rows are never updated in place. The
// branch's price-board cache is invalidated so the new price is visible on
// the next poll.
func (s *precioService) Crear(ctx context.Context, scope Scope, req dto.CrearPrecioRequest) (*dto.PrecioResponse, error) {
	tipoID, err := uuid.Parse(req.TipoCombustibleID)
	if err != nil {
		return nil, apierror.New(apierror.KindValidation, "tipo_combustible_id inválido")
	}
	if !req.PrecioUnitario.IsPositive() {
		return nil, apierror.New(apierror.KindValidation, "El precio debe ser positivo")
	}

	vigente := time.Now()
	if req.VigenteDesde != nil {
		if vigente, err = time.Parse(time.RFC3339, *req.VigenteDesde); err != nil {
			return nil, apierror.New(apierror.KindValidation, "vigente_desde inválido")
		}
	}

	precio := &model.PrecioCombustible{
		SucursalID:        scope.SucursalID,
		TipoCombustibleID: tipoID,
		PrecioUnitario:    req.PrecioUnitario,
		IDPPorGalon:       req.IDPPorGalon,
		VigenteDesde:      vigente,
		Activo:            true,
	}
	if err := s.repo.Create(ctx, precio); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, preciosCacheKey(scope.SucursalID)).Err(); err != nil {
			log.Warn().Err(err).Msg("precio cache invalidation failed")
		}
	}
	return precioToResponse(precio), nil
}

func precioToResponse(p *model.PrecioCombustible) *dto.PrecioResponse {
	return &dto.PrecioResponse{
		ID:                p.ID.String(),
		TipoCombustibleID: p.TipoCombustibleID.String(),
		PrecioUnitario:    p.PrecioUnitario,
		IDPPorGalon:       p.IDPPorGalon,
		VigenteDesde:      p.VigenteDesde.Format(time.RFC3339),
	}
}
