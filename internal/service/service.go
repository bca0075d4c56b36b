package service

import (
	"context"

	"github.com/EnmerSandoval/gasolinera/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertDispatcher enqueues low-stock alert jobs for the worker pool.
// Satisfied by *worker.Dispatcher; services treat it as fire-and-forget.
type AlertDispatcher interface {
	EnqueueAlertaStock(ctx context.Context, payload worker.AlertaStockPayload) error
}

// Scope carries the already-authenticated tenant, branch and actor ids
// resolved by the auth and branch-scoping middleware. Every service
// operation receives one; repositories never see raw header values.
type Scope struct {
	EmpresaID  uuid.UUID
	SucursalID uuid.UUID
	UsuarioID  uuid.UUID
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
