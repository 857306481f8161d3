package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	maxIntentosTx = 3
	esperaBaseTx  = 20 * time.Millisecond
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
// Transactions aborted by a serialization failure or a deadlock are
// retried from scratch, so fn must not keep state between attempts.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	var err error
	for intento := 1; intento <= maxIntentosTx; intento++ {
		err = db.WithContext(ctx).Transaction(fn)
		if !esConflictoConcurrencia(err) {
			return err
		}
		if intento == maxIntentosTx {
			break
		}
		espera := esperaBaseTx*time.Duration(1<<(intento-1)) + rand.N(esperaBaseTx)
		log.Warn().Err(err).Int("intento", intento).Dur("espera", espera).Msg("transacción en conflicto, reintentando")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(espera):
		}
	}
	return fmt.Errorf("transacción abortada tras %d intentos: %w", maxIntentosTx, err)
}

// esConflictoConcurrencia matches SQLSTATE 40001 (serialization_failure) and 40P01 (deadlock_detected).
func esConflictoConcurrencia(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
