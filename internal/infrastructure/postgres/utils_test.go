package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/pos-beras/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsTxTimeout(t *testing.T) {
	live := context.Background()
	expired, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	stock := domain.NewLineError(0, "p1", &domain.StockError{ProductID: "p1", Requested: 5, Available: 1})

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want bool
	}{
		{"sin error", expired, nil, false},
		{"statement_timeout", live, fmt.Errorf("apply delta: %w", &pgconn.PgError{Code: "57014"}), true},
		{"deadline del driver", live, fmt.Errorf("begin transaction: %w", context.DeadlineExceeded), true},
		{"fallo tras el plazo", expired, errors.New("conn closed"), true},
		{"stock insuficiente tras el plazo", expired, stock, false},
		{"conflicto tras el plazo", expired, fmt.Errorf("sale code: %w", domain.ErrConflict), false},
		{"error comun", live, errors.New("conn closed"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTxTimeout(tt.ctx, tt.err))
		})
	}
}
