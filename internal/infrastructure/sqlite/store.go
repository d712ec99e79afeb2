// Package sqlite implementa los puertos de persistencia sobre SQLite para la caja de
// escritorio (una sola tienda, un solo archivo). El esquema es el mismo que en PostgreSQL.
//
// La base se abre en modo WAL con una única conexión y transacciones BEGIN IMMEDIATE:
// las unidades atómicas se serializan y la guarda de stock se evalúa sin carreras.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jhoicas/pos-beras/internal/application/inventory"
)

//go:embed schema.sql
var schema string

// Querier lo cumplen *sql.DB y *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store base SQLite abierta y migrada.
type Store struct {
	db *sql.DB
}

// Open crea o abre la base en path y aplica el esquema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de datos: %w", err)
		}
	}
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_txlock", "immediate")
	db, err := sql.Open("sqlite3", "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("abrir base sqlite: %w", err)
	}
	// Un solo escritor: evita SQLITE_BUSY entre conexiones del mismo proceso.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("aplicar esquema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB devuelve la conexión subyacente.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close cierra la base.
func (s *Store) Close() error {
	return s.db.Close()
}

// Repos repositorios fuera de transacción (lecturas de validación y catálogo).
func (s *Store) Repos() inventory.Repos {
	return NewRepos(s.db)
}

// NewRepos arma los repositorios sobre un Querier (db o tx).
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Products:  NewProductRepository(q),
		Sales:     NewSaleRepository(q),
		Movements: NewMovementRepository(q),
		Returns:   NewReturnRepository(q),
		Customers: NewCustomerRepository(q),
	}
}
