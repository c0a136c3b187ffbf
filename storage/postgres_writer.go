package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"compra-agil-scraper/models"
	"compra-agil-scraper/utils"

	_ "github.com/lib/pq"
)

// PostgresWriter stores the final classified listings in PostgreSQL so
// downstream reviewers can query past runs.
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

var _ ResultSink = (*PostgresWriter)(nil)

// NewPostgresWriter creates a new PostgresWriter and pings the DB
func NewPostgresWriter(connStr string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresWriter{db: db, logger: logger}, nil
}

// CreateTable creates the compras_relevantes table if it doesn't exist
func (w *PostgresWriter) CreateTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS compras_relevantes (
		id            SERIAL PRIMARY KEY,
		codigo        TEXT UNIQUE,
		nombre        TEXT NOT NULL,
		organismo     TEXT,
		categoria     TEXT,
		monto_clp     NUMERIC(14,2),
		puntuacion    INTEGER NOT NULL DEFAULT 0,
		motivos       TEXT,
		fecha_cierre  TEXT,
		scraped_at    TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_relevantes_puntuacion ON compras_relevantes (puntuacion);
	CREATE INDEX IF NOT EXISTS idx_relevantes_organismo  ON compras_relevantes (organismo);
	`
	_, err := w.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	w.logger.Info("Table 'compras_relevantes' is ready")
	return nil
}

// SaveResults inserts listings in a single transaction, skipping duplicates
func (w *PostgresWriter) SaveResults(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO compras_relevantes (codigo, nombre, organismo, categoria, monto_clp, puntuacion, motivos, fecha_cierre)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (codigo) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, l := range listings {
		var amount interface{}
		if l.AvailableAmount.Valid {
			amount = l.AvailableAmount.Value
		}
		_, err = stmt.Exec(
			l.Key(),
			l.Name,
			l.Organization,
			l.OrganizationCategory,
			amount,
			l.RelevanceScore,
			strings.Join(l.ScoreReasons, "; "),
			l.ClosingDate,
		)
		if err != nil {
			w.logger.Warn("Skipping insert for '%s': %v", l.Key(), err)
			continue
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Inserted %d/%d listings into PostgreSQL", inserted, len(listings))
	return nil
}

// Close closes the database connection
func (w *PostgresWriter) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}
