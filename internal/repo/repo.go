package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

var ErrNotFound = errors.New("run not found")

// Run is one stored calculation. Params and Result hold the request and
// response documents as JSON.
type Run struct {
	ID          uuid.UUID       `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Grade       string          `json:"grade"`
	Combination string          `json:"combination"`
	MaxStress   float64         `json:"max_stress"`
	TipDZ       float64         `json:"tip_dz"`
	OK          bool            `json:"ok"`
	Params      json.RawMessage `json:"params"`
	Result      json.RawMessage `json:"result,omitempty"`
}

type Repository interface {
	SaveRun(ctx context.Context, run Run) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (Run, error)
}

const Schema = `CREATE TABLE IF NOT EXISTS crane_runs (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	grade TEXT NOT NULL,
	combination TEXT NOT NULL,
	max_stress DOUBLE PRECISION NOT NULL,
	tip_dz DOUBLE PRECISION NOT NULL,
	ok BOOLEAN NOT NULL,
	params JSONB NOT NULL,
	result JSONB NOT NULL
)`

type PostgresRunRepository struct {
	db *sql.DB
}

func NewPostgresRunDB(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

// Migrate creates the runs table when it does not exist.
func (r *PostgresRunRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

func (r *PostgresRunRepository) SaveRun(ctx context.Context, run Run) error {
	query := "INSERT INTO crane_runs (id, created_at, grade, combination, max_stress, tip_dz, ok, params, result) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)"
	_, err := r.db.ExecContext(ctx, query, run.ID, run.CreatedAt, run.Grade, run.Combination,
		run.MaxStress, run.TipDZ, run.OK, []byte(run.Params), []byte(run.Result))
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the newest runs first, without their result documents.
func (r *PostgresRunRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := "SELECT id, created_at, grade, combination, max_stress, tip_dz, ok, params FROM crane_runs ORDER BY created_at DESC LIMIT $1"
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var params []byte
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Grade, &run.Combination,
			&run.MaxStress, &run.TipDZ, &run.OK, &params); err != nil {
			return nil, err
		}
		run.Params = params
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *PostgresRunRepository) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	query := "SELECT id, created_at, grade, combination, max_stress, tip_dz, ok, params, result FROM crane_runs WHERE id=$1"
	var run Run
	var params, result []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&run.ID, &run.CreatedAt, &run.Grade,
		&run.Combination, &run.MaxStress, &run.TipDZ, &run.OK, &params, &result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}
	run.Params, run.Result = params, result
	return run, nil
}

// InitDB opens and pings a Postgres pool. Connection strings without an
// sslmode get sslmode=require.
func InitDB(ctx context.Context, connStr string) (*sql.DB, error) {
	if !strings.Contains(connStr, "sslmode=") {
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			sep := "?"
			if strings.Contains(connStr, "?") {
				sep = "&"
			}
			connStr = connStr + sep + "sslmode=require"
		} else {
			connStr = connStr + " sslmode=require"
		}
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("configure database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not reachable: %w", err)
	}
	return db, nil
}
