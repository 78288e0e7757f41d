package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fincast/pkg/core/analysis"
)

// ErrNotFound is returned by Load when no analysis has the requested ID.
var ErrNotFound = errors.New("analysis not found")

// AnalysisRepo persists finished analyses.
// Postgres is primary when a pool is given; fileDir, when set, keeps a JSON
// copy per analysis and serves loads without a database.
type AnalysisRepo struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewAnalysisRepo creates a repository. Either argument may be empty, not both.
func NewAnalysisRepo(pool *pgxpool.Pool, dir string) (*AnalysisRepo, error) {
	if pool == nil && dir == "" {
		return nil, fmt.Errorf("analysis repo needs a database pool or a directory")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store dir: %w", err)
		}
	}
	return &AnalysisRepo{pool: pool, fileDir: dir}, nil
}

// Save upserts the analysis keyed by its ID.
func (r *AnalysisRepo) Save(ctx context.Context, a *analysis.ForecastAnalysis) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("analysis has no ID")
	}

	jsonData, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if r.pool != nil {
		query := `
			INSERT INTO fincast_analysis (id, label, result_json, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id)
			DO UPDATE SET
				label = EXCLUDED.label,
				result_json = EXCLUDED.result_json`

		if _, err := r.pool.Exec(ctx, query, a.ID, a.Label, jsonData, a.CreatedAt); err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
	}

	if r.fileDir != "" {
		if err := os.WriteFile(r.path(a.ID), jsonData, 0644); err != nil {
			return fmt.Errorf("failed to save analysis file: %w", err)
		}
	}

	log.Printf("[Store] saved analysis %s (%s)", a.ID, a.Label)
	return nil
}

// Load retrieves an analysis by ID, trying the database before the file copy.
func (r *AnalysisRepo) Load(ctx context.Context, id string) (*analysis.ForecastAnalysis, error) {
	var jsonData []byte

	if r.pool != nil {
		err := r.pool.QueryRow(ctx, `SELECT result_json FROM fincast_analysis WHERE id = $1`, id).Scan(&jsonData)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to load analysis: %w", err)
		}
	}

	if jsonData == nil && r.fileDir != "" {
		data, err := os.ReadFile(r.path(id))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read analysis file: %w", err)
		}
		jsonData = data
	}

	if jsonData == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var a analysis.ForecastAnalysis
	if err := json.Unmarshal(jsonData, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &a, nil
}

func (r *AnalysisRepo) path(id string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(id)
	return filepath.Join(r.fileDir, safe+".json")
}
