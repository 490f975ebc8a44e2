package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr1hm/go-quake-magnitude/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// one connection keeps ":memory:" databases alive and serialises writes
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			depth REAL NOT NULL,
			mag_type TEXT NOT NULL,
			mag_type_code INTEGER NOT NULL,
			mag_nst INTEGER NOT NULL,
			magnitude REAL NOT NULL,
			tier TEXT NOT NULL,
			model_name TEXT,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
		CREATE INDEX IF NOT EXISTS idx_predictions_tier ON predictions(tier);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Add(ctx context.Context, r *models.PredictionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions (id, latitude, longitude, depth, mag_type, mag_type_code, mag_nst, magnitude, tier, model_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Vector.Latitude(),
		r.Vector.Longitude(),
		r.Vector.Depth(),
		r.Fields.MagType,
		r.Vector.MagTypeCode(),
		r.Vector.StationCount(),
		r.Magnitude,
		string(r.Tier),
		r.ModelName,
		r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("error inserting prediction %s: %w", r.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, latitude, longitude, depth, mag_type, mag_type_code, mag_nst, magnitude, tier, model_name, created_at FROM predictions`

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.PredictionRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting prediction %s: %w", id, err)
	}
	return r, nil
}

func (s *SQLiteDB) ListPredictions(ctx context.Context, opts Filter) ([]models.PredictionRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.Since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, opts.Since.UnixMilli())
	}
	if opts.Tier != nil {
		where = append(where, "tier = ?")
		args = append(args, string(*opts.Tier))
	}
	if opts.MinMagnitude != nil {
		where = append(where, "magnitude >= ?")
		args = append(args, *opts.MinMagnitude)
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing predictions: %w", err)
	}
	defer rows.Close()

	records := []models.PredictionRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning prediction: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*models.PredictionRecord, error) {
	var (
		r         models.PredictionRecord
		code, nst int
		tier      string
		modelName sql.NullString
		createdAt int64
	)
	err := sc.Scan(
		&r.ID,
		&r.Fields.Latitude,
		&r.Fields.Longitude,
		&r.Fields.Depth,
		&r.Fields.MagType,
		&code,
		&nst,
		&r.Magnitude,
		&tier,
		&modelName,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	r.Fields.MagNst = nst
	r.Vector = models.FeatureVector{
		r.Fields.Latitude,
		r.Fields.Longitude,
		r.Fields.Depth,
		float64(code),
		float64(nst),
	}
	r.Tier = models.SeverityTier(tier)
	r.ModelName = modelName.String
	r.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &r, nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
