package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run is a persisted distance band analysis: the configuration it ran with
// and the headline results. Per-band rows live in Bands.
type Run struct {
	RunID              string   `json:"run_id"`
	Label              string   `json:"label"`
	CreatedAt          int64    `json:"created_at"`
	Mode               string   `json:"mode"`
	MaxRange           float64  `json:"max_range"`
	BandWidth          float64  `json:"band_width"`
	TargetDistance     float64  `json:"target_distance"`
	TotalPoints        int      `json:"total_points"`
	TargetBand         string   `json:"target_band"`
	TargetBandPoints   int      `json:"target_band_points"`
	CircleCount        *int     `json:"circle_count,omitempty"`
	CircleAvgIntensity *float64 `json:"circle_avg_intensity,omitempty"`

	Bands []RunBand `json:"bands,omitempty"`
}

// RunBand is one distance band of a persisted run.
type RunBand struct {
	BandKey      string  `json:"band"`
	StartM       float64 `json:"start_m"`
	EndM         float64 `json:"end_m"`
	PointCount   int     `json:"point_count"`
	AvgIntensity float64 `json:"avg_intensity"`
}

// InsertRun persists a run and its band rows in one transaction. If RunID is
// empty, a UUID is generated. If CreatedAt is zero, the database clock is
// used.
func (db *DB) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = db.clock.Now().UnixNano()
	}

	return retryOnBusy(func() error {
		tx, err := db.DB.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO analysis_runs (
				run_id, label, created_at_ns, mode,
				max_range, band_width, target_distance,
				total_points, target_band, target_band_points,
				circle_count, circle_avg_intensity
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.Label, run.CreatedAt, run.Mode,
			run.MaxRange, run.BandWidth, run.TargetDistance,
			run.TotalPoints, run.TargetBand, run.TargetBandPoints,
			run.CircleCount, run.CircleAvgIntensity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for _, band := range run.Bands {
			_, err := tx.Exec(`
				INSERT INTO run_bands (
					run_id, band_key, start_m, end_m, point_count, avg_intensity
				) VALUES (?, ?, ?, ?, ?, ?)`,
				run.RunID, band.BandKey, band.StartM, band.EndM,
				band.PointCount, band.AvgIntensity,
			)
			if err != nil {
				return fmt.Errorf("failed to insert band %s: %w", band.BandKey, err)
			}
		}

		return tx.Commit()
	})
}

// GetRun retrieves a run and its band rows by ID. A missing run wraps
// sql.ErrNoRows so callers can map it to a not-found response.
func (db *DB) GetRun(runID string) (*Run, error) {
	var run Run
	err := db.DB.QueryRow(`
		SELECT run_id, label, created_at_ns, mode,
		       max_range, band_width, target_distance,
		       total_points, target_band, target_band_points,
		       circle_count, circle_avg_intensity
		FROM analysis_runs
		WHERE run_id = ?`, runID).Scan(
		&run.RunID, &run.Label, &run.CreatedAt, &run.Mode,
		&run.MaxRange, &run.BandWidth, &run.TargetDistance,
		&run.TotalPoints, &run.TargetBand, &run.TargetBandPoints,
		&run.CircleCount, &run.CircleAvgIntensity,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found: %w", runID, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := db.DB.Query(`
		SELECT band_key, start_m, end_m, point_count, avg_intensity
		FROM run_bands
		WHERE run_id = ?
		ORDER BY start_m ASC`, run.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run bands: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var band RunBand
		err := rows.Scan(
			&band.BandKey, &band.StartM, &band.EndM,
			&band.PointCount, &band.AvgIntensity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run band: %w", err)
		}
		run.Bands = append(run.Bands, band)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run bands: %w", err)
	}

	return &run, nil
}

// ListRuns returns run summaries newest first, without band rows. An empty
// label matches all runs. A non-positive limit defaults to 50.
func (db *DB) ListRuns(label string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT run_id, label, created_at_ns, mode,
		       max_range, band_width, target_distance,
		       total_points, target_band, target_band_points,
		       circle_count, circle_avg_intensity
		FROM analysis_runs`
	args := []interface{}{}
	if label != "" {
		query += ` WHERE label = ?`
		args = append(args, label)
	}
	query += ` ORDER BY created_at_ns DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(
			&run.RunID, &run.Label, &run.CreatedAt, &run.Mode,
			&run.MaxRange, &run.BandWidth, &run.TargetDistance,
			&run.TotalPoints, &run.TargetBand, &run.TargetBandPoints,
			&run.CircleCount, &run.CircleAvgIntensity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

const busyRetries = 5

// isSQLiteBusy reports whether err is a SQLite lock contention error that is
// worth retrying.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// retryOnBusy runs fn, retrying with exponential backoff while it returns a
// SQLite busy error. Other errors are returned immediately.
func retryOnBusy(fn func() error) error {
	delay := 10 * time.Millisecond
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		err = fn()
		if err == nil || !isSQLiteBusy(err) {
			return err
		}
		if attempt < busyRetries-1 {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", busyRetries, err)
}
