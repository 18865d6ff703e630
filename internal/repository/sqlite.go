package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/emberwatch/wildfire-intel/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hotspot_id TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			brightness REAL,
			risk_level TEXT NOT NULL,
			source TEXT,
			custom INTEGER NOT NULL DEFAULT 0,
			analyzed_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_analyses_hotspot_id ON analyses(hotspot_id);
		CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON analyses(analyzed_at);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Record(ctx context.Context, records []models.AnalysisRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO analyses (hotspot_id, latitude, longitude, brightness, risk_level, source, custom, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.HotspotID, r.Latitude, r.Longitude, r.Brightness,
			string(r.RiskLevel), r.Source, r.Custom, r.AnalyzedAt,
		); err != nil {
			return fmt.Errorf("error inserting record %s: %w", r.HotspotID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteDB) List(ctx context.Context, opts Filter) ([]models.AnalysisRecord, error) {
	query := `SELECT hotspot_id, latitude, longitude, brightness, risk_level, source, custom, analyzed_at FROM analyses`

	var conditions []string
	var args []any

	if opts.HotspotID != "" {
		conditions = append(conditions, "hotspot_id = ?")
		args = append(args, opts.HotspotID)
	}
	if opts.Since != nil {
		conditions = append(conditions, "analyzed_at >= ?")
		args = append(args, *opts.Since)
	}
	if opts.Custom != nil {
		conditions = append(conditions, "custom = ?")
		args = append(args, *opts.Custom)
	}
	if opts.MinLevel != nil {
		levels := levelsAtOrAbove(*opts.MinLevel)
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(levels)), ",")
		conditions = append(conditions, fmt.Sprintf("risk_level IN (%s)", placeholders))
		for _, l := range levels {
			args = append(args, string(l))
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY analyzed_at DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying analyses: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var r models.AnalysisRecord
		var level string
		if err := rows.Scan(&r.HotspotID, &r.Latitude, &r.Longitude, &r.Brightness,
			&level, &r.Source, &r.Custom, &r.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		r.RiskLevel = models.RiskLevel(level)
		records = append(records, r)
	}

	return records, rows.Err()
}

func levelsAtOrAbove(min models.RiskLevel) []models.RiskLevel {
	all := []models.RiskLevel{
		models.RiskLevelLow,
		models.RiskLevelMedium,
		models.RiskLevelHigh,
		models.RiskLevelExtreme,
	}
	var out []models.RiskLevel
	for _, l := range all {
		if l.SeverityRank() >= min.SeverityRank() {
			out = append(out, l)
		}
	}
	return out
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
