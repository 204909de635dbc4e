package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; keep database/sql from fanning out.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS points (
			point_id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			stroke INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			x DOUBLE, y DOUBLE,
			vx DOUBLE, vy DOUBLE,
			ax DOUBLE, ay DOUBLE,
			dt DOUBLE,
			recorded_at INTEGER NOT NULL -- unix nanoseconds
		);
		CREATE INDEX IF NOT EXISTS points_session_stroke ON points (session, stroke);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &DB{db}, nil
}

// Row is one recorded point.
type Row struct {
	Session    string
	Stroke     int
	Seq        int
	X, Y       float64
	VX, VY     float64
	AX, AY     float64
	DT         float64
	RecordedAt time.Time
}

func (r Row) String() string {
	return fmt.Sprintf("%s stroke=%d seq=%d x=%.5f y=%.5f vx=%.5f vy=%.5f dt=%.3f",
		r.RecordedAt.Format(time.RFC3339Nano), r.Stroke, r.Seq, r.X, r.Y, r.VX, r.VY, r.DT)
}

func (db *DB) insertPoint(ctx context.Context, r Row) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO points (session, stroke, seq, x, y, vx, vy, ax, ay, dt, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Session, r.Stroke, r.Seq, r.X, r.Y, r.VX, r.VY, r.AX, r.AY, r.DT, r.RecordedAt.UnixNano())
	return err
}

// LatestPoints returns up to limit points, newest last.
func (db *DB) LatestPoints(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx, `
		SELECT session, stroke, seq, x, y, vx, vy, ax, ay, dt, recorded_at
		FROM points ORDER BY point_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var at int64
		if err := rows.Scan(&r.Session, &r.Stroke, &r.Seq, &r.X, &r.Y, &r.VX, &r.VY,
			&r.AX, &r.AY, &r.DT, &at); err != nil {
			return nil, err
		}
		r.RecordedAt = time.Unix(0, at)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// StrokeCount reports how many distinct strokes session has recorded.
func (db *DB) StrokeCount(ctx context.Context, session string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT stroke) FROM points WHERE session = ?`, session).Scan(&n)
	return n, err
}
