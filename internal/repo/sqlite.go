package repo

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jqdata/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(dbPath string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer keeps the execution log free of SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &SQLiteRepo{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *SQLiteRepo) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS tokens (
		mobile TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		issued_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS executions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL,
		method TEXT NOT NULL,
		format TEXT NOT NULL,
		status TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		ts INTEGER NOT NULL
	);
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) SaveToken(tok model.StoredToken) error {
	query := `INSERT OR REPLACE INTO tokens (mobile, token, issued_at) VALUES (?, ?, ?)`
	_, err := r.db.Exec(query, tok.Mobile, tok.Token, tok.IssuedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) LoadToken(mobile string) (*model.StoredToken, error) {
	query := `SELECT token, issued_at FROM tokens WHERE mobile = ?`
	row := r.db.QueryRow(query, mobile)

	var (
		token    string
		issuedAt int64
	)
	err := row.Scan(&token, &issuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	return &model.StoredToken{
		Mobile:   mobile,
		Token:    token,
		IssuedAt: time.UnixMilli(issuedAt),
	}, nil
}

func (r *SQLiteRepo) LogExecution(e model.Execution) error {
	query := `INSERT INTO executions (request_id, method, format, status, duration_ms, error, ts)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query, e.RequestID, e.Method, e.Format, e.Status,
		e.Duration.Milliseconds(), e.Error, e.At.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to log execution: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) RecentExecutions(limit int) ([]model.Execution, error) {
	query := `SELECT request_id, method, format, status, duration_ms, error, ts
	FROM executions ORDER BY id DESC LIMIT ?`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	defer rows.Close()

	var out []model.Execution
	for rows.Next() {
		var (
			e      model.Execution
			ms, ts int64
		)
		if err := rows.Scan(&e.RequestID, &e.Method, &e.Format, &e.Status, &ms, &e.Error, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		e.At = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}
