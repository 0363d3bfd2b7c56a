package repo

import "jqdata/internal/model"

type Repository interface {
	// SaveToken saves or replaces the token of an account.
	SaveToken(tok model.StoredToken) error

	// LoadToken retrieves the stored token of an account.
	// Returns nil, nil if not found.
	LoadToken(mobile string) (*model.StoredToken, error)

	// LogExecution appends one execution record.
	LogExecution(e model.Execution) error

	// RecentExecutions returns up to limit records, newest first.
	RecentExecutions(limit int) ([]model.Execution, error)

	// Close closes the repository connection.
	Close() error
}
