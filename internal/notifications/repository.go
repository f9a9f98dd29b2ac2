// Package notifications records and serves the operator-facing notification
// feed. Entries are written when coverage reconciliation changes a lead's
// status.
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"realtor_portal_backend/platform/apperr"
)

// Notification is one entry in the feed.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository defines notification persistence.
type Repository interface {
	Record(ctx context.Context, message string) (Notification, error)
	ListRecent(ctx context.Context, limit int) ([]Notification, error)
}

// Repo implements Repository on postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a notification repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Record inserts a notification. Empty messages are rejected.
func (r *Repo) Record(ctx context.Context, message string) (Notification, error) {
	if message == "" {
		return Notification{}, apperr.BadRequest("notification message must not be empty")
	}

	var n Notification
	if err := r.pool.QueryRow(ctx,
		`INSERT INTO notifications (message) VALUES ($1) RETURNING id, message, created_at`,
		message,
	).Scan(&n.ID, &n.Message, &n.CreatedAt); err != nil {
		return Notification{}, fmt.Errorf("record notification: %w", err)
	}
	return n, nil
}

// ListRecent returns the newest notifications, capped at 100.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, message, created_at FROM notifications ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	items := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate notifications: %w", rows.Err())
	}
	return items, nil
}
