package outboxrepo

import (
	"context"
	"database/sql"

	"github.com/visionmax01/rentoora-backend-rental/model"
)

type Repo interface {
	// Enqueue writes a pending message inside the caller's transaction so
	// the mail commits or rolls back together with the state change.
	Enqueue(ctx context.Context, tx *sql.Tx, m *model.OutboxMessage) error

	// ClaimPending locks up to limit pending rows, skipping rows another
	// dispatcher already holds.
	ClaimPending(ctx context.Context, tx *sql.Tx, limit int) ([]model.OutboxMessage, error)
	MarkSent(ctx context.Context, tx *sql.Tx, id int64, attempts int) error
	MarkFailed(ctx context.Context, tx *sql.Tx, id int64, attempts int, lastErr string) error

	// RecordAttempt bumps the attempt counter but leaves the row pending so
	// a later sweep retries it.
	RecordAttempt(ctx context.Context, tx *sql.Tx, id int64, attempts int, lastErr string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Enqueue(ctx context.Context, tx *sql.Tx, m *model.OutboxMessage) error {
	m.Status = model.OutboxPending
	return tx.QueryRowContext(ctx, `
		INSERT INTO notification_outbox(recipient, subject, body_html, status)
		VALUES ($1,$2,$3,'pending')
		RETURNING id, created_at`,
		m.Recipient, m.Subject, m.BodyHTML,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *repo) ClaimPending(ctx context.Context, tx *sql.Tx, limit int) ([]model.OutboxMessage, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, recipient, subject, body_html, status, attempts, last_error, created_at, sent_at
		FROM notification_outbox
		WHERE status = 'pending'
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OutboxMessage
	for rows.Next() {
		var m model.OutboxMessage
		if err := rows.Scan(&m.ID, &m.Recipient, &m.Subject, &m.BodyHTML,
			&m.Status, &m.Attempts, &m.LastError, &m.CreatedAt, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repo) MarkSent(ctx context.Context, tx *sql.Tx, id int64, attempts int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE notification_outbox
		SET status='sent', attempts=$2, last_error='', sent_at=now()
		WHERE id=$1`, id, attempts)
	return err
}

func (r *repo) MarkFailed(ctx context.Context, tx *sql.Tx, id int64, attempts int, lastErr string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE notification_outbox
		SET status='failed', attempts=$2, last_error=$3
		WHERE id=$1`, id, attempts, lastErr)
	return err
}

func (r *repo) RecordAttempt(ctx context.Context, tx *sql.Tx, id int64, attempts int, lastErr string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE notification_outbox
		SET attempts=$2, last_error=$3
		WHERE id=$1`, id, attempts, lastErr)
	return err
}
