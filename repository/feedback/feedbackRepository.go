package feedbackrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/visionmax01/rentoora-backend-rental/model"
)

type Repo interface {
	Insert(ctx context.Context, f *model.Feedback) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListAll(ctx context.Context) ([]model.Feedback, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, f *model.Feedback) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO feedbacks(name, email, message)
		VALUES ($1,$2,$3)
		RETURNING id, created_at`,
		f.Name, f.Email, f.Message,
	).Scan(&f.ID, &f.CreatedAt)
}

func (r *repo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM feedbacks WHERE lower(email) = lower($1))`, email).Scan(&ok)
	return ok, err
}

func (r *repo) ListAll(ctx context.Context) ([]model.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, message, created_at
		FROM feedbacks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Feedback
	for rows.Next() {
		var f model.Feedback
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Message, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feedbacks WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
