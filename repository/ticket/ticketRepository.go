package ticketrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/visionmax01/rentoora-backend-rental/model"
)

type Repo interface {
	Insert(ctx context.Context, t *model.SupportTicket) error
	ByID(ctx context.Context, id int64) (*model.SupportTicket, error)
	ListByClient(ctx context.Context, clientID int64) ([]model.SupportTicket, error)
	CountCreatedSince(ctx context.Context, clientID int64, since time.Time) (int64, error)
	Update(ctx context.Context, t *model.SupportTicket) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const ticketCols = `id, client_id, ticket_number, issue_type, message, status, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*model.SupportTicket, error) {
	t := &model.SupportTicket{}
	err := row.Scan(&t.ID, &t.ClientID, &t.TicketNumber, &t.IssueType, &t.Message,
		&t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repo) Insert(ctx context.Context, t *model.SupportTicket) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO support_tickets(client_id, ticket_number, issue_type, message, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`,
		t.ClientID, t.TicketNumber, t.IssueType, t.Message, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.SupportTicket, error) {
	return scanTicket(r.db.QueryRowContext(ctx,
		`SELECT `+ticketCols+` FROM support_tickets WHERE id = $1`, id))
}

func (r *repo) ListByClient(ctx context.Context, clientID int64) ([]model.SupportTicket, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ticketCols+` FROM support_tickets WHERE client_id = $1 ORDER BY id DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SupportTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *repo) CountCreatedSince(ctx context.Context, clientID int64, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM support_tickets
		WHERE client_id = $1 AND created_at >= $2`, clientID, since).Scan(&n)
	return n, err
}

func (r *repo) Update(ctx context.Context, t *model.SupportTicket) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE support_tickets
		SET issue_type=$2, message=$3, status=$4, updated_at=now()
		WHERE id=$1`, t.ID, t.IssueType, t.Message, t.Status)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM support_tickets WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
