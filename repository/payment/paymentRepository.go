package paymentrepo

import (
	"context"
	"database/sql"

	"github.com/visionmax01/rentoora-backend-rental/model"
)

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, p *model.Payment) error
	ListByUser(ctx context.Context, userID int64) ([]model.Payment, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO payments(user_id, post_id, order_id, payment_method, payment_status, gateway_payload)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`,
		p.UserID, p.PostID, p.OrderID, p.PaymentMethod, p.PaymentStatus, []byte(p.GatewayPayload),
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, post_id, order_id, payment_method, payment_status, gateway_payload, created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		var userID, postID sql.NullInt64
		var payload []byte
		if err := rows.Scan(&p.ID, &userID, &postID, &p.OrderID,
			&p.PaymentMethod, &p.PaymentStatus, &payload, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.UserID = userID.Int64
		p.PostID = postID.Int64
		p.GatewayPayload = payload
		out = append(out, p)
	}
	return out, rows.Err()
}
