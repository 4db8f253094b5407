package orderrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/visionmax01/rentoora-backend-rental/model"
)

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error
	ByID(ctx context.Context, id int64) (*model.Order, error)

	// ByIDForUpdate locks the order row so a cancel cannot race another
	// cancel or an owner response.
	ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Order, error)
	MarkCanceled(ctx context.Context, tx *sql.Tx, orderID int64, byName string, byID int64, byAccountID string) error
	MarkOwnerResponded(ctx context.Context, tx *sql.Tx, orderID int64, at time.Time) error
	SetStatusConfirmed(ctx context.Context, tx *sql.Tx, orderID int64) error

	ListByBooker(ctx context.Context, userID int64) ([]model.OrderWithPost, error)
	ListByPostOwner(ctx context.Context, ownerID int64) ([]model.OrderWithPost, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const orderCols = `id, order_id, user_id, post_id, user_name, account_id, payment_method,
	transaction_id, order_status, canceled_by, canceled_by_id, canceled_account_id,
	owner_responded_at, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	o := &model.Order{}
	// user_id/post_id go NULL when the referenced row is deleted; the
	// order itself is never deleted.
	var userID, postID sql.NullInt64
	var canceledBy, canceledAccountID sql.NullString
	err := row.Scan(&o.ID, &o.OrderID, &userID, &postID, &o.UserName, &o.AccountID,
		&o.PaymentMethod, &o.TransactionID, &o.OrderStatus,
		&canceledBy, &o.CanceledByID, &canceledAccountID,
		&o.OwnerRespondedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.UserID = userID.Int64
	o.PostID = postID.Int64
	o.CanceledBy = canceledBy.String
	o.CanceledAccountID = canceledAccountID.String
	return o, nil
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO orders(order_id, user_id, post_id, user_name, account_id,
			payment_method, transaction_id, order_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		o.OrderID, o.UserID, o.PostID, o.UserName, o.AccountID,
		o.PaymentMethod, o.TransactionID, o.OrderStatus,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Order, error) {
	return scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
}

func (r *repo) ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Order, error) {
	return scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = $1 FOR UPDATE`, id))
}

func (r *repo) MarkCanceled(ctx context.Context, tx *sql.Tx, orderID int64, byName string, byID int64, byAccountID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET order_status='Order Canceled', canceled_by=$2, canceled_by_id=$3,
			canceled_account_id=$4, updated_at=now()
		WHERE id=$1`, orderID, byName, byID, byAccountID)
	return err
}

func (r *repo) MarkOwnerResponded(ctx context.Context, tx *sql.Tx, orderID int64, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET owner_responded_at=$2, updated_at=now() WHERE id=$1`, orderID, at)
	return err
}

func (r *repo) SetStatusConfirmed(ctx context.Context, tx *sql.Tx, orderID int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET order_status='Order Confirmed', updated_at=now() WHERE id=$1`, orderID)
	return err
}

const joinedCols = orderCols + `, post_type, price, province, district, municipality,
	landmark, images, owner_name, owner_phone`

func (r *repo) listJoined(ctx context.Context, q string, arg int64) ([]model.OrderWithPost, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OrderWithPost
	for rows.Next() {
		var ow model.OrderWithPost
		var userID, postID sql.NullInt64
		var canceledBy, canceledAccountID sql.NullString
		var images []byte
		err := rows.Scan(&ow.ID, &ow.OrderID, &userID, &postID, &ow.UserName,
			&ow.AccountID, &ow.PaymentMethod, &ow.TransactionID, &ow.OrderStatus,
			&canceledBy, &ow.CanceledByID, &canceledAccountID,
			&ow.OwnerRespondedAt, &ow.CreatedAt, &ow.UpdatedAt,
			&ow.PostType, &ow.Price,
			&ow.PostAddress.Province, &ow.PostAddress.District,
			&ow.PostAddress.Municipality, &ow.PostAddress.Landmark,
			&images, &ow.OwnerName, &ow.OwnerPhoneNo)
		if err != nil {
			return nil, err
		}
		ow.UserID = userID.Int64
		ow.PostID = postID.Int64
		ow.CanceledBy = canceledBy.String
		ow.CanceledAccountID = canceledAccountID.String
		if err := json.Unmarshal(images, &ow.PostImages); err != nil {
			return nil, err
		}
		out = append(out, ow)
	}
	return out, rows.Err()
}

func (r *repo) ListByBooker(ctx context.Context, userID int64) ([]model.OrderWithPost, error) {
	// LEFT JOINs: the listing (and its owner) may have been deleted after
	// the booking; the order row stays visible either way.
	const q = `
		SELECT o.id, o.order_id, o.user_id, o.post_id, o.user_name, o.account_id,
			o.payment_method, o.transaction_id, o.order_status,
			o.canceled_by, o.canceled_by_id, o.canceled_account_id,
			o.owner_responded_at, o.created_at, o.updated_at,
			COALESCE(p.post_type, ''), COALESCE(p.price, 0),
			COALESCE(p.province, ''), COALESCE(p.district, ''),
			COALESCE(p.municipality, ''), COALESCE(p.landmark, ''),
			COALESCE(p.images, '[]'::jsonb),
			COALESCE(u.name, '') AS owner_name, COALESCE(u.phone_no, '') AS owner_phone
		FROM orders o
		LEFT JOIN rental_posts p ON p.id = o.post_id
		LEFT JOIN users u ON u.id = p.client_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC`
	return r.listJoined(ctx, q, userID)
}

func (r *repo) ListByPostOwner(ctx context.Context, ownerID int64) ([]model.OrderWithPost, error) {
	const q = `
		SELECT o.id, o.order_id, o.user_id, o.post_id, o.user_name, o.account_id,
			o.payment_method, o.transaction_id, o.order_status,
			o.canceled_by, o.canceled_by_id, o.canceled_account_id,
			o.owner_responded_at, o.created_at, o.updated_at,
			p.post_type, p.price, p.province, p.district, p.municipality, p.landmark,
			p.images, COALESCE(u.name, '') AS owner_name,
			COALESCE(u.phone_no, '') AS owner_phone
		FROM orders o
		JOIN rental_posts p ON p.id = o.post_id
		LEFT JOIN users u ON u.id = o.user_id
		WHERE p.client_id = $1
		ORDER BY o.created_at DESC, o.id DESC`
	return r.listJoined(ctx, q, ownerID)
}
