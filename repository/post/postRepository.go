package postrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/visionmax01/rentoora-backend-rental/model"
)

type Repo interface {
	Create(ctx context.Context, p *model.RentalPost) error
	ByID(ctx context.Context, id int64) (*model.RentalPost, error)
	ByIDWithOwner(ctx context.Context, id int64) (*model.RentalPost, error)
	ListAll(ctx context.Context) ([]model.RentalPost, error)
	ListByClient(ctx context.Context, clientID int64) ([]model.RentalPost, error)
	Update(ctx context.Context, p *model.RentalPost) error
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)

	// MarkBooked flips status to 'booked' only if the post is currently
	// 'not booked'; reports whether the update applied. Runs inside tx so
	// the flip commits atomically with the order insert.
	MarkBooked(ctx context.Context, tx *sql.Tx, postID int64) (bool, error)
	MarkNotBooked(ctx context.Context, tx *sql.Tx, postID int64) error
	SetStatus(ctx context.Context, postID int64, status model.PostStatus) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const postCols = `p.id, p.client_id, p.post_type, p.description, p.price,
	p.province, p.district, p.municipality, p.landmark, p.images, p.status,
	p.created_at, p.updated_at`

func scanPost(row interface{ Scan(...any) error }, withOwner bool) (*model.RentalPost, error) {
	p := &model.RentalPost{}
	var images []byte
	dest := []any{&p.ID, &p.ClientID, &p.PostType, &p.Description, &p.Price,
		&p.Address.Province, &p.Address.District, &p.Address.Municipality, &p.Address.Landmark,
		&images, &p.Status, &p.CreatedAt, &p.UpdatedAt}
	if withOwner {
		dest = append(dest, &p.OwnerName, &p.OwnerAccountID, &p.OwnerEmail, &p.OwnerPhoneNo)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) Create(ctx context.Context, p *model.RentalPost) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = model.PostNotBooked
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO rental_posts(client_id, post_type, description, price,
			province, district, municipality, landmark, images, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at`,
		p.ClientID, p.PostType, p.Description, p.Price,
		p.Address.Province, p.Address.District, p.Address.Municipality, p.Address.Landmark,
		images, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.RentalPost, error) {
	return scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postCols+` FROM rental_posts p WHERE p.id = $1`, id), false)
}

func (r *repo) ByIDWithOwner(ctx context.Context, id int64) (*model.RentalPost, error) {
	return scanPost(r.db.QueryRowContext(ctx, `
		SELECT `+postCols+`, u.name, u.account_id, u.email, u.phone_no
		FROM rental_posts p
		JOIN users u ON u.id = p.client_id
		WHERE p.id = $1`, id), true)
}

func (r *repo) ListAll(ctx context.Context) ([]model.RentalPost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postCols+`, u.name, u.account_id, u.email, u.phone_no
		FROM rental_posts p
		JOIN users u ON u.id = p.client_id
		ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RentalPost
	for rows.Next() {
		p, err := scanPost(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repo) ListByClient(ctx context.Context, clientID int64) ([]model.RentalPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postCols+` FROM rental_posts p WHERE p.client_id = $1 ORDER BY p.id DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RentalPost
	for rows.Next() {
		p, err := scanPost(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, p *model.RentalPost) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE rental_posts
		SET post_type=$2, description=$3, price=$4, landmark=$5, images=$6, updated_at=now()
		WHERE id=$1`,
		p.ID, p.PostType, p.Description, p.Price, p.Address.Landmark, images)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rental_posts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rental_posts`).Scan(&n)
	return n, err
}

func (r *repo) MarkBooked(ctx context.Context, tx *sql.Tx, postID int64) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE rental_posts
		SET status='booked', updated_at=now()
		WHERE id=$1 AND status='not booked'`, postID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) MarkNotBooked(ctx context.Context, tx *sql.Tx, postID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE rental_posts SET status='not booked', updated_at=now() WHERE id=$1`, postID)
	return err
}

func (r *repo) SetStatus(ctx context.Context, postID int64, status model.PostStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE rental_posts SET status=$2, updated_at=now() WHERE id=$1`, postID, status)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM rental_posts WHERE id=$1)`, id).Scan(&ok)
	return ok, err
}
