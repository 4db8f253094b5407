package userrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/visionmax01/rentoora-backend-rental/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByAccountID(ctx context.Context, accountID string) (*model.User, error)
	UpdateDetails(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfilePhoto(ctx context.Context, id int64, key string) error
	SetOTP(ctx context.Context, id int64, code string, expiresAt time.Time) error
	ClearOTP(ctx context.Context, id int64) error

	ListClients(ctx context.Context) ([]model.User, error)
	ListRegisteredSince(ctx context.Context, since time.Time) ([]model.User, error)
	DeleteByAccountID(ctx context.Context, accountID string) (bool, error)
	CountClients(ctx context.Context) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const userCols = `id, name, email, password_hash, account_id, role, phone_no, date_of_birth,
	province, district, municipality, profile_photo_key, citizenship_image_key,
	otp_code, otp_expires_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	var otp sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.AccountID, &u.Role,
		&u.PhoneNo, &u.DateOfBirth, &u.Province, &u.District, &u.Municipality,
		&u.ProfilePhotoKey, &u.CitizenshipImageKey, &otp, &u.OTPExpiresAt,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.OTPCode = otp.String
	return u, nil
}

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users(name, email, password_hash, account_id, role, phone_no, date_of_birth,
			province, district, municipality, profile_photo_key, citizenship_image_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.AccountID, u.Role, u.PhoneNo, u.DateOfBirth,
		u.Province, u.District, u.Municipality, u.ProfilePhotoKey, u.CitizenshipImageKey,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *repo) ByAccountID(ctx context.Context, accountID string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE account_id = $1`, accountID))
}

func (r *repo) UpdateDetails(ctx context.Context, u *model.User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name=$2, email=$3, phone_no=$4, province=$5, district=$6, municipality=$7,
			date_of_birth=COALESCE($8, date_of_birth), updated_at=now()
		WHERE id=$1`,
		u.ID, u.Name, u.Email, u.PhoneNo, u.Province, u.District, u.Municipality, u.DateOfBirth)
	return err
}

func (r *repo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash=$2, otp_code=NULL, otp_expires_at=NULL, updated_at=now()
		WHERE id=$1`, id, passwordHash)
	return err
}

func (r *repo) UpdateProfilePhoto(ctx context.Context, id int64, key string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET profile_photo_key=$2, updated_at=now() WHERE id=$1`, id, key)
	return err
}

func (r *repo) SetOTP(ctx context.Context, id int64, code string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET otp_code=$2, otp_expires_at=$3, updated_at=now() WHERE id=$1`,
		id, code, expiresAt)
	return err
}

func (r *repo) ClearOTP(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET otp_code=NULL, otp_expires_at=NULL, updated_at=now() WHERE id=$1`, id)
	return err
}

func (r *repo) ListClients(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, `SELECT `+userCols+` FROM users WHERE role = 0 ORDER BY id DESC`)
}

func (r *repo) ListRegisteredSince(ctx context.Context, since time.Time) ([]model.User, error) {
	return r.list(ctx, `SELECT `+userCols+` FROM users WHERE created_at >= $1 ORDER BY created_at DESC`, since)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *repo) DeleteByAccountID(ctx context.Context, accountID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE account_id = $1`, accountID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) CountClients(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 0`).Scan(&n)
	return n, err
}
