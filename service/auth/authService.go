package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/visionmax01/rentoora-backend-rental/model"
	storagerepo "github.com/visionmax01/rentoora-backend-rental/repository/storage"
	userrepo "github.com/visionmax01/rentoora-backend-rental/repository/user"
	"github.com/visionmax01/rentoora-backend-rental/service/notify"
	"github.com/visionmax01/rentoora-backend-rental/util/hash"
	jwtutil "github.com/visionmax01/rentoora-backend-rental/util/jwt"
)

type ErrCode string

const (
	ErrEmailTaken    ErrCode = "EMAIL_TAKEN"
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrInvalidCreds  ErrCode = "INVALID_CREDS"
	ErrUserNotFound  ErrCode = "USER_NOT_FOUND"
	ErrWrongPassword ErrCode = "WRONG_PASSWORD"
	ErrOTPInvalid    ErrCode = "OTP_INVALID"
	ErrOTPExpired    ErrCode = "OTP_EXPIRED"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode) error          { return codedError{code: c} }
func wrap(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts the service error code, or "" for unknown errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const (
	tokenTTL  = 24 * time.Hour
	otpTTL    = 10 * time.Minute
	pwLength  = 8
	otpLength = 6
)

type Registered struct {
	User      *model.User
	AccountID string
}

type LoggedIn struct {
	User        *model.User
	Token       string
	RedirectURL string
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq, profileKey, citizenshipKey string) (*Registered, error)
	Login(ctx context.Context, req model.LoginReq) (*LoggedIn, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	Me(ctx context.Context, userID int64) (*model.User, error)
	UpdateDetails(ctx context.Context, userID int64, req model.UpdateDetailsReq) (*model.User, error)
	UpdateProfilePhoto(ctx context.Context, userID int64, newKey string) (*model.User, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type service struct {
	ur      userrepo.Repo
	storage storagerepo.Repo
	mail    notify.Mailer
	secret  string
}

func New(ur userrepo.Repo, storage storagerepo.Repo, mail notify.Mailer, secret string) Service {
	return &service{ur: ur, storage: storage, mail: mail, secret: secret}
}

// accountID builds the human-facing account id: first letter of the name,
// uppercased, plus six random digits.
func accountID(name string) (string, error) {
	initial := "U"
	if name = strings.TrimSpace(name); name != "" {
		r, _ := utf8.DecodeRuneInString(name)
		initial = strings.ToUpper(string(r))
	}
	digits, err := hash.RandomDigits(otpLength)
	if err != nil {
		return "", err
	}
	return initial + digits, nil
}

func (s *service) Register(ctx context.Context, req model.RegisterReq, profileKey, citizenshipKey string) (*Registered, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" {
		return nil, makeErr(ErrBadInput)
	}

	password, err := hash.RandomPassword(pwLength)
	if err != nil {
		return nil, err
	}
	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	acct, err := accountID(name)
	if err != nil {
		return nil, err
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		d, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, wrap(ErrBadInput, "invalid dateOfBirth")
		}
		dob = &d
	}

	role := model.RoleClient
	if req.Role == 1 {
		role = model.RoleAdmin
	}

	u := &model.User{
		Name:                name,
		Email:               email,
		PasswordHash:        hashed,
		AccountID:           acct,
		Role:                role,
		PhoneNo:             req.PhoneNo,
		DateOfBirth:         dob,
		Province:            req.Province,
		District:            req.District,
		Municipality:        req.Municipality,
		ProfilePhotoKey:     profileKey,
		CitizenshipImageKey: citizenshipKey,
	}

	if err := s.ur.Create(ctx, u); err != nil {
		// Uploaded documents are orphaned if the row never lands.
		s.cleanupKeys(ctx, profileKey, citizenshipKey)
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}

	subject, body := notify.RenderWelcome(name, acct, password)
	if err := s.mail.EnqueueStandalone(ctx, email, subject, body); err != nil {
		return nil, fmt.Errorf("queue welcome mail: %w", err)
	}

	return &Registered{User: u, AccountID: acct}, nil
}

func (s *service) cleanupKeys(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if k != "" {
			_ = s.storage.Delete(ctx, k)
		}
	}
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		if strings.Contains(cn, "email") || strings.Contains(strings.ToLower(pgErr.Message), "email") {
			return makeErr(ErrEmailTaken)
		}
		return makeErr(ErrBadInput)
	}
	return nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*LoggedIn, error) {
	u, err := s.ur.ByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, makeErr(ErrInvalidCreds)
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Email, int16(u.Role), tokenTTL)
	if err != nil {
		return nil, err
	}

	redirect := "/"
	if u.Role == model.RoleAdmin {
		redirect = "/admin-dashboard"
	}
	return &LoggedIn{User: u, Token: token, RedirectURL: redirect}, nil
}

func (s *service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	u, err := s.ur.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrUserNotFound)
		}
		return err
	}
	if !hash.Check(u.PasswordHash, oldPassword) {
		return makeErr(ErrWrongPassword)
	}
	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.ur.UpdatePassword(ctx, userID, hashed)
}

func (s *service) Me(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.ur.ByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, makeErr(ErrUserNotFound)
	}
	return u, err
}

func (s *service) UpdateDetails(ctx context.Context, userID int64, req model.UpdateDetailsReq) (*model.User, error) {
	u, err := s.ur.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" {
		u.Email = strings.ToLower(req.Email)
	}
	if req.PhoneNo != "" {
		u.PhoneNo = req.PhoneNo
	}
	if req.Province != "" {
		u.Province = req.Province
	}
	if req.District != "" {
		u.District = req.District
	}
	if req.Municipality != "" {
		u.Municipality = req.Municipality
	}

	if err := s.ur.UpdateDetails(ctx, u); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateProfilePhoto(ctx context.Context, userID int64, newKey string) (*model.User, error) {
	u, err := s.ur.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.cleanupKeys(ctx, newKey)
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}

	old := u.ProfilePhotoKey
	if err := s.ur.UpdateProfilePhoto(ctx, userID, newKey); err != nil {
		s.cleanupKeys(ctx, newKey)
		return nil, err
	}
	s.cleanupKeys(ctx, old)
	u.ProfilePhotoKey = newKey
	return u, nil
}

func (s *service) SendOTP(ctx context.Context, email string) error {
	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrUserNotFound)
		}
		return err
	}

	otp, err := hash.RandomDigits(otpLength)
	if err != nil {
		return err
	}
	if err := s.ur.SetOTP(ctx, u.ID, otp, time.Now().Add(otpTTL)); err != nil {
		return err
	}

	subject, body := notify.RenderOTP(otp)
	return s.mail.EnqueueStandalone(ctx, u.Email, subject, body)
}

func (s *service) VerifyOTP(ctx context.Context, email, otp string) error {
	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrUserNotFound)
		}
		return err
	}
	if u.OTPCode == "" || u.OTPCode != otp {
		return makeErr(ErrOTPInvalid)
	}
	if u.OTPExpiresAt == nil || time.Now().After(*u.OTPExpiresAt) {
		return makeErr(ErrOTPExpired)
	}
	return s.ur.ClearOTP(ctx, u.ID)
}

func (s *service) ResetPassword(ctx context.Context, email, newPassword string) error {
	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrUserNotFound)
		}
		return err
	}

	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.ur.UpdatePassword(ctx, u.ID, hashed); err != nil {
		return err
	}

	subject, body := notify.RenderResetConfirmation(u.Name)
	return s.mail.EnqueueStandalone(ctx, u.Email, subject, body)
}
