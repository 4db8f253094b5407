package adminsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/visionmax01/rentoora-backend-rental/model"
	postrepo "github.com/visionmax01/rentoora-backend-rental/repository/post"
	storagerepo "github.com/visionmax01/rentoora-backend-rental/repository/storage"
	userrepo "github.com/visionmax01/rentoora-backend-rental/repository/user"
)

type ErrCode string

const (
	ErrUserNotFound ErrCode = "USER_NOT_FOUND"
	ErrPostNotFound ErrCode = "POST_NOT_FOUND"
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

func makeErr(c ErrCode) error { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// recentWindow bounds the "recently registered" dashboard list.
const recentWindow = 48 * time.Hour

type Service interface {
	ListClients(ctx context.Context) ([]model.User, error)
	RecentClients(ctx context.Context) ([]model.User, error)
	ClientByAccountID(ctx context.Context, accountID string) (*model.User, error)
	UpdateClient(ctx context.Context, accountID string, req model.UpdateDetailsReq) (*model.User, error)
	DeleteClient(ctx context.Context, accountID string) error

	ListPosts(ctx context.Context) ([]model.RentalPost, error)
	UpdatePost(ctx context.Context, postID int64, req model.UpdatePostReq) (*model.RentalPost, error)
	SetPostStatus(ctx context.Context, postID int64, status model.PostStatus) error
	DeletePost(ctx context.Context, postID int64) error

	CountPosts(ctx context.Context) (int64, error)
	CountClients(ctx context.Context) (int64, error)
}

type service struct {
	ur      userrepo.Repo
	pr      postrepo.Repo
	storage storagerepo.Repo
}

func New(ur userrepo.Repo, pr postrepo.Repo, storage storagerepo.Repo) Service {
	return &service{ur: ur, pr: pr, storage: storage}
}

func (s *service) ListClients(ctx context.Context) ([]model.User, error) {
	return s.ur.ListClients(ctx)
}

func (s *service) RecentClients(ctx context.Context) ([]model.User, error) {
	return s.ur.ListRegisteredSince(ctx, time.Now().Add(-recentWindow))
}

func (s *service) ClientByAccountID(ctx context.Context, accountID string) (*model.User, error) {
	u, err := s.ur.ByAccountID(ctx, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, makeErr(ErrUserNotFound)
	}
	return u, err
}

func (s *service) UpdateClient(ctx context.Context, accountID string, req model.UpdateDetailsReq) (*model.User, error) {
	u, err := s.ClientByAccountID(ctx, accountID)
	if err != nil {
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
		return nil, err
	}
	return u, nil
}

func (s *service) DeleteClient(ctx context.Context, accountID string) error {
	u, err := s.ClientByAccountID(ctx, accountID)
	if err != nil {
		return err
	}

	// Their posts go with them, images included.
	posts, err := s.pr.ListByClient(ctx, u.ID)
	if err != nil {
		return err
	}

	ok, err := s.ur.DeleteByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrUserNotFound)
	}

	for _, p := range posts {
		for _, k := range p.Images {
			_ = s.storage.Delete(ctx, k)
		}
	}
	for _, k := range []string{u.ProfilePhotoKey, u.CitizenshipImageKey} {
		if k != "" {
			_ = s.storage.Delete(ctx, k)
		}
	}
	return nil
}

func (s *service) ListPosts(ctx context.Context) ([]model.RentalPost, error) {
	return s.pr.ListAll(ctx)
}

func (s *service) UpdatePost(ctx context.Context, postID int64, req model.UpdatePostReq) (*model.RentalPost, error) {
	p, err := s.pr.ByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPostNotFound)
		}
		return nil, err
	}

	if req.Type != "" {
		p.PostType = req.Type
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Price > 0 {
		p.Price = req.Price
	}
	if req.Landmark != "" {
		p.Address.Landmark = req.Landmark
	}

	if err := s.pr.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetPostStatus overwrites the booking flag directly, bypassing the order
// workflow. Moderation tool for stale listings.
func (s *service) SetPostStatus(ctx context.Context, postID int64, status model.PostStatus) error {
	ok, err := s.pr.SetStatus(ctx, postID, status)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrPostNotFound)
	}
	return nil
}

func (s *service) DeletePost(ctx context.Context, postID int64) error {
	p, err := s.pr.ByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrPostNotFound)
		}
		return err
	}

	ok, err := s.pr.Delete(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrPostNotFound)
	}
	for _, k := range p.Images {
		_ = s.storage.Delete(ctx, k)
	}
	return nil
}

func (s *service) CountPosts(ctx context.Context) (int64, error) {
	return s.pr.Count(ctx)
}

func (s *service) CountClients(ctx context.Context) (int64, error) {
	return s.ur.CountClients(ctx)
}
