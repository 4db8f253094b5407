package postsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/visionmax01/rentoora-backend-rental/model"
	postrepo "github.com/visionmax01/rentoora-backend-rental/repository/post"
	storagerepo "github.com/visionmax01/rentoora-backend-rental/repository/storage"
)

type ErrCode string

const (
	ErrPostNotFound ErrCode = "POST_NOT_FOUND"
	ErrNotOwner     ErrCode = "NOT_OWNER"
	ErrBadInput     ErrCode = "BAD_INPUT"
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

type Service interface {
	Create(ctx context.Context, clientID int64, req model.CreatePostReq, imageKeys []string) (*model.RentalPost, error)
	Get(ctx context.Context, id int64) (*model.RentalPost, error)
	ListAll(ctx context.Context) ([]model.RentalPost, error)
	ListMine(ctx context.Context, clientID int64) ([]model.RentalPost, error)
	Update(ctx context.Context, clientID, postID int64, req model.UpdatePostReq, newImageKeys []string) (*model.RentalPost, error)
	Delete(ctx context.Context, clientID, postID int64) error
}

type service struct {
	pr      postrepo.Repo
	storage storagerepo.Repo
}

func New(pr postrepo.Repo, storage storagerepo.Repo) Service {
	return &service{pr: pr, storage: storage}
}

func (s *service) Create(ctx context.Context, clientID int64, req model.CreatePostReq, imageKeys []string) (*model.RentalPost, error) {
	p := &model.RentalPost{
		ClientID:    clientID,
		PostType:    req.Type,
		Description: req.Description,
		Price:       req.Price,
		Address: model.Address{
			Province:     req.Province,
			District:     req.District,
			Municipality: req.Municipality,
			Landmark:     req.Landmark,
		},
		Images: imageKeys,
		Status: model.PostNotBooked,
	}
	if err := s.pr.Create(ctx, p); err != nil {
		for _, k := range imageKeys {
			_ = s.storage.Delete(ctx, k)
		}
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.RentalPost, error) {
	p, err := s.pr.ByIDWithOwner(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, makeErr(ErrPostNotFound)
	}
	return p, err
}

func (s *service) ListAll(ctx context.Context) ([]model.RentalPost, error) {
	return s.pr.ListAll(ctx)
}

func (s *service) ListMine(ctx context.Context, clientID int64) ([]model.RentalPost, error) {
	return s.pr.ListByClient(ctx, clientID)
}

// owned loads a post and enforces that clientID created it.
func (s *service) owned(ctx context.Context, clientID, postID int64) (*model.RentalPost, error) {
	p, err := s.pr.ByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPostNotFound)
		}
		return nil, err
	}
	if p.ClientID != clientID {
		return nil, makeErr(ErrNotOwner)
	}
	return p, nil
}

// Update edits an owned post. When newImageKeys is non-empty the upload
// replaces the whole image set and the displaced objects are removed from
// storage after the row is written.
func (s *service) Update(ctx context.Context, clientID, postID int64, req model.UpdatePostReq, newImageKeys []string) (*model.RentalPost, error) {
	cleanupNew := func() {
		for _, k := range newImageKeys {
			_ = s.storage.Delete(ctx, k)
		}
	}

	p, err := s.owned(ctx, clientID, postID)
	if err != nil {
		cleanupNew()
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

	var replaced []string
	if len(newImageKeys) > 0 {
		replaced = p.Images
		p.Images = newImageKeys
	}

	if err := s.pr.Update(ctx, p); err != nil {
		cleanupNew()
		return nil, err
	}
	for _, k := range replaced {
		_ = s.storage.Delete(ctx, k)
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, clientID, postID int64) error {
	p, err := s.owned(ctx, clientID, postID)
	if err != nil {
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
