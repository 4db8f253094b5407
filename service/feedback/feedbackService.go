package feedbacksvc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/visionmax01/rentoora-backend-rental/model"
	feedbackrepo "github.com/visionmax01/rentoora-backend-rental/repository/feedback"
)

// Feedback entries are purged once they are this old.
const retention = 48 * time.Hour

type Service interface {
	Create(ctx context.Context, req model.CreateFeedbackReq) (*model.Feedback, error)
	HasSubmitted(ctx context.Context, email string) (bool, error)
	ListAll(ctx context.Context) ([]model.Feedback, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type service struct {
	fr  feedbackrepo.Repo
	log *slog.Logger
}

func New(fr feedbackrepo.Repo, log *slog.Logger) Service {
	return &service{fr: fr, log: log}
}

func (s *service) Create(ctx context.Context, req model.CreateFeedbackReq) (*model.Feedback, error) {
	f := &model.Feedback{
		Name:    req.Name,
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Message: req.Message,
	}
	if err := s.fr.Insert(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) HasSubmitted(ctx context.Context, email string) (bool, error) {
	return s.fr.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *service) ListAll(ctx context.Context) ([]model.Feedback, error) {
	return s.fr.ListAll(ctx)
}

// PurgeExpired is run on a schedule; it is safe to call concurrently.
func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.fr.DeleteOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("purged expired feedback", "count", n)
	}
	return n, nil
}
