package ticketsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/visionmax01/rentoora-backend-rental/model"
	ticketrepo "github.com/visionmax01/rentoora-backend-rental/repository/ticket"
	"github.com/visionmax01/rentoora-backend-rental/util/hash"
)

type ErrCode string

const (
	ErrNotFound    ErrCode = "NOT_FOUND"
	ErrNotOwner    ErrCode = "NOT_OWNER"
	ErrTicketLimit ErrCode = "TICKET_LIMIT"
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

const (
	// Each client may raise at most this many tickets per rolling window.
	maxPerWindow = 2
	limitWindow  = 24 * time.Hour
)

type Service interface {
	Create(ctx context.Context, clientID int64, req model.CreateTicketReq) (*model.SupportTicket, error)
	ListMine(ctx context.Context, clientID int64) ([]model.SupportTicket, error)
	Update(ctx context.Context, clientID, ticketID int64, req model.UpdateTicketReq) (*model.SupportTicket, error)
	Delete(ctx context.Context, clientID, ticketID int64) error
}

type service struct {
	tr  ticketrepo.Repo
	now func() time.Time
}

func New(tr ticketrepo.Repo) Service {
	return &service{tr: tr, now: time.Now}
}

func (s *service) Create(ctx context.Context, clientID int64, req model.CreateTicketReq) (*model.SupportTicket, error) {
	since := s.now().Add(-limitWindow)
	n, err := s.tr.CountCreatedSince(ctx, clientID, since)
	if err != nil {
		return nil, err
	}
	if n >= maxPerWindow {
		return nil, makeErr(ErrTicketLimit)
	}

	num, err := hash.RandomPassword(8)
	if err != nil {
		return nil, err
	}

	t := &model.SupportTicket{
		ClientID:     clientID,
		TicketNumber: strings.ToUpper(num),
		IssueType:    req.IssueType,
		Message:      req.Message,
		Status:       model.TicketOpen,
	}
	if err := s.tr.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) ListMine(ctx context.Context, clientID int64) ([]model.SupportTicket, error) {
	return s.tr.ListByClient(ctx, clientID)
}

func (s *service) owned(ctx context.Context, clientID, ticketID int64) (*model.SupportTicket, error) {
	t, err := s.tr.ByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if t.ClientID != clientID {
		return nil, makeErr(ErrNotOwner)
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, clientID, ticketID int64, req model.UpdateTicketReq) (*model.SupportTicket, error) {
	t, err := s.owned(ctx, clientID, ticketID)
	if err != nil {
		return nil, err
	}

	if req.IssueType != "" {
		t.IssueType = req.IssueType
	}
	if req.Message != "" {
		t.Message = req.Message
	}
	if req.Status != "" {
		t.Status = req.Status
	}

	if err := s.tr.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, clientID, ticketID int64) error {
	if _, err := s.owned(ctx, clientID, ticketID); err != nil {
		return err
	}
	ok, err := s.tr.Delete(ctx, ticketID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}
