package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/visionmax01/rentoora-backend-rental/model"
	khaltirepo "github.com/visionmax01/rentoora-backend-rental/repository/khalti"
	orderrepo "github.com/visionmax01/rentoora-backend-rental/repository/order"
	paymentrepo "github.com/visionmax01/rentoora-backend-rental/repository/payment"
	postrepo "github.com/visionmax01/rentoora-backend-rental/repository/post"
)

type ErrCode string

const (
	ErrPostNotFound   ErrCode = "POST_NOT_FOUND"
	ErrOrderNotFound  ErrCode = "ORDER_NOT_FOUND"
	ErrVerifyFailed   ErrCode = "VERIFY_FAILED"
	ErrAmountMismatch ErrCode = "AMOUNT_MISMATCH"
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
	VerifyKhalti(ctx context.Context, req model.VerifyPaymentReq) (*model.Payment, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Payment, error)
}

type service struct {
	db     *sql.DB
	khalti khaltirepo.Repo
	pay    paymentrepo.Repo
	or     orderrepo.Repo
	pr     postrepo.Repo
}

func New(db *sql.DB, khalti khaltirepo.Repo, pay paymentrepo.Repo, or orderrepo.Repo, pr postrepo.Repo) Service {
	return &service{db: db, khalti: khalti, pay: pay, or: or, pr: pr}
}

// Khalti amounts travel in paisa.
func toPaisa(rupees float64) float64 { return math.Round(rupees * 100) }

func (s *service) VerifyKhalti(ctx context.Context, req model.VerifyPaymentReq) (p *model.Payment, err error) {
	post, err := s.pr.ByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPostNotFound)
		}
		return nil, err
	}
	order, err := s.or.ByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrOrderNotFound)
		}
		return nil, err
	}

	// The client supplies the amount; it must match what the post costs,
	// or a tampered request could buy a post at any price.
	if req.Amount != toPaisa(post.Price) {
		return nil, makeErr(ErrAmountMismatch)
	}

	resp, err := s.khalti.Verify(ctx, khaltirepo.VerifyReq{Token: req.Token, Amount: req.Amount})
	if err != nil {
		return nil, err
	}
	if resp.Idx == "" {
		return nil, makeErr(ErrVerifyFailed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p = &model.Payment{
		UserID:         req.UserID,
		PostID:         req.PostID,
		OrderID:        order.ID,
		PaymentMethod:  model.MethodWallet,
		PaymentStatus:  model.PaymentCompleted,
		GatewayPayload: resp.RawPayload,
	}
	if err = s.pay.Insert(ctx, tx, p); err != nil {
		return nil, err
	}
	if err = s.or.SetStatusConfirmed(ctx, tx, order.ID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	return s.pay.ListByUser(ctx, userID)
}
