package ordersvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/visionmax01/rentoora-backend-rental/model"
	orderrepo "github.com/visionmax01/rentoora-backend-rental/repository/order"
	postrepo "github.com/visionmax01/rentoora-backend-rental/repository/post"
	userrepo "github.com/visionmax01/rentoora-backend-rental/repository/user"
	"github.com/visionmax01/rentoora-backend-rental/service/notify"
	"github.com/visionmax01/rentoora-backend-rental/util/hash"
)

type ErrCode string

const (
	ErrPostNotFound    ErrCode = "POST_NOT_FOUND"
	ErrOrderNotFound   ErrCode = "ORDER_NOT_FOUND"
	ErrUserNotFound    ErrCode = "USER_NOT_FOUND"
	ErrAlreadyBooked   ErrCode = "ALREADY_BOOKED"
	ErrAlreadyCanceled ErrCode = "ALREADY_CANCELED"
	ErrNotOwner        ErrCode = "NOT_OWNER"
	ErrOwnBooking      ErrCode = "OWN_BOOKING"
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
	Create(ctx context.Context, userID int64, req model.CreateOrderReq) (*model.Order, error)
	Cancel(ctx context.Context, actorID int64, actorRole model.Role, orderID int64) (*model.Order, error)
	Respond(ctx context.Context, ownerID, orderID int64, accept bool) (*model.Order, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	ListByBooker(ctx context.Context, userID int64) ([]model.OrderWithPost, error)
	ListByPostOwner(ctx context.Context, ownerID int64) ([]model.OrderWithPost, error)
}

type service struct {
	db   *sql.DB
	or   orderrepo.Repo
	pr   postrepo.Repo
	ur   userrepo.Repo
	mail notify.Mailer
}

func New(db *sql.DB, or orderrepo.Repo, pr postrepo.Repo, ur userrepo.Repo, mail notify.Mailer) Service {
	return &service{db: db, or: or, pr: pr, ur: ur, mail: mail}
}

// newOrderID builds the human-facing order number, e.g. "0042-917365".
func newOrderID() (string, error) {
	head, err := hash.RandomDigits(4)
	if err != nil {
		return "", err
	}
	tail, err := hash.RandomDigits(6)
	if err != nil {
		return "", err
	}
	return head + "-" + tail, nil
}

func location(a model.Address) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Municipality, a.District, a.Province, a.Landmark} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (s *service) Create(ctx context.Context, userID int64, req model.CreateOrderReq) (o *model.Order, err error) {
	booker, err := s.ur.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}

	post, err := s.pr.ByIDWithOwner(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPostNotFound)
		}
		return nil, err
	}
	if post.ClientID == userID {
		return nil, makeErr(ErrOwnBooking)
	}

	orderID, err := newOrderID()
	if err != nil {
		return nil, err
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

	// The flip to booked is the gate: whoever turns it wins, everyone
	// else sees the post as taken.
	flipped, err := s.pr.MarkBooked(ctx, tx, post.ID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, makeErr(ErrAlreadyBooked)
	}

	o = &model.Order{
		OrderID:       orderID,
		UserID:        userID,
		PostID:        post.ID,
		UserName:      booker.Name,
		AccountID:     booker.AccountID,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		OrderStatus:   model.OrderConfirmed,
	}
	if err = s.or.Insert(ctx, tx, o); err != nil {
		return nil, err
	}

	m := notify.BookingMail{
		OwnerName:       post.OwnerName,
		BookerName:      booker.Name,
		BookerAccountID: booker.AccountID,
		OrderID:         o.OrderID,
		PostType:        post.PostType,
		Price:           fmt.Sprintf("%.2f", post.Price),
		PaymentMethod:   string(req.PaymentMethod),
		Location:        location(post.Address),
	}
	subject, body := notify.RenderBookingOwner(m)
	if err = s.mail.Enqueue(ctx, tx, post.OwnerEmail, subject, body); err != nil {
		return nil, err
	}
	subject, body = notify.RenderBookingBooker(m)
	if err = s.mail.Enqueue(ctx, tx, booker.Email, subject, body); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Cancel(ctx context.Context, actorID int64, actorRole model.Role, orderID int64) (o *model.Order, err error) {
	actor, err := s.ur.ByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
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

	o, err = s.or.ByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrOrderNotFound)
		}
		return nil, err
	}
	if o.OrderStatus == model.OrderCanceled {
		return nil, makeErr(ErrAlreadyCanceled)
	}

	// post is nil when the listing was deleted after booking; the order
	// can still be canceled by its booker or an admin.
	post, err := s.pr.ByIDWithOwner(ctx, o.PostID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		post = nil
	}
	if actorRole != model.RoleAdmin && actorID != o.UserID &&
		(post == nil || actorID != post.ClientID) {
		return nil, makeErr(ErrNotOwner)
	}

	if err = s.or.MarkCanceled(ctx, tx, o.ID, actor.Name, actor.ID, actor.AccountID); err != nil {
		return nil, err
	}
	if post != nil {
		if err = s.pr.MarkNotBooked(ctx, tx, o.PostID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	if err = s.enqueueCancelMails(ctx, tx, o, post, actor.Name, now); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	o.OrderStatus = model.OrderCanceled
	o.CanceledBy = actor.Name
	o.CanceledByID = &actor.ID
	o.CanceledAccountID = actor.AccountID
	return o, nil
}

// enqueueCancelMails notifies both sides. post may be nil when the
// listing is gone; then only the booker is mailed.
func (s *service) enqueueCancelMails(ctx context.Context, tx *sql.Tx, o *model.Order, post *model.RentalPost, canceledBy string, at time.Time) error {
	booker, err := s.ur.ByID(ctx, o.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	postType := "rental post"
	if post != nil {
		postType = post.PostType
		subject, body := notify.RenderCancelOwner(notify.CancelMail{
			Name:       post.OwnerName,
			PostType:   post.PostType,
			OrderID:    o.OrderID,
			CanceledBy: canceledBy,
			CanceledOn: notify.FormatCanceledOn(at),
		})
		if err := s.mail.Enqueue(ctx, tx, post.OwnerEmail, subject, body); err != nil {
			return err
		}
	}

	subject, body := notify.RenderCancelBooker(notify.CancelMail{
		Name:       booker.Name,
		PostType:   postType,
		OrderID:    o.OrderID,
		CanceledBy: canceledBy,
		CanceledOn: notify.FormatCanceledOn(at),
	})
	return s.mail.Enqueue(ctx, tx, booker.Email, subject, body)
}

// Respond records the post owner's answer to a booking. Accepting keeps the
// order confirmed and stamps the response time; rejecting cancels it and
// frees the post.
func (s *service) Respond(ctx context.Context, ownerID, orderID int64, accept bool) (o *model.Order, err error) {
	owner, err := s.ur.ByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
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

	o, err = s.or.ByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrOrderNotFound)
		}
		return nil, err
	}
	if o.OrderStatus == model.OrderCanceled {
		return nil, makeErr(ErrAlreadyCanceled)
	}

	post, err := s.pr.ByIDWithOwner(ctx, o.PostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPostNotFound)
		}
		return nil, err
	}
	if post.ClientID != ownerID {
		return nil, makeErr(ErrNotOwner)
	}

	now := time.Now()
	if err = s.or.MarkOwnerResponded(ctx, tx, o.ID, now); err != nil {
		return nil, err
	}

	if accept {
		if err = s.or.SetStatusConfirmed(ctx, tx, o.ID); err != nil {
			return nil, err
		}
	} else {
		if err = s.or.MarkCanceled(ctx, tx, o.ID, owner.Name, owner.ID, owner.AccountID); err != nil {
			return nil, err
		}
		if err = s.pr.MarkNotBooked(ctx, tx, o.PostID); err != nil {
			return nil, err
		}
		if err = s.enqueueCancelMails(ctx, tx, o, post, owner.Name, now); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	o.OwnerRespondedAt = &now
	if !accept {
		o.OrderStatus = model.OrderCanceled
		o.CanceledBy = owner.Name
		o.CanceledByID = &owner.ID
		o.CanceledAccountID = owner.AccountID
	}
	return o, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Order, error) {
	o, err := s.or.ByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, makeErr(ErrOrderNotFound)
	}
	return o, err
}

func (s *service) ListByBooker(ctx context.Context, userID int64) ([]model.OrderWithPost, error) {
	return s.or.ListByBooker(ctx, userID)
}

func (s *service) ListByPostOwner(ctx context.Context, ownerID int64) ([]model.OrderWithPost, error) {
	return s.or.ListByPostOwner(ctx, ownerID)
}
