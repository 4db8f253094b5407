package paymentsvc

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/visionmax01/rentoora-backend-rental/model"
	khaltirepo "github.com/visionmax01/rentoora-backend-rental/repository/khalti"
	orderrepo "github.com/visionmax01/rentoora-backend-rental/repository/order"
	paymentrepo "github.com/visionmax01/rentoora-backend-rental/repository/payment"
	postrepo "github.com/visionmax01/rentoora-backend-rental/repository/post"
)

type khaltiMock struct {
	verifyFn func(ctx context.Context, req khaltirepo.VerifyReq) (*khaltirepo.VerifyResp, error)
}

func (m *khaltiMock) Verify(ctx context.Context, req khaltirepo.VerifyReq) (*khaltirepo.VerifyResp, error) {
	return m.verifyFn(ctx, req)
}

type payRepoMock struct {
	inserted []model.Payment
}

var _ paymentrepo.Repo = (*payRepoMock)(nil)

func (m *payRepoMock) Insert(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	m.inserted = append(m.inserted, *p)
	return nil
}
func (m *payRepoMock) ListByUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	return nil, nil
}

type orderRepoMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.Order, error)
}

var _ orderrepo.Repo = (*orderRepoMock)(nil)

func (m *orderRepoMock) Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error { return nil }
func (m *orderRepoMock) ByID(ctx context.Context, id int64) (*model.Order, error) {
	if m.byIDFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byIDFn(ctx, id)
}
func (m *orderRepoMock) ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Order, error) {
	return nil, sql.ErrNoRows
}
func (m *orderRepoMock) MarkCanceled(ctx context.Context, tx *sql.Tx, orderID int64, byName string, byID int64, byAccountID string) error {
	return nil
}
func (m *orderRepoMock) MarkOwnerResponded(ctx context.Context, tx *sql.Tx, orderID int64, at time.Time) error {
	return nil
}
func (m *orderRepoMock) SetStatusConfirmed(ctx context.Context, tx *sql.Tx, orderID int64) error {
	return nil
}
func (m *orderRepoMock) ListByBooker(ctx context.Context, userID int64) ([]model.OrderWithPost, error) {
	return nil, nil
}
func (m *orderRepoMock) ListByPostOwner(ctx context.Context, ownerID int64) ([]model.OrderWithPost, error) {
	return nil, nil
}

type postRepoMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.RentalPost, error)
}

var _ postrepo.Repo = (*postRepoMock)(nil)

func (m *postRepoMock) Create(ctx context.Context, p *model.RentalPost) error { return nil }
func (m *postRepoMock) ByID(ctx context.Context, id int64) (*model.RentalPost, error) {
	if m.byIDFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byIDFn(ctx, id)
}
func (m *postRepoMock) ByIDWithOwner(ctx context.Context, id int64) (*model.RentalPost, error) {
	return m.ByID(ctx, id)
}
func (m *postRepoMock) ListAll(ctx context.Context) ([]model.RentalPost, error) { return nil, nil }
func (m *postRepoMock) ListByClient(ctx context.Context, clientID int64) ([]model.RentalPost, error) {
	return nil, nil
}
func (m *postRepoMock) Update(ctx context.Context, p *model.RentalPost) error { return nil }
func (m *postRepoMock) Delete(ctx context.Context, id int64) (bool, error)    { return false, nil }
func (m *postRepoMock) Count(ctx context.Context) (int64, error)              { return 0, nil }
func (m *postRepoMock) MarkBooked(ctx context.Context, tx *sql.Tx, postID int64) (bool, error) {
	return false, nil
}
func (m *postRepoMock) MarkNotBooked(ctx context.Context, tx *sql.Tx, postID int64) error {
	return nil
}
func (m *postRepoMock) SetStatus(ctx context.Context, postID int64, status model.PostStatus) (bool, error) {
	return false, nil
}
func (m *postRepoMock) Exists(ctx context.Context, id int64) (bool, error) { return false, nil }

// --- tests ---

func roomPost(price float64) *postRepoMock {
	return &postRepoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.RentalPost, error) {
			return &model.RentalPost{ID: id, Price: price}, nil
		},
	}
}

func confirmedOrder() *orderRepoMock {
	return &orderRepoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, OrderStatus: model.OrderConfirmed}, nil
		},
	}
}

func TestVerifyKhalti_AmountMismatch(t *testing.T) {
	called := false
	kh := &khaltiMock{
		verifyFn: func(ctx context.Context, req khaltirepo.VerifyReq) (*khaltirepo.VerifyResp, error) {
			called = true
			return &khaltirepo.VerifyResp{Idx: "txn"}, nil
		},
	}
	svc := New(nil, kh, &payRepoMock{}, confirmedOrder(), roomPost(4500))

	_, err := svc.VerifyKhalti(context.Background(), model.VerifyPaymentReq{
		Token: "tok", Amount: 123, PostID: 1, UserID: 7, OrderID: 1,
	})
	require.Error(t, err)
	require.Equal(t, ErrAmountMismatch, Code(err))
	require.False(t, called, "gateway must not be hit when the amount is wrong")
}

func TestVerifyKhalti_GatewayRejects(t *testing.T) {
	kh := &khaltiMock{
		verifyFn: func(ctx context.Context, req khaltirepo.VerifyReq) (*khaltirepo.VerifyResp, error) {
			return &khaltirepo.VerifyResp{Idx: ""}, nil
		},
	}
	pay := &payRepoMock{}
	svc := New(nil, kh, pay, confirmedOrder(), roomPost(4500))

	_, err := svc.VerifyKhalti(context.Background(), model.VerifyPaymentReq{
		Token: "tok", Amount: 450000, PostID: 1, UserID: 7, OrderID: 1,
	})
	require.Error(t, err)
	require.Equal(t, ErrVerifyFailed, Code(err))
	require.Empty(t, pay.inserted, "rejected payments must not be recorded")
}

func TestVerifyKhalti_PostNotFound(t *testing.T) {
	svc := New(nil, &khaltiMock{}, &payRepoMock{}, &orderRepoMock{}, &postRepoMock{})

	_, err := svc.VerifyKhalti(context.Background(), model.VerifyPaymentReq{
		Token: "tok", Amount: 100, PostID: 404, UserID: 7, OrderID: 1,
	})
	require.Error(t, err)
	require.Equal(t, ErrPostNotFound, Code(err))
}

func TestVerifyKhalti_OrderNotFound(t *testing.T) {
	svc := New(nil, &khaltiMock{}, &payRepoMock{}, &orderRepoMock{}, roomPost(4500))

	_, err := svc.VerifyKhalti(context.Background(), model.VerifyPaymentReq{
		Token: "tok", Amount: 450000, PostID: 1, UserID: 7, OrderID: 404,
	})
	require.Error(t, err)
	require.Equal(t, ErrOrderNotFound, Code(err))
}
