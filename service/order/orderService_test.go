package ordersvc

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/visionmax01/rentoora-backend-rental/model"
	orderrepo "github.com/visionmax01/rentoora-backend-rental/repository/order"
	postrepo "github.com/visionmax01/rentoora-backend-rental/repository/post"
	userrepo "github.com/visionmax01/rentoora-backend-rental/repository/user"
)

// The workflow methods only use *sql.DB for transaction demarcation; all
// statements run through the mocked repos. A driver that does nothing but
// begin and commit is enough to drive them.
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() { sql.Register("ordersvc-stub", stubDriver{}) }

func stubDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("ordersvc-stub", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

type userRepoMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.User, error)
}

var _ userrepo.Repo = (*userRepoMock)(nil)

func (m *userRepoMock) Create(ctx context.Context, u *model.User) error { return nil }
func (m *userRepoMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byIDFn(ctx, id)
}
func (m *userRepoMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, sql.ErrNoRows
}
func (m *userRepoMock) ByAccountID(ctx context.Context, accountID string) (*model.User, error) {
	return nil, sql.ErrNoRows
}
func (m *userRepoMock) UpdateDetails(ctx context.Context, u *model.User) error { return nil }
func (m *userRepoMock) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}
func (m *userRepoMock) UpdateProfilePhoto(ctx context.Context, id int64, key string) error {
	return nil
}
func (m *userRepoMock) SetOTP(ctx context.Context, id int64, code string, expiresAt time.Time) error {
	return nil
}
func (m *userRepoMock) ClearOTP(ctx context.Context, id int64) error          { return nil }
func (m *userRepoMock) ListClients(ctx context.Context) ([]model.User, error) { return nil, nil }
func (m *userRepoMock) ListRegisteredSince(ctx context.Context, since time.Time) ([]model.User, error) {
	return nil, nil
}
func (m *userRepoMock) DeleteByAccountID(ctx context.Context, accountID string) (bool, error) {
	return false, nil
}
func (m *userRepoMock) CountClients(ctx context.Context) (int64, error) { return 0, nil }

type postRepoMock struct {
	byIDWithOwnerFn func(ctx context.Context, id int64) (*model.RentalPost, error)
	markBookedFn    func(ctx context.Context, postID int64) (bool, error)
	notBooked       int
}

var _ postrepo.Repo = (*postRepoMock)(nil)

func (m *postRepoMock) Create(ctx context.Context, p *model.RentalPost) error { return nil }
func (m *postRepoMock) ByID(ctx context.Context, id int64) (*model.RentalPost, error) {
	return m.ByIDWithOwner(ctx, id)
}
func (m *postRepoMock) ByIDWithOwner(ctx context.Context, id int64) (*model.RentalPost, error) {
	if m.byIDWithOwnerFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byIDWithOwnerFn(ctx, id)
}
func (m *postRepoMock) ListAll(ctx context.Context) ([]model.RentalPost, error) { return nil, nil }
func (m *postRepoMock) ListByClient(ctx context.Context, clientID int64) ([]model.RentalPost, error) {
	return nil, nil
}
func (m *postRepoMock) Update(ctx context.Context, p *model.RentalPost) error { return nil }
func (m *postRepoMock) Delete(ctx context.Context, id int64) (bool, error)    { return false, nil }
func (m *postRepoMock) Count(ctx context.Context) (int64, error)              { return 0, nil }
func (m *postRepoMock) MarkBooked(ctx context.Context, tx *sql.Tx, postID int64) (bool, error) {
	if m.markBookedFn == nil {
		return false, nil
	}
	return m.markBookedFn(ctx, postID)
}
func (m *postRepoMock) MarkNotBooked(ctx context.Context, tx *sql.Tx, postID int64) error {
	m.notBooked++
	return nil
}
func (m *postRepoMock) SetStatus(ctx context.Context, postID int64, status model.PostStatus) (bool, error) {
	return false, nil
}
func (m *postRepoMock) Exists(ctx context.Context, id int64) (bool, error) { return false, nil }

type orderRepoMock struct {
	byIDForUpdateFn func(ctx context.Context, id int64) (*model.Order, error)
	inserted        []*model.Order
	canceledBy      []string
	responded       int
	confirmed       int
}

var _ orderrepo.Repo = (*orderRepoMock)(nil)

func (m *orderRepoMock) Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	o.ID = int64(100 + len(m.inserted))
	m.inserted = append(m.inserted, o)
	return nil
}
func (m *orderRepoMock) ByID(ctx context.Context, id int64) (*model.Order, error) {
	return nil, sql.ErrNoRows
}
func (m *orderRepoMock) ByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Order, error) {
	if m.byIDForUpdateFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byIDForUpdateFn(ctx, id)
}
func (m *orderRepoMock) MarkCanceled(ctx context.Context, tx *sql.Tx, orderID int64, byName string, byID int64, byAccountID string) error {
	m.canceledBy = append(m.canceledBy, byName)
	return nil
}
func (m *orderRepoMock) MarkOwnerResponded(ctx context.Context, tx *sql.Tx, orderID int64, at time.Time) error {
	m.responded++
	return nil
}
func (m *orderRepoMock) SetStatusConfirmed(ctx context.Context, tx *sql.Tx, orderID int64) error {
	m.confirmed++
	return nil
}
func (m *orderRepoMock) ListByBooker(ctx context.Context, userID int64) ([]model.OrderWithPost, error) {
	return nil, nil
}
func (m *orderRepoMock) ListByPostOwner(ctx context.Context, ownerID int64) ([]model.OrderWithPost, error) {
	return nil, nil
}

type mailerMock struct {
	sent []string
}

func (m *mailerMock) Enqueue(ctx context.Context, tx *sql.Tx, recipient, subject, bodyHTML string) error {
	m.sent = append(m.sent, recipient)
	return nil
}
func (m *mailerMock) EnqueueStandalone(ctx context.Context, recipient, subject, bodyHTML string) error {
	m.sent = append(m.sent, recipient)
	return nil
}

// --- tests ---

func TestNewOrderID_Shape(t *testing.T) {
	re := regexp.MustCompile(`^\d{4}-\d{6}$`)
	for i := 0; i < 20; i++ {
		id, err := newOrderID()
		require.NoError(t, err)
		require.Regexp(t, re, id)
	}
}

func TestLocation(t *testing.T) {
	got := location(model.Address{
		Province:     "Bagmati",
		District:     "Kathmandu",
		Municipality: "KMC",
		Landmark:     "near gate",
	})
	require.Equal(t, "KMC, Kathmandu, Bagmati, near gate", got)

	require.Equal(t, "Kathmandu", location(model.Address{District: "Kathmandu"}))
	require.Equal(t, "", location(model.Address{}))
}

func TestCreate_PostNotFound(t *testing.T) {
	ur := &userRepoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Name: "Booker", AccountID: "B123456"}, nil
		},
	}
	svc := New(nil, &orderRepoMock{}, &postRepoMock{}, ur, &mailerMock{})

	_, err := svc.Create(context.Background(), 7, model.CreateOrderReq{
		PostID:        404,
		PaymentMethod: model.MethodCash,
	})
	require.Error(t, err)
	require.Equal(t, ErrPostNotFound, Code(err))
}

func TestCreate_OwnBooking(t *testing.T) {
	ur := &userRepoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Name: "Owner", AccountID: "O123456"}, nil
		},
	}
	pr := &postRepoMock{
		byIDWithOwnerFn: func(ctx context.Context, id int64) (*model.RentalPost, error) {
			return &model.RentalPost{ID: id, ClientID: 7}, nil
		},
	}
	svc := New(nil, &orderRepoMock{}, pr, ur, &mailerMock{})

	_, err := svc.Create(context.Background(), 7, model.CreateOrderReq{
		PostID:        1,
		PaymentMethod: model.MethodCash,
	})
	require.Error(t, err)
	require.Equal(t, ErrOwnBooking, Code(err))
}

func TestCreate_UserNotFound(t *testing.T) {
	svc := New(nil, &orderRepoMock{}, &postRepoMock{}, &userRepoMock{}, &mailerMock{})

	_, err := svc.Create(context.Background(), 7, model.CreateOrderReq{
		PostID:        1,
		PaymentMethod: model.MethodCash,
	})
	require.Error(t, err)
	require.Equal(t, ErrUserNotFound, Code(err))
}

func TestGet_NotFound(t *testing.T) {
	svc := New(nil, &orderRepoMock{}, &postRepoMock{}, &userRepoMock{}, &mailerMock{})
	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	require.Equal(t, ErrOrderNotFound, Code(err))
}

// --- workflow paths ---

func lookupUser(ctx context.Context, id int64) (*model.User, error) {
	switch id {
	case 7:
		return &model.User{ID: 7, Name: "Booker", Email: "booker@example.com", AccountID: "B123456"}, nil
	case 9:
		return &model.User{ID: 9, Name: "Owner", Email: "owner@example.com", AccountID: "O654321"}, nil
	case 33:
		return &model.User{ID: 33, Name: "Admin", Email: "admin@example.com", AccountID: "A000001", Role: model.RoleAdmin}, nil
	}
	return nil, sql.ErrNoRows
}

func roomPost(id int64) (*model.RentalPost, error) {
	return &model.RentalPost{
		ID: id, ClientID: 9, PostType: "Room", Price: 5000,
		OwnerName: "Owner", OwnerEmail: "owner@example.com",
		Status: model.PostNotBooked,
	}, nil
}

func confirmedOrder(id int64) *model.Order {
	return &model.Order{
		ID: id, OrderID: "0001-000001", UserID: 7, PostID: 1,
		UserName: "Booker", AccountID: "B123456",
		PaymentMethod: model.MethodCash, OrderStatus: model.OrderConfirmed,
	}
}

func TestCreate_FlipsPostAndMailsBothSides(t *testing.T) {
	ur := &userRepoMock{byIDFn: lookupUser}
	pr := &postRepoMock{
		byIDWithOwnerFn: func(ctx context.Context, id int64) (*model.RentalPost, error) { return roomPost(id) },
		markBookedFn:    func(ctx context.Context, postID int64) (bool, error) { return true, nil },
	}
	or := &orderRepoMock{}
	mail := &mailerMock{}
	svc := New(stubDB(t), or, pr, ur, mail)

	o, err := svc.Create(context.Background(), 7, model.CreateOrderReq{
		PostID:        1,
		PaymentMethod: model.MethodCash,
	})
	require.NoError(t, err)
	require.Len(t, or.inserted, 1)
	require.Equal(t, model.OrderConfirmed, o.OrderStatus)
	require.Equal(t, "Booker", o.UserName)
	require.Regexp(t, `^\d{4}-\d{6}$`, o.OrderID)
	require.Equal(t, []string{"owner@example.com", "booker@example.com"}, mail.sent)
}

func TestCreate_LosesRaceToBookedPost(t *testing.T) {
	ur := &userRepoMock{byIDFn: lookupUser}
	pr := &postRepoMock{
		byIDWithOwnerFn: func(ctx context.Context, id int64) (*model.RentalPost, error) { return roomPost(id) },
		markBookedFn:    func(ctx context.Context, postID int64) (bool, error) { return false, nil },
	}
	or := &orderRepoMock{}
	mail := &mailerMock{}
	svc := New(stubDB(t), or, pr, ur, mail)

	_, err := svc.Create(context.Background(), 7, model.CreateOrderReq{
		PostID:        1,
		PaymentMethod: model.MethodCash,
	})
	require.Error(t, err)
	require.Equal(t, ErrAlreadyBooked, Code(err))
	require.Empty(t, or.inserted)
	require.Empty(t, mail.sent)
}

func TestCancel_ByBookerFreesPost(t *testing.T) {
	ur := &userRepoMock{byIDFn: lookupUser}
	pr := &postRepoMock{
		byIDWithOwnerFn: func(ctx context.Context, id int64) (*model.RentalPost, error) { return roomPost(id) },
	}
	or := &orderRepoMock{
		byIDForUpdateFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return confirmedOrder(id), nil
		},
	}
	mail := &mailerMock{}
	svc := New(stubDB(t), or, pr, ur, mail)

	o, err := svc.Cancel(context.Background(), 7, model.RoleClient, 5)
	require.NoError(t, err)
	require.Equal(t, model.OrderCanceled, o.OrderStatus)
	require.Equal(t, "Booker", o.CanceledBy)
	require.Equal(t, []string{"Booker"}, or.canceledBy)
	require.Equal(t, 1, pr.notBooked)
	require.Equal(t, []string{"owner@example.com", "booker@example.com"}, mail.sent)
}

func TestCancel_SecondCancelConflicts(t *testing.T) {
	ur := &userRepoMock{byIDFn: lookupUser}
	or := &orderRepoMock{
		byIDForUpdateFn: func(ctx context.Context, id int64) (*model.Order, error) {
			o := confirmedOrder(id)
			o.OrderStatus = model.OrderCanceled
			return o, nil
		},
	}
	pr := &postRepoMock{}
	svc := New(stubDB(t), or, pr, ur, &mailerMock{})

	_, err := svc.Cancel(context.Background(), 7, model.RoleClient, 5)
	require.Error(t, err)
	require.Equal(t, ErrAlreadyCanceled, Code(err))
	require.Empty(t, or.canceledBy)
	require.Zero(t, pr.notBooked)
}

func TestCancel_StrangerForbidden(t *testing.T) {
	ur := &userRepoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Name: "Stranger", AccountID: "S999999"}, nil
		},
	}
	pr := &postRepoMock{
		byIDWithOwnerFn: func(ctx context.Context, id int64) (*model.RentalPost, error) { return roomPost(id) },
	}
	or := &orderRepoMock{
		byIDForUpdateFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return confirmedOrder(id), nil
		},
	}
	svc := New(stubDB(t), or, pr, ur, &mailerMock{})

	_, err := svc.Cancel(context.Background(), 55, model.RoleClient, 5)
	require.Error(t, err)
	require.Equal(t, ErrNotOwner, Code(err))
	require.Empty(t, or.canceledBy)
}

func TestCancel_AdminAllowed(t *testing.T) {
	ur := &userRepoMock{byIDFn: lookupUser}
	pr := &postRepoMock{
		byIDWithOwnerFn: func(ctx context.Context, id int64) (*model.RentalPost, error) { return roomPost(id) },
	}
	or := &orderRepoMock{
		byIDForUpdateFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return confirmedOrder(id), nil
		},
	}
	svc := New(stubDB(t), or, pr, ur, &mailerMock{})

	o, err := svc.Cancel(context.Background(), 33, model.RoleAdmin, 5)
	require.NoError(t, err)
	require.Equal(t, []string{"Admin"}, or.canceledBy)
	require.Equal(t, "Admin", o.CanceledBy)
}

func TestCancel_DeletedPostStillCancels(t *testing.T) {
	ur := &userRepoMock{byIDFn: lookupUser}
	pr := &postRepoMock{} // ByIDWithOwner returns ErrNoRows
	or := &orderRepoMock{
		byIDForUpdateFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return confirmedOrder(id), nil
		},
	}
	mail := &mailerMock{}
	svc := New(stubDB(t), or, pr, ur, mail)

	o, err := svc.Cancel(context.Background(), 7, model.RoleClient, 5)
	require.NoError(t, err)
	require.Equal(t, model.OrderCanceled, o.OrderStatus)
	require.Zero(t, pr.notBooked)
	require.Equal(t, []string{"booker@example.com"}, mail.sent)
}

func TestRespond_AcceptConfirms(t *testing.T) {
	ur := &userRepoMock{byIDFn: lookupUser}
	pr := &postRepoMock{
		byIDWithOwnerFn: func(ctx context.Context, id int64) (*model.RentalPost, error) { return roomPost(id) },
	}
	or := &orderRepoMock{
		byIDForUpdateFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return confirmedOrder(id), nil
		},
	}
	mail := &mailerMock{}
	svc := New(stubDB(t), or, pr, ur, mail)

	o, err := svc.Respond(context.Background(), 9, 5, true)
	require.NoError(t, err)
	require.Equal(t, 1, or.responded)
	require.Equal(t, 1, or.confirmed)
	require.NotNil(t, o.OwnerRespondedAt)
	require.Equal(t, model.OrderConfirmed, o.OrderStatus)
	require.Empty(t, mail.sent)
}

func TestRespond_RejectCancelsAndFreesPost(t *testing.T) {
	ur := &userRepoMock{byIDFn: lookupUser}
	pr := &postRepoMock{
		byIDWithOwnerFn: func(ctx context.Context, id int64) (*model.RentalPost, error) { return roomPost(id) },
	}
	or := &orderRepoMock{
		byIDForUpdateFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return confirmedOrder(id), nil
		},
	}
	mail := &mailerMock{}
	svc := New(stubDB(t), or, pr, ur, mail)

	o, err := svc.Respond(context.Background(), 9, 5, false)
	require.NoError(t, err)
	require.Equal(t, 1, or.responded)
	require.Zero(t, or.confirmed)
	require.Equal(t, []string{"Owner"}, or.canceledBy)
	require.Equal(t, 1, pr.notBooked)
	require.Equal(t, model.OrderCanceled, o.OrderStatus)
	require.Equal(t, []string{"owner@example.com", "booker@example.com"}, mail.sent)
}

func TestRespond_NonOwnerForbidden(t *testing.T) {
	ur := &userRepoMock{byIDFn: lookupUser}
	pr := &postRepoMock{
		byIDWithOwnerFn: func(ctx context.Context, id int64) (*model.RentalPost, error) { return roomPost(id) },
	}
	or := &orderRepoMock{
		byIDForUpdateFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return confirmedOrder(id), nil
		},
	}
	svc := New(stubDB(t), or, pr, ur, &mailerMock{})

	_, err := svc.Respond(context.Background(), 7, 5, true)
	require.Error(t, err)
	require.Equal(t, ErrNotOwner, Code(err))
	require.Zero(t, or.responded)
}
