package postrepo

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/visionmax01/rentoora-backend-rental/model"
	orderrepo "github.com/visionmax01/rentoora-backend-rental/repository/order"
	ticketrepo "github.com/visionmax01/rentoora-backend-rental/repository/ticket"
	userrepo "github.com/visionmax01/rentoora-backend-rental/repository/user"
	"github.com/visionmax01/rentoora-backend-rental/util/database"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := database.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	_, err = db.ExecContext(ctx, `
		TRUNCATE users, rental_posts, orders, payments, support_tickets,
			feedbacks, notification_outbox RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, ur userrepo.Repo, name, email, accountID string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, PasswordHash: "x", AccountID: accountID}
	require.NoError(t, ur.Create(context.Background(), u))
	return u
}

func seedPost(t *testing.T, pr Repo, clientID int64) *model.RentalPost {
	t.Helper()
	p := &model.RentalPost{
		ClientID:    clientID,
		PostType:    "Room",
		Description: "single room",
		Price:       5000,
		Images:      []string{},
		Status:      model.PostNotBooked,
	}
	require.NoError(t, pr.Create(context.Background(), p))
	return p
}

func TestDelete_BookedPostKeepsOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	ur := userrepo.New(db)
	pr := New(db)
	or := orderrepo.New(db)

	owner := seedUser(t, ur, "Owner", "owner@example.com", "O111111")
	booker := seedUser(t, ur, "Booker", "booker@example.com", "B222222")
	p := seedPost(t, pr, owner.ID)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	flipped, err := pr.MarkBooked(ctx, tx, p.ID)
	require.NoError(t, err)
	require.True(t, flipped)
	o := &model.Order{
		OrderID:       "0001-000001",
		UserID:        booker.ID,
		PostID:        p.ID,
		UserName:      booker.Name,
		AccountID:     booker.AccountID,
		PaymentMethod: model.MethodCash,
		OrderStatus:   model.OrderConfirmed,
	}
	require.NoError(t, or.Insert(ctx, tx, o))
	require.NoError(t, tx.Commit())

	ok, err := pr.Delete(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := or.ByID(ctx, o.ID)
	require.NoError(t, err)
	require.Zero(t, got.PostID)
	require.Equal(t, model.OrderConfirmed, got.OrderStatus)
	require.Equal(t, booker.Name, got.UserName)

	rows, err := or.ListByBooker(ctx, booker.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Empty(t, rows[0].PostType)
}

func TestDeleteClient_WithPostsOrdersAndTickets(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	ur := userrepo.New(db)
	pr := New(db)
	or := orderrepo.New(db)
	tr := ticketrepo.New(db)

	owner := seedUser(t, ur, "Owner", "owner@example.com", "O111111")
	booker := seedUser(t, ur, "Booker", "booker@example.com", "B222222")
	p := seedPost(t, pr, owner.ID)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	flipped, err := pr.MarkBooked(ctx, tx, p.ID)
	require.NoError(t, err)
	require.True(t, flipped)
	o := &model.Order{
		OrderID:       "0002-000002",
		UserID:        booker.ID,
		PostID:        p.ID,
		UserName:      booker.Name,
		AccountID:     booker.AccountID,
		PaymentMethod: model.MethodCash,
		OrderStatus:   model.OrderConfirmed,
	}
	require.NoError(t, or.Insert(ctx, tx, o))
	require.NoError(t, tx.Commit())

	require.NoError(t, tr.Insert(ctx, &model.SupportTicket{
		ClientID:     owner.ID,
		TicketNumber: "AB12CD34",
		IssueType:    "Other",
		Message:      "help",
		Status:       model.TicketOpen,
	}))

	ok, err := ur.DeleteByAccountID(ctx, owner.AccountID)
	require.NoError(t, err)
	require.True(t, ok)

	// Posts and tickets go with the client; the order survives detached.
	_, err = pr.ByID(ctx, p.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)
	got, err := or.ByID(ctx, o.ID)
	require.NoError(t, err)
	require.Zero(t, got.PostID)
	require.Equal(t, booker.ID, got.UserID)

	ok, err = ur.DeleteByAccountID(ctx, booker.AccountID)
	require.NoError(t, err)
	require.True(t, ok)
	got, err = or.ByID(ctx, o.ID)
	require.NoError(t, err)
	require.Zero(t, got.UserID)
	require.Equal(t, booker.Name, got.UserName)
}
