package notify

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/visionmax01/rentoora-backend-rental/model"
	outboxrepo "github.com/visionmax01/rentoora-backend-rental/repository/outbox"
)

// Mailer is what the workflows see: queue a message, transactionally or not.
// Delivery happens later in DispatchPending, so a transport failure never
// fails the originating request.
type Mailer interface {
	Enqueue(ctx context.Context, tx *sql.Tx, recipient, subject, bodyHTML string) error
	EnqueueStandalone(ctx context.Context, recipient, subject, bodyHTML string) error
}

const (
	maxAttempts   = 5
	dispatchBatch = 20
)

type Outbox struct {
	db     *sql.DB
	repo   outboxrepo.Repo
	sender Sender
	log    *slog.Logger
}

func NewOutbox(db *sql.DB, repo outboxrepo.Repo, sender Sender, log *slog.Logger) *Outbox {
	return &Outbox{db: db, repo: repo, sender: sender, log: log}
}

func (o *Outbox) Enqueue(ctx context.Context, tx *sql.Tx, recipient, subject, bodyHTML string) error {
	return o.repo.Enqueue(ctx, tx, &model.OutboxMessage{
		Recipient: recipient,
		Subject:   subject,
		BodyHTML:  bodyHTML,
	})
}

func (o *Outbox) EnqueueStandalone(ctx context.Context, recipient, subject, bodyHTML string) (err error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = o.Enqueue(ctx, tx, recipient, subject, bodyHTML); err != nil {
		return err
	}
	return tx.Commit()
}

// DispatchPending claims a batch of pending messages and delivers them,
// retrying transient SMTP failures with exponential backoff. Returns the
// number of messages sent.
func (o *Outbox) DispatchPending(ctx context.Context) (int, error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	msgs, err := o.repo.ClaimPending(ctx, tx, dispatchBatch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, m := range msgs {
		attempts := m.Attempts
		backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
		sendErr := retry.Do(ctx, backoff, func(ctx context.Context) error {
			attempts++
			if err := o.sender.Send(ctx, m.Recipient, m.Subject, m.BodyHTML); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})

		if sendErr != nil {
			o.log.Warn("outbox dispatch failed", "id", m.ID, "recipient", m.Recipient,
				"attempts", attempts, "err", sendErr)
			if attempts >= maxAttempts {
				if err := o.repo.MarkFailed(ctx, tx, m.ID, attempts, sendErr.Error()); err != nil {
					return sent, err
				}
			} else if err := o.repo.RecordAttempt(ctx, tx, m.ID, attempts, sendErr.Error()); err != nil {
				return sent, err
			}
			continue
		}

		if err := o.repo.MarkSent(ctx, tx, m.ID, attempts); err != nil {
			return sent, err
		}
		sent++
	}

	if err := tx.Commit(); err != nil {
		return sent, err
	}
	committed = true
	return sent, nil
}
