package model

import (
	"encoding/json"
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

// Payment is immutable once written.
type Payment struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	PostID         int64           `json:"postId"`
	OrderID        int64           `json:"orderId"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus"`
	GatewayPayload json.RawMessage `json:"paymentDetails,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type VerifyPaymentReq struct {
	Token   string  `json:"token" validate:"required"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	PostID  int64   `json:"postId" validate:"required,gt=0"`
	OrderID int64   `json:"orderId" validate:"required,gt=0"`

	// Filled from the token, never from the body.
	UserID int64 `json:"-"`
}
