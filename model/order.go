package model

import "time"

type OrderStatus string

const (
	OrderConfirmed OrderStatus = "Order Confirmed"
	OrderCanceled  OrderStatus = "Order Canceled"
)

type PaymentMethod string

const (
	MethodWallet PaymentMethod = "Wallet"
	MethodCash   PaymentMethod = "Cash on Delivery"
)

type Order struct {
	ID            int64         `json:"id"`
	OrderID       string        `json:"orderId"`
	UserID        int64         `json:"userId"`
	PostID        int64         `json:"postId"`
	UserName      string        `json:"userName"`
	AccountID     string        `json:"accountId"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TransactionID string        `json:"transactionId,omitempty"`
	OrderStatus   OrderStatus   `json:"orderStatus"`

	CanceledBy        string     `json:"canceledBy,omitempty"`
	CanceledByID      *int64     `json:"canceledById,omitempty"`
	CanceledAccountID string     `json:"canceledAccountId,omitempty"`
	OwnerRespondedAt  *time.Time `json:"ownerRespondedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderWithPost is the booker-facing projection joining the rental post
// and its owner's contact fields.
type OrderWithPost struct {
	Order
	PostType     string   `json:"postType"`
	Price        float64  `json:"price"`
	PostAddress  Address  `json:"postAddress"`
	PostImages   []string `json:"postImages,omitempty"`
	OwnerName    string   `json:"ownerName"`
	OwnerPhoneNo string   `json:"ownerPhoneNo,omitempty"`
}

type CreateOrderReq struct {
	PostID        int64         `json:"postId" validate:"required,gt=0"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=Wallet 'Cash on Delivery'"`
	TransactionID string        `json:"transactionId"`
}
