package model

import "time"

type PostStatus string

const (
	PostNotBooked PostStatus = "not booked"
	PostBooked    PostStatus = "booked"
)

type Address struct {
	Province     string `json:"province"`
	District     string `json:"district"`
	Municipality string `json:"municipality"`
	Landmark     string `json:"landmark,omitempty"`
}

type RentalPost struct {
	ID          int64      `json:"id"`
	ClientID    int64      `json:"clientId"`
	PostType    string     `json:"postType"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Address     Address    `json:"address"`
	Images      []string   `json:"images"`
	Status      PostStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Owner projection, filled by list queries.
	OwnerName      string `json:"ownerName,omitempty"`
	OwnerAccountID string `json:"ownerAccountId,omitempty"`
	OwnerEmail     string `json:"ownerEmail,omitempty"`
	OwnerPhoneNo   string `json:"ownerPhoneNo,omitempty"`
}

type CreatePostReq struct {
	Type         string  `form:"type" json:"type" validate:"required"`
	Description  string  `form:"description" json:"description" validate:"required"`
	Price        float64 `form:"price" json:"price" validate:"required,gt=0"`
	Province     string  `form:"province" json:"province" validate:"required"`
	District     string  `form:"district" json:"district" validate:"required"`
	Municipality string  `form:"municipality" json:"municipality" validate:"required"`
	Landmark     string  `form:"landmark" json:"landmark"`
}

type UpdatePostReq struct {
	Type        string  `form:"type" json:"type"`
	Description string  `form:"description" json:"description"`
	Price       float64 `form:"price" json:"price" validate:"omitempty,gt=0"`
	Landmark    string  `form:"landmark" json:"landmark"`
}

type UpdatePostStatusReq struct {
	Status PostStatus `json:"status" validate:"required,oneof='not booked' booked"`
}
