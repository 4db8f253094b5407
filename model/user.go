package model

import "time"

type Role int16

const (
	RoleClient Role = 0
	RoleAdmin  Role = 1
)

type User struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	AccountID           string     `json:"accountId"`
	Role                Role       `json:"role"`
	PhoneNo             string     `json:"phoneNo,omitempty"`
	DateOfBirth         *time.Time `json:"dateOfBirth,omitempty"`
	Province            string     `json:"province,omitempty"`
	District            string     `json:"district,omitempty"`
	Municipality        string     `json:"municipality,omitempty"`
	ProfilePhotoKey     string     `json:"profilePhotoPath,omitempty"`
	CitizenshipImageKey string     `json:"citizenshipImagePath,omitempty"`
	OTPCode             string     `json:"-"`
	OTPExpiresAt        *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// RegisterReq is the multipart form payload; document images travel as files.
// swagger:model RegisterReq
type RegisterReq struct {
	Name         string `form:"name" validate:"required"`
	Email        string `form:"email" validate:"required,email"`
	Role         int16  `form:"role" validate:"gte=0,lte=1"`
	PhoneNo      string `form:"phoneNo"`
	DateOfBirth  string `form:"dateOfBirth"`
	Province     string `form:"province"`
	District     string `form:"district"`
	Municipality string `form:"municipality"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type SendOTPReq struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPReq struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

type ResetPasswordReq struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type UpdateDetailsReq struct {
	Name         string `json:"name"`
	Email        string `json:"email" validate:"omitempty,email"`
	PhoneNo      string `json:"phoneNo"`
	Province     string `json:"province"`
	District     string `json:"district"`
	Municipality string `json:"municipality"`
}
