package auth

import (
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/visionmax01/rentoora-backend-rental/model"
	storagerepo "github.com/visionmax01/rentoora-backend-rental/repository/storage"
	as "github.com/visionmax01/rentoora-backend-rental/service/auth"
)

type Controller struct {
	Svc     as.Service
	Storage storagerepo.Repo
	V       *validator.Validate
	Log     *slog.Logger
}

// upload stores one multipart file under folder and returns its object key.
// A missing file is not an error; the key comes back empty.
func (h *Controller) upload(c echo.Context, field, folder string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	return h.putFile(c, fh, folder)
}

func (h *Controller) putFile(c echo.Context, fh *multipart.FileHeader, folder string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	key := storagerepo.RandomKey(folder)
	return h.Storage.Put(c.Request().Context(), key, ct, f)
}

// POST /auth/register
func (h *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid form data"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	profileKey, err := h.upload(c, "profilePhoto", "profiles")
	if err != nil {
		h.Log.Error("profile upload", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "upload failed"})
	}
	citizenshipKey, err := h.upload(c, "citizenshipImage", "citizenship")
	if err != nil {
		h.Log.Error("citizenship upload", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "upload failed"})
	}

	out, err := h.Svc.Register(c.Request().Context(), req, profileKey, citizenshipKey)
	if err != nil {
		h.Log.Error("register", "err", err)
		switch as.Code(err) {
		case as.ErrEmailTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		case as.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "registration successful, credentials sent by email",
		"accountId": out.AccountID,
	})
}

// POST /auth/login
func (h *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Login(c.Request().Context(), req)
	if err != nil {
		switch as.Code(err) {
		case as.ErrUserNotFound, as.ErrInvalidCreds:
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid email or password"})
		default:
			h.Log.Error("login", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token":       out.Token,
		"redirectUrl": out.RedirectURL,
		"result":      out.User,
	})
}

// GET /auth/me
func (h *Controller) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	u, err := h.Svc.Me(c.Request().Context(), uid)
	if err != nil {
		if as.Code(err) == as.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		h.Log.Error("me", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, u)
}

// PUT /auth/update-details
func (h *Controller) UpdateDetails(c echo.Context) error {
	var req model.UpdateDetailsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	uid, _ := c.Get("user_id").(int64)
	u, err := h.Svc.UpdateDetails(c.Request().Context(), uid, req)
	if err != nil {
		switch as.Code(err) {
		case as.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case as.ErrEmailTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		default:
			h.Log.Error("update details", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "details updated", "user": u})
}

// PUT /auth/update-profile-pic
func (h *Controller) UpdateProfilePhoto(c echo.Context) error {
	fh, err := c.FormFile("profilePhoto")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "profilePhoto file required"})
	}
	key, err := h.putFile(c, fh, "profiles")
	if err != nil {
		h.Log.Error("profile upload", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "upload failed"})
	}

	uid, _ := c.Get("user_id").(int64)
	u, err := h.Svc.UpdateProfilePhoto(c.Request().Context(), uid, key)
	if err != nil {
		if as.Code(err) == as.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		h.Log.Error("update photo", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile photo updated", "user": u})
}

// PUT /auth/change-password
func (h *Controller) ChangePassword(c echo.Context) error {
	var req model.ChangePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	uid, _ := c.Get("user_id").(int64)
	if err := h.Svc.ChangePassword(c.Request().Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		switch as.Code(err) {
		case as.ErrWrongPassword:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "old password is incorrect"})
		case as.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		default:
			h.Log.Error("change password", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// POST /auth/send-otp
func (h *Controller) SendOTP(c echo.Context) error {
	var req model.SendOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	if err := h.Svc.SendOTP(c.Request().Context(), req.Email); err != nil {
		if as.Code(err) == as.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no account with that email"})
		}
		h.Log.Error("send otp", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent to your email"})
}

// POST /auth/verify-otp
func (h *Controller) VerifyOTP(c echo.Context) error {
	var req model.VerifyOTPReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	if err := h.Svc.VerifyOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		switch as.Code(err) {
		case as.ErrOTPInvalid:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid OTP"})
		case as.ErrOTPExpired:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "OTP has expired"})
		case as.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no account with that email"})
		default:
			h.Log.Error("verify otp", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OTP verified"})
}

// POST /auth/reset-password
func (h *Controller) ResetPassword(c echo.Context) error {
	var req model.ResetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	if err := h.Svc.ResetPassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		if as.Code(err) == as.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no account with that email"})
		}
		h.Log.Error("reset password", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successful"})
}
