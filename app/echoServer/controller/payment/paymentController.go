package payment

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/visionmax01/rentoora-backend-rental/model"
	pay "github.com/visionmax01/rentoora-backend-rental/service/payment"
)

type Controller struct {
	Svc pay.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /payment/khalti/verify
func (h *Controller) VerifyKhalti(c echo.Context) error {
	var req model.VerifyPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	// Callers verify their own payments only.
	uid, _ := c.Get("user_id").(int64)
	req.UserID = uid

	// Every branch carries a success flag; the checkout page keys off it.
	p, err := h.Svc.VerifyKhalti(c.Request().Context(), req)
	if err != nil {
		switch pay.Code(err) {
		case pay.ErrPostNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "post not found"})
		case pay.ErrOrderNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "order not found"})
		case pay.ErrAmountMismatch:
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "amount does not match post price"})
		case pay.ErrVerifyFailed:
			return c.JSON(http.StatusPaymentRequired, echo.Map{"success": false, "message": "payment verification failed"})
		default:
			h.Log.Error("khalti verify", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "payment verified", "payment": p})
}

// GET /payment/history
func (h *Controller) History(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("payment history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": rows})
}
