package order

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/visionmax01/rentoora-backend-rental/model"
	os "github.com/visionmax01/rentoora-backend-rental/service/order"
)

type Controller struct {
	Svc os.Service
	V   *validator.Validate
	Log *slog.Logger
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	return id, err == nil && id > 0
}

// POST /order/create
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateOrderReq
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
	o, err := h.Svc.Create(c.Request().Context(), uid, req)
	if err != nil {
		switch os.Code(err) {
		case os.ErrPostNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "post not found"})
		case os.ErrAlreadyBooked:
			return c.JSON(http.StatusConflict, echo.Map{"message": "post is already booked"})
		case os.ErrOwnBooking:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot book your own post"})
		case os.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		default:
			h.Log.Error("order create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "order placed", "order": o})
}

// PUT /order/orders/:orderId/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(int16)
	o, err := h.Svc.Cancel(c.Request().Context(), uid, model.Role(role), id)
	if err != nil {
		switch os.Code(err) {
		case os.ErrOrderNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		case os.ErrAlreadyCanceled:
			return c.JSON(http.StatusConflict, echo.Map{"message": "order is already canceled"})
		case os.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("order cancel", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "order canceled", "order": o})
}

func (h *Controller) respond(c echo.Context, accept bool) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	uid, _ := c.Get("user_id").(int64)
	o, err := h.Svc.Respond(c.Request().Context(), uid, id, accept)
	if err != nil {
		switch os.Code(err) {
		case os.ErrOrderNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		case os.ErrPostNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "post not found"})
		case os.ErrAlreadyCanceled:
			return c.JSON(http.StatusConflict, echo.Map{"message": "order is already canceled"})
		case os.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("order respond", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "response recorded", "order": o})
}

// PUT /order/orders/:orderId/accept
func (h *Controller) Accept(c echo.Context) error { return h.respond(c, true) }

// PUT /order/orders/:orderId/reject
func (h *Controller) Reject(c echo.Context) error { return h.respond(c, false) }

// GET /order/user-orders
func (h *Controller) MyOrders(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.ListByBooker(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("my orders", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": rows})
}

// GET /order/my-booked-orders
func (h *Controller) ReceivedOrders(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.ListByPostOwner(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("received orders", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": rows})
}
