package ticket

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/visionmax01/rentoora-backend-rental/model"
	ts "github.com/visionmax01/rentoora-backend-rental/service/ticket"
)

type Controller struct {
	Svc ts.Service
	V   *validator.Validate
	Log *slog.Logger
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// POST /txt/create
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateTicketReq
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
	t, err := h.Svc.Create(c.Request().Context(), uid, req)
	if err != nil {
		if ts.Code(err) == ts.ErrTicketLimit {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"message": "ticket limit reached, try again later"})
		}
		h.Log.Error("ticket create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "ticket raised", "ticket": t})
}

// GET /txt/my-tickets
func (h *Controller) ListMine(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("ticket list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": rows})
}

// PUT /txt/update/:id
func (h *Controller) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.UpdateTicketReq
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
	t, err := h.Svc.Update(c.Request().Context(), uid, id, req)
	if err != nil {
		switch ts.Code(err) {
		case ts.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "ticket not found"})
		case ts.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("ticket update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket updated", "ticket": t})
}

// DELETE /txt/delete/:id
func (h *Controller) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		switch ts.Code(err) {
		case ts.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "ticket not found"})
		case ts.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("ticket delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket deleted"})
}
