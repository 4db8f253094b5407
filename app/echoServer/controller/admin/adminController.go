package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/visionmax01/rentoora-backend-rental/model"
	adm "github.com/visionmax01/rentoora-backend-rental/service/admin"
)

type Controller struct {
	Svc adm.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /admin/clients
func (h *Controller) ListClients(c echo.Context) error {
	rows, err := h.Svc.ListClients(c.Request().Context())
	if err != nil {
		h.Log.Error("admin clients", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"clients": rows})
}

// GET /admin/recent-users
func (h *Controller) RecentClients(c echo.Context) error {
	rows, err := h.Svc.RecentClients(c.Request().Context())
	if err != nil {
		h.Log.Error("admin recent clients", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"clients": rows})
}

// GET /admin/clients/:accountId
func (h *Controller) ClientDetail(c echo.Context) error {
	u, err := h.Svc.ClientByAccountID(c.Request().Context(), c.Param("accountId"))
	if err != nil {
		if adm.Code(err) == adm.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "client not found"})
		}
		h.Log.Error("admin client detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, u)
}

// PUT /admin/clients/:accountId
func (h *Controller) UpdateClient(c echo.Context) error {
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

	u, err := h.Svc.UpdateClient(c.Request().Context(), c.Param("accountId"), req)
	if err != nil {
		if adm.Code(err) == adm.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "client not found"})
		}
		h.Log.Error("admin client update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "client updated", "client": u})
}

// DELETE /admin/clients/:accountId
func (h *Controller) DeleteClient(c echo.Context) error {
	if err := h.Svc.DeleteClient(c.Request().Context(), c.Param("accountId")); err != nil {
		if adm.Code(err) == adm.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "client not found"})
		}
		h.Log.Error("admin client delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "client deleted"})
}

// GET /admin/posts
func (h *Controller) ListPosts(c echo.Context) error {
	rows, err := h.Svc.ListPosts(c.Request().Context())
	if err != nil {
		h.Log.Error("admin posts", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": rows})
}

// PUT /admin/posts/:id
func (h *Controller) UpdatePost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.UpdatePostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	p, err := h.Svc.UpdatePost(c.Request().Context(), id, req)
	if err != nil {
		if adm.Code(err) == adm.ErrPostNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "post not found"})
		}
		h.Log.Error("admin post update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post updated", "post": p})
}

// DELETE /admin/posts/:id
func (h *Controller) DeletePost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.DeletePost(c.Request().Context(), id); err != nil {
		if adm.Code(err) == adm.ErrPostNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "post not found"})
		}
		h.Log.Error("admin post delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted"})
}

// PUT /order/posts/:postId/status
func (h *Controller) SetPostStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.UpdatePostStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	if err := h.Svc.SetPostStatus(c.Request().Context(), id, req.Status); err != nil {
		if adm.Code(err) == adm.ErrPostNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "post not found"})
		}
		h.Log.Error("admin post status", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated"})
}

// GET /count/posts
func (h *Controller) CountPosts(c echo.Context) error {
	n, err := h.Svc.CountPosts(c.Request().Context())
	if err != nil {
		h.Log.Error("count posts", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"totalPosts": n})
}

// GET /count/clients
func (h *Controller) CountClients(c echo.Context) error {
	n, err := h.Svc.CountClients(c.Request().Context())
	if err != nil {
		h.Log.Error("count clients", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"totalClients": n})
}
