package feedback

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/visionmax01/rentoora-backend-rental/model"
	fs "github.com/visionmax01/rentoora-backend-rental/service/feedback"
)

type Controller struct {
	Svc fs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /feadback/sendFeadback
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateFeedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	f, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		h.Log.Error("feedback create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "thank you for your feedback", "feedback": f})
}

// POST /feadback/checkFeedback
func (h *Controller) Check(c echo.Context) error {
	var req model.CheckFeedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	exists, err := h.Svc.HasSubmitted(c.Request().Context(), req.Email)
	if err != nil {
		h.Log.Error("feedback check", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hasSubmitted": exists})
}

// GET /feadback/list
func (h *Controller) ListAll(c echo.Context) error {
	rows, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		h.Log.Error("feedback list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"feedbacks": rows})
}
