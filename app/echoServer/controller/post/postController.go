package post

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/visionmax01/rentoora-backend-rental/model"
	storagerepo "github.com/visionmax01/rentoora-backend-rental/repository/storage"
	ps "github.com/visionmax01/rentoora-backend-rental/service/post"
)

type Controller struct {
	Svc     ps.Service
	Storage storagerepo.Repo
	V       *validator.Validate
	Log     *slog.Logger
}

const maxImages = 5

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Controller) removeKeys(c echo.Context, keys []string) {
	for _, k := range keys {
		_ = h.Storage.Delete(c.Request().Context(), k)
	}
}

// uploadImages stores the files under posts/ and returns the new keys.
// A non-zero status means the upload failed, partial uploads were removed,
// and the caller should respond with that status and message.
func (h *Controller) uploadImages(c echo.Context, files []*multipart.FileHeader) (keys []string, status int, msg string) {
	if len(files) > maxImages {
		return nil, http.StatusBadRequest, "too many images"
	}
	keys = make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.removeKeys(c, keys)
			return nil, http.StatusBadRequest, "unreadable image"
		}
		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		key, err := h.Storage.Put(c.Request().Context(), storagerepo.RandomKey("posts"), ct, f)
		f.Close()
		if err != nil {
			h.Log.Error("image upload", "err", err)
			h.removeKeys(c, keys)
			return nil, http.StatusInternalServerError, "upload failed"
		}
		keys = append(keys, key)
	}
	return keys, 0, ""
}

// POST /api/post — multipart form with up to five image files.
func (h *Controller) Create(c echo.Context) error {
	var req model.CreatePostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid form data"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid form data"})
	}
	keys, status, msg := h.uploadImages(c, form.File["images"])
	if status != 0 {
		return c.JSON(status, echo.Map{"message": msg})
	}

	uid, _ := c.Get("user_id").(int64)
	p, err := h.Svc.Create(c.Request().Context(), uid, req, keys)
	if err != nil {
		h.Log.Error("post create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "post created", "post": p})
}

// GET /order/display-posts
func (h *Controller) ListAll(c echo.Context) error {
	posts, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		h.Log.Error("post list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// GET /api/post
func (h *Controller) ListMine(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	posts, err := h.Svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("my posts", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// GET /order/post/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	p, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if ps.Code(err) == ps.ErrPostNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "post not found"})
		}
		h.Log.Error("post detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, p)
}

// PUT /api/posts/:id — JSON body, or multipart when replacing images.
func (h *Controller) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.UpdatePostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	var keys []string
	if form, err := c.MultipartForm(); err == nil {
		var status int
		var msg string
		keys, status, msg = h.uploadImages(c, form.File["images"])
		if status != 0 {
			return c.JSON(status, echo.Map{"message": msg})
		}
	}

	uid, _ := c.Get("user_id").(int64)
	p, err := h.Svc.Update(c.Request().Context(), uid, id, req, keys)
	if err != nil {
		switch ps.Code(err) {
		case ps.ErrPostNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "post not found"})
		case ps.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("post update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post updated", "post": p})
}

// DELETE /api/posts/:id
func (h *Controller) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		switch ps.Code(err) {
		case ps.ErrPostNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "post not found"})
		case ps.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("post delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted"})
}
