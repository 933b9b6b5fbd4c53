package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"media-library/internal/auth"
	"media-library/internal/models"
	"media-library/internal/repository"
	"media-library/internal/services"
	"media-library/internal/utils"
)

type Handler struct {
	verifier *auth.JWTVerifier
	ingest   *services.IngestService
	assets   *services.AssetService
}

func NewHandler(v *auth.JWTVerifier, ingest *services.IngestService, assets *services.AssetService) *Handler {
	return &Handler{verifier: v, ingest: ingest, assets: assets}
}

func (h *Handler) Register(app *fiber.App) {
	projects := app.Group("/projects/:projectID", h.RequireAuth)
	projects.Post("/media", h.Upload)
	projects.Get("/media", h.List)
	projects.Patch("/media/:id", h.Update)
	projects.Delete("/media/:id", h.Delete)
	projects.Get("/media/:id/url", h.GetURL)
}

// RequireAuth checks the bearer token; which user may touch which project is
// the gateway's concern, not this service's.
func (h *Handler) RequireAuth(c *fiber.Ctx) error {
	token := c.Get("Authorization")
	if token == "" {
		return utils.JSONError(c, fiber.StatusUnauthorized, "missing auth")
	}
	token = strings.TrimPrefix(token, "Bearer ")
	userID, err := h.verifier.VerifyToken(token)
	if err != nil {
		return utils.JSONError(c, fiber.StatusUnauthorized, "invalid token")
	}
	c.Locals("userID", userID)
	return c.Next()
}

// POST /projects/:projectID/media (multipart/form-data, repeated 'files')
func (h *Handler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "multipart form expected")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return utils.JSONError(c, fiber.StatusBadRequest, "no files in request")
	}

	files := make([]models.IncomingFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readFile(fh)
		if err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "cannot read file "+fh.Filename)
		}
		files = append(files, f)
	}

	res, err := h.ingest.Ingest(c.Context(), c.Params("projectID"), files)
	if err != nil {
		var quotaErr *services.QuotaExceededError
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			return utils.JSONError(c, fiber.StatusNotFound, "project not found")
		case errors.As(err, &quotaErr):
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"success": false,
				"error":   "QUOTA_EXCEEDED",
				"quota":   quotaErr.Quota,
			})
		default:
			return utils.JSONError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	// partial failure is still a created batch
	return c.Status(fiber.StatusCreated).JSON(struct {
		Success bool `json:"success"`
		*models.IngestResult
	}{true, res})
}

// GET /projects/:projectID/media?type=&search=&page=&limit=
func (h *Handler) List(c *fiber.Ctx) error {
	opts := repository.ListOptions{
		Type:   c.Query("type", "all"),
		Search: c.Query("search"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
	}
	res, err := h.assets.List(c.Context(), c.Params("projectID"), opts)
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(res)
}

// PATCH /projects/:projectID/media/:id {"name": ..., "altText": ...}
func (h *Handler) Update(c *fiber.Ctx) error {
	var body struct {
		Name    *string `json:"name"`
		AltText *string `json:"altText"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	a, err := h.assets.UpdateMeta(c.Context(), c.Params("projectID"), c.Params("id"), body.Name, body.AltText)
	if err != nil {
		if errors.Is(err, services.ErrAssetNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "media asset not found")
		}
		return utils.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.JSONSuccess(c, fiber.StatusOK, a)
}

// DELETE /projects/:projectID/media/:id?force=true
func (h *Handler) Delete(c *fiber.Ctx) error {
	force := c.QueryBool("force")
	err := h.assets.Delete(c.Context(), c.Params("projectID"), c.Params("id"), force)
	if err != nil {
		var inUse *services.MediaInUseError
		switch {
		case errors.Is(err, services.ErrAssetNotFound):
			return utils.JSONError(c, fiber.StatusNotFound, "media asset not found")
		case errors.As(err, &inUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":    false,
				"error":      "MEDIA_IN_USE",
				"pagesUsing": inUse.PagesUsing,
			})
		default:
			return utils.JSONError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// GET /projects/:projectID/media/:id/url
func (h *Handler) GetURL(c *fiber.Ctx) error {
	url, err := h.assets.ResolveURL(c.Context(), c.Params("projectID"), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrAssetNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "media asset not found")
		}
		return utils.JSONError(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"url": url})
}

func readFile(fh *multipart.FileHeader) (models.IncomingFile, error) {
	f, err := fh.Open()
	if err != nil {
		return models.IncomingFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.IncomingFile{}, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return models.IncomingFile{
		Filename: fh.Filename,
		MimeType: ct,
		Data:     data,
		Size:     int64(len(data)),
	}, nil
}
