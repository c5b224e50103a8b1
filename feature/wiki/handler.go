package wiki

import (
	"errors"
	"strings"

	"asset-extractor/core/loader"
	"asset-extractor/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for asset inspection.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inspection routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/find", h.HandleFindAssets)
	app.Get("/assets/*", h.HandleGetAsset)
}

// HandleGetAsset returns the parsed structure of a single asset. The
// wildcard path is the asset name in any accepted spelling.
func (h *Handler) HandleGetAsset(c *fiber.Ctx) error {
	name := "/" + c.Params("*")
	l := logger.WithRayID(h.service.logger, c)

	summary, err := h.service.GetAssetSummary(name)
	if err != nil {
		if errors.Is(err, loader.ErrAssetLoad) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Asset summary failed", zap.String("asset", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(summary)
}

// HandleFindAssets lists asset names under a root. Query parameters:
// root (default /Game), include, exclude (comma-separated regexes) and
// limit.
func (h *Handler) HandleFindAssets(c *fiber.Ctx) error {
	root := c.Query("root", "/Game")
	includes := splitPatterns(c.Query("include"))
	excludes := splitPatterns(c.Query("exclude"))
	limit := c.QueryInt("limit", 100)
	l := logger.WithRayID(h.service.logger, c)

	names, err := h.service.FindAssets(root, includes, excludes, limit)
	if err != nil {
		if errors.Is(err, loader.ErrAssetLoad) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Asset find failed", zap.String("root", root), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"root":   root,
		"count":  len(names),
		"assets": names,
	})
}

func splitPatterns(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
