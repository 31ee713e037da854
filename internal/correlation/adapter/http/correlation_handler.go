package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/usecase"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

// CorrelationHandler exposes the datasets over HTTP.
type CorrelationHandler struct {
	uc  usecase.CorrelationUsecase
	log logger.Logger
}

// NewCorrelationHandler creates a new CorrelationHandler.
func NewCorrelationHandler(uc usecase.CorrelationUsecase, log logger.Logger) *CorrelationHandler {
	return &CorrelationHandler{uc: uc, log: log.WithComponent("http")}
}

// RegisterRoutes registers the dataset endpoints.
func (h *CorrelationHandler) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api/v1")
	api.Get("/flows", h.GetFlows)                   // GET /api/v1/flows?cache=false
	api.Get("/objects/:name", h.GetObject)          // GET /api/v1/objects/{apiName}
	api.Delete("/cache", h.InvalidateCache)         // DELETE /api/v1/cache?dataset=&object=
	api.Get("/snapshots", h.ListSnapshots)          // GET /api/v1/snapshots?limit=
	api.Get("/snapshots/:dataset", h.ListSnapshots) // GET /api/v1/snapshots/{dataset}?limit=
}

// GetFlows runs the flows dataset.
func (h *CorrelationHandler) GetFlows(c *fiber.Ctx) error {
	res, err := h.uc.RunFlows(c.UserContext(), useCache(c))
	if err != nil {
		return h.sendError(c, err)
	}
	return c.JSON(res)
}

// GetObject runs the object dataset for the object named in the path.
func (h *CorrelationHandler) GetObject(c *fiber.Ctx) error {
	res, err := h.uc.RunObject(c.UserContext(), c.Params("name"), useCache(c))
	if err != nil {
		return h.sendError(c, err)
	}
	return c.JSON(res)
}

// InvalidateCache removes cached results. Without a dataset every entry goes.
func (h *CorrelationHandler) InvalidateCache(c *fiber.Ctx) error {
	dataset := c.Query("dataset")
	if err := validateDataset(dataset); err != nil {
		return h.sendError(c, err)
	}
	params := model.RunParameters{Object: c.Query("object")}
	if dataset == model.DatasetObject && params.Object == "" {
		return h.sendError(c, apperrors.NewValidationError("object is required for the object dataset"))
	}
	if err := h.uc.InvalidateCache(c.UserContext(), dataset, params); err != nil {
		return h.sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSnapshots returns the latest archived runs.
func (h *CorrelationHandler) ListSnapshots(c *fiber.Ctx) error {
	dataset := c.Params("dataset")
	if err := validateDataset(dataset); err != nil {
		return h.sendError(c, err)
	}
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return h.sendError(c, apperrors.NewValidationError("limit must be a positive integer"))
		}
		limit = n
	}
	snapshots, err := h.uc.ListSnapshots(c.UserContext(), dataset, limit)
	if err != nil {
		return h.sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// Health reports that the process is serving.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "HEALTHY",
		"message":   "OrgCheck correlation API is running",
		"timestamp": time.Now().UTC(),
	})
}

func (h *CorrelationHandler) sendError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	body := fiber.Map{"error": string(apperrors.ErrorTypeInternal), "message": err.Error()}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body["error"] = string(appErr.Type)
		if appErr.Code != "" {
			body["code"] = appErr.Code
		}
	}
	if status >= fiber.StatusInternalServerError {
		h.log.WithContext(c.UserContext()).Error("Request failed",
			zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(body)
}

func useCache(c *fiber.Ctx) bool {
	return c.QueryBool("cache", true)
}

func validateDataset(dataset string) error {
	switch dataset {
	case "", model.DatasetFlows, model.DatasetObject:
		return nil
	}
	return apperrors.NewValidationError("unknown dataset " + dataset).WithDetail("dataset", dataset)
}
