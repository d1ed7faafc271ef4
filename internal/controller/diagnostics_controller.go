package controller

import (
	"errors"
	"strconv"
	"time"

	"notecapture-be/internal/dto"
	"notecapture-be/internal/pkg/logger"
	"notecapture-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

const logTimeLayout = "2006-01-02T15:04:05.000Z0700"

type IDiagnosticsController interface {
	RegisterRoutes(r fiber.Router)
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type diagnosticsController struct {
	logger logger.ILogger
}

func NewDiagnosticsController(log logger.ILogger) IDiagnosticsController {
	return &diagnosticsController{logger: log}
}

func (c *diagnosticsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/diagnostics")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func (c *diagnosticsController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	level := ctx.Query("level", "")
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := c.logger.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return err
	}

	res := make([]dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toLogListResponse(e))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", res))
}

func (c *diagnosticsController) GetLogDetail(ctx *fiber.Ctx) error {
	entry, err := c.logger.GetLogById(ctx.Params("id"))
	if err != nil {
		if errors.Is(err, logger.ErrLogNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Log not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Log detail", dto.LogDetailResponse{
		LogListResponse: toLogListResponse(*entry),
		Details:         entry.Details,
	}))
}

func toLogListResponse(e logger.LogEntry) dto.LogListResponse {
	createdAt, _ := time.Parse(logTimeLayout, e.Timestamp)
	return dto.LogListResponse{
		Id:        e.Id,
		Level:     e.Level,
		Module:    e.Module,
		Message:   e.Message,
		CreatedAt: createdAt,
	}
}
