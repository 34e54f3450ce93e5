package controller

import (
	"audit-copilot-be/internal/dto"
	"audit-copilot-be/internal/pkg/serverutils"
	"audit-copilot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWorkflowController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	CacheStats(ctx *fiber.Ctx) error
	InvalidateCache(ctx *fiber.Ctx) error
}

type workflowController struct {
	workflowService service.IWorkflowService
}

func NewWorkflowController(workflowService service.IWorkflowService) IWorkflowController {
	return &workflowController{
		workflowService: workflowService,
	}
}

func (c *workflowController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workflow/v1")
	h.Post("ask", c.Ask)
	h.Get("cache/stats", c.CacheStats)
	h.Delete("cache", c.InvalidateCache)
}

func (c *workflowController) Ask(ctx *fiber.Ctx) error {
	var req dto.RunWorkflowRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.workflowService.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run workflow", res))
}

func (c *workflowController) CacheStats(ctx *fiber.Ctx) error {
	res := c.workflowService.CacheStats()
	return ctx.JSON(serverutils.SuccessResponse("Success get cache stats", res))
}

func (c *workflowController) InvalidateCache(ctx *fiber.Ctx) error {
	pattern := ctx.Query("pattern", "")
	removed := c.workflowService.InvalidateCache(pattern)
	return ctx.JSON(serverutils.SuccessResponse("Success invalidate cache", fiber.Map{
		"removed": removed,
	}))
}
