package controller

import (
	"audit-copilot-be/internal/dto"
	"audit-copilot-be/internal/pkg/serverutils"
	"audit-copilot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
}

func NewConversationController(conversationService service.IConversationService) IConversationController {
	return &conversationController{
		conversationService: conversationService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversation/v1")
	h.Get("", c.List)
	// Registered before :id so the path segment is not captured as an id.
	h.Get("suggestions", c.Suggestions)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *conversationController) Suggestions(ctx *fiber.Ctx) error {
	var req dto.SuggestionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.Suggest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get question suggestions", res))
}

func (c *conversationController) Show(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	res, err := c.conversationService.Show(id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show conversation", res))
}

func (c *conversationController) List(ctx *fiber.Ctx) error {
	res, err := c.conversationService.List()
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list conversations", res))
}

func (c *conversationController) Delete(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	if err := c.conversationService.Delete(id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete conversation", nil))
}
