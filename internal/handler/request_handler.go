package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bloodlink/internal/domain"
	"bloodlink/internal/middleware"
	"bloodlink/internal/service/matching"
	"bloodlink/internal/service/request"
)

type RequestHandler struct {
	requestService  request.Service
	matchingService matching.Service
}

func NewRequestHandler(requestService request.Service, matchingService matching.Service) *RequestHandler {
	return &RequestHandler{requestService: requestService, matchingService: matchingService}
}

func (h *RequestHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.CreateBloodRequestInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	req, err := h.requestService.Create(c.Context(), userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBloodType) || errors.Is(err, domain.ErrInvalidUrgency) {
			return middleware.BadRequest(err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(req)
}

func (h *RequestHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	req, err := h.requestService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, request.ErrRequestNotFound) {
			return middleware.NotFound("Blood request not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(req)
}

func (h *RequestHandler) ListMine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	requests, err := h.requestService.ListByRequester(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": requests})
}

func (h *RequestHandler) List(c *fiber.Ctx) error {
	result, err := h.requestService.List(c.Context(), getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.requestService.Cancel)
}

func (h *RequestHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, h.requestService.Complete)
}

func (h *RequestHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, requesterID, id uuid.UUID) error) error {
	userID := middleware.GetCurrentUserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	if err := fn(c.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, request.ErrRequestNotFound):
			return middleware.NotFound("Blood request not found")
		case errors.Is(err, request.ErrNotRequester):
			return middleware.Forbidden("Only the requester can change this request")
		case errors.Is(err, request.ErrRequestClosed):
			return middleware.Conflict("Request is already completed or cancelled")
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// NotifyDonors re-runs resolve+dispatch for one request. Idempotent, so an
// admin can trigger it repeatedly without duplicating notifications.
func (h *RequestHandler) NotifyDonors(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid request ID")
	}

	notified, err := h.matchingService.NotifyEligibleDonors(c.Context(), id)
	if err != nil {
		if errors.Is(err, matching.ErrRequestNotFound) {
			return middleware.NotFound("Blood request not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"notified": notified})
}
