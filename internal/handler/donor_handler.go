package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bloodlink/internal/domain"
	"bloodlink/internal/middleware"
	"bloodlink/internal/service/donor"
)

type DonorHandler struct {
	donorService donor.Service
}

func NewDonorHandler(donorService donor.Service) *DonorHandler {
	return &DonorHandler{donorService: donorService}
}

func (h *DonorHandler) Register(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.RegisterDonorInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	d, err := h.donorService.Register(c.Context(), userID, input)
	if err != nil {
		if errors.Is(err, donor.ErrAlreadyRegistered) {
			return middleware.Conflict("Donor profile already exists")
		}
		if errors.Is(err, domain.ErrInvalidBloodType) {
			return middleware.BadRequest("Unknown blood type")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *DonorHandler) GetProfile(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	d, err := h.donorService.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, donor.ErrDonorNotFound) {
			return middleware.NotFound("No donor profile for this user")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(d)
}

func (h *DonorHandler) Update(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.UpdateDonorInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	d, err := h.donorService.Update(c.Context(), userID, input)
	if err != nil {
		if errors.Is(err, donor.ErrDonorNotFound) {
			return middleware.NotFound("No donor profile for this user")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(d)
}

func (h *DonorHandler) RecordDonation(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	d, err := h.donorService.RecordDonation(c.Context(), userID)
	if err != nil {
		if errors.Is(err, donor.ErrDonorNotFound) {
			return middleware.NotFound("No donor profile for this user")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(d)
}

func (h *DonorHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	if bt := c.Query("blood_type"); bt != "" {
		bloodType, ok := domain.ParseBloodType(bt)
		if !ok {
			return middleware.BadRequest("Unknown blood type")
		}
		donors, err := h.donorService.ListByBloodType(c.Context(), bloodType)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": donors})
	}

	result, err := h.donorService.List(c.Context(), params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
