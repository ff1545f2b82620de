package handler

import (
	"github.com/gofiber/fiber/v2"

	"bloodlink/internal/domain"
	"bloodlink/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Donor        *DonorHandler
	Request      *RequestHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Donor:        NewDonorHandler(services.Donor),
		Request:      NewRequestHandler(services.Request, services.Matching),
		Notification: NewNotificationHandler(services.Notification),
		Dashboard:    NewDashboardHandler(services.Dashboard),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return domain.DefaultPagination()
	}
	params.Validate()
	return params
}
