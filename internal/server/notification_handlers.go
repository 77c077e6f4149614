package server

import (
	"pulse/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	identity := middleware.IdentityFrom(c)

	notifications, err := s.notificationService.ListNotifications(c.Context(),
		identity.UserID(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(notifications)
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	identity := middleware.IdentityFrom(c)

	notification, err := s.notificationService.MarkRead(c.Context(), identity.UserID(), notificationID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(notification)
}

// ClearNotifications handles DELETE /api/notifications
func (s *Server) ClearNotifications(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)

	if err := s.notificationService.ClearAll(c.Context(), identity.UserID()); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Notifications cleared",
	})
}
