package server

import (
	"pulse/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:id/like. The endpoint toggles: liking a
// post you already like removes the like.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleLike(c.Context(), middleware.IdentityFrom(c), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// SavePost handles POST /api/posts/:id/save. Toggles like LikePost.
func (s *Server) SavePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleSave(c.Context(), middleware.IdentityFrom(c), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// SharePost handles POST /api/posts/:id/share. Recording a share is
// idempotent; repeats return the current count unchanged.
func (s *Server) SharePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.RecordShare(c.Context(), middleware.IdentityFrom(c), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}
