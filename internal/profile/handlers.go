package profile

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// RegisterRoutes mounts /me for the authenticated user. authMiddleware must
// set the user_id local.
func RegisterRoutes(r fiber.Router, svc *Service, cache *Cache, authMiddleware fiber.Handler) {
	r.Get("/me", authMiddleware, func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(string)
		if !ok || userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user")
		}
		p, err := svc.Load(c.Context(), userID)
		if err != nil {
			return err
		}
		if cache != nil {
			cached, err := cache.Read(c.Context(), userID)
			if err != nil {
				svc.log.Warn("profile cache read failed", zap.String("user_id", userID), zap.Error(err))
			}
			p = Merge(cached, p)
			svc.writeCache(c, cache, userID, p)
		}
		return c.JSON(p)
	})

	r.Put("/me", authMiddleware, func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(string)
		if !ok || userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user")
		}
		var req UpdateInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := svc.Ensure(c.Context(), userID, req.FullName, req.Phone); err != nil {
			return err
		}
		p, err := svc.Read(c.Context(), userID)
		if err != nil {
			return err
		}
		if cache != nil {
			svc.writeCache(c, cache, userID, p)
		}
		return c.JSON(p)
	})
}

// writeCache stores p for the next read. A failing cache never fails the request.
func (s *Service) writeCache(c *fiber.Ctx, cache *Cache, userID string, p UserProfile) {
	if err := cache.Write(c.Context(), userID, p); err != nil {
		s.log.Warn("profile cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}
