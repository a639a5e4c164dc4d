package experience

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(Themes())
	})

	r.Get("/:category", func(c *fiber.Ctx) error {
		category, err := ParseCategory(c.Params("category"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(ThemeFor(category))
	})
}
