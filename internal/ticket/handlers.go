package ticket

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, store *Store) {
	r.Get("/:id", func(c *fiber.Ctx) error {
		t, err := lookup(c, store)
		if err != nil {
			return err
		}
		return c.JSON(t)
	})

	r.Get("/:id/qr.png", func(c *fiber.Ctx) error {
		t, err := lookup(c, store)
		if err != nil {
			return err
		}
		png, err := RenderQRBytes(t)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ticket image could not be generated")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, t.FileName()))
		return c.Send(png)
	})
}

func lookup(c *fiber.Ctx, store *Store) (Ticket, error) {
	t, err := store.Get(c.Context(), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return Ticket{}, fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return t, err
}
