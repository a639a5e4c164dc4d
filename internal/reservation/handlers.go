package reservation

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// RegisterRoutes mounts the reservations JSON API. Creation is public; the
// rest is guarded by the supplied middlewares.
func RegisterRoutes(r fiber.Router, store Store, guards ...fiber.Handler) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req CreateInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		created, err := store.Create(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/", append(guards, func(c *fiber.Ctx) error {
		items, err := store.List(c.Context())
		if err != nil {
			return err
		}
		if items == nil {
			items = []Reservation{}
		}
		return c.JSON(items)
	})...)

	r.Delete("/:id", append(guards, func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid reservation id")
		}
		if err := store.Delete(c.Context(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})...)

	r.Patch("/:id/status", append(guards, func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid reservation id")
		}
		var body struct {
			Status Status `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil || !body.Status.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, ErrInvalidStatus.Error())
		}
		updated, err := store.UpdateStatus(c.Context(), id, body.Status)
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return err
		}
		return c.JSON(updated)
	})...)
}
