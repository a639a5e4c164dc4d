package booking

import (
	"errors"

	"backend-getyourextreme/internal/event"
	"backend-getyourextreme/internal/experience"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the public calendar and booking endpoints.
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/calendar", func(c *fiber.Ctx) error {
		q := CalendarQuery{
			Month:   c.Query("month"),
			Date:    c.Query("date"),
			EventID: c.Query("eventId"),
			Pickup:  c.Query("pickup"),
		}
		if raw := c.Query("category"); raw != "" {
			category, err := experience.ParseCategory(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			q.Category = category
		}
		view, err := svc.Calendar(c.Context(), q)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(view)
	})

	r.Post("/bookings", func(c *fiber.Ctx) error {
		var form Form
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		out, err := svc.Book(c.Context(), form)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	})

	r.Post("/bookings/special", func(c *fiber.Ctx) error {
		var req SpecialRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		out, err := svc.SpecialRequest(c.Context(), req)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	})
}

func mapError(err error) error {
	var (
		invalid *ValidationError
		seats   *SeatsError
	)
	switch {
	case errors.As(err, &invalid):
		return fiber.NewError(fiber.StatusBadRequest, invalid.Message)
	case errors.As(err, &seats):
		return fiber.NewError(fiber.StatusConflict, seats.Error())
	case errors.Is(err, ErrNoEventSelected):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, event.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrEventsUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ErrBookingFailed), errors.Is(err, ErrSpecialFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return err
	}
}
