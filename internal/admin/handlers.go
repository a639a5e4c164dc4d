package admin

import (
	"context"

	"backend-getyourextreme/internal/event"
	"backend-getyourextreme/internal/profile"
	"backend-getyourextreme/internal/reservation"

	"github.com/gofiber/fiber/v2"
)

type UserLister interface {
	ListRegistered(ctx context.Context) ([]profile.RegisteredUser, error)
}

// RegisterRoutes mounts the dashboard endpoints behind guards.
func RegisterRoutes(r fiber.Router, reservations reservation.Store, events event.Store, users UserLister, guards ...fiber.Handler) {
	r.Get("/reservations", append(guards, func(c *fiber.Ctx) error {
		items, err := reservations.List(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(Search(items, c.Query("q")))
	})...)

	r.Get("/stats", append(guards, func(c *fiber.Ctx) error {
		items, err := reservations.List(c.Context())
		if err != nil {
			return err
		}
		schedule, err := events.List(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(Summarize(items, schedule))
	})...)

	r.Get("/users", append(guards, func(c *fiber.Ctx) error {
		list, err := users.ListRegistered(c.Context())
		if err != nil {
			return err
		}
		if list == nil {
			list = []profile.RegisteredUser{}
		}
		return c.JSON(list)
	})...)
}
