package event

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegisterRoutes mounts the events API. Listing is public, writes go
// through guards.
func RegisterRoutes(r fiber.Router, store Store, guards ...fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		items, err := store.List(c.Context())
		if err != nil {
			return err
		}
		if items == nil {
			items = []EventScheduleItem{}
		}
		if category := c.Query("category"); category != "" {
			filtered := make([]EventScheduleItem, 0, len(items))
			for _, item := range items {
				if string(item.Category) == category {
					filtered = append(filtered, item)
				}
			}
			items = filtered
		}
		return c.JSON(items)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		item, err := store.Get(c.Context(), c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(item)
	})

	r.Post("/", append(guards, func(c *fiber.Ctx) error {
		input, err := parseInput(c)
		if err != nil {
			return err
		}
		created, err := store.Create(c.Context(), input)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})...)

	r.Put("/:id", append(guards, func(c *fiber.Ctx) error {
		input, err := parseInput(c)
		if err != nil {
			return err
		}
		updated, err := store.Update(c.Context(), c.Params("id"), input)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(updated)
	})...)

	r.Delete("/:id", append(guards, func(c *fiber.Ctx) error {
		if err := store.Delete(c.Context(), c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})...)

	r.Post("/:id/reserve", append(guards, func(c *fiber.Ctx) error {
		seats, err := parseSeats(c)
		if err != nil {
			return err
		}
		item, err := store.Reserve(c.Context(), c.Params("id"), seats)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(item)
	})...)

	r.Post("/:id/release", append(guards, func(c *fiber.Ctx) error {
		seats, err := parseSeats(c)
		if err != nil {
			return err
		}
		if err := store.Release(c.Context(), c.Params("id"), seats); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})...)
}

func parseSeats(c *fiber.Ctx) (int, error) {
	var body struct {
		Seats int `json:"seats"`
	}
	if err := c.BodyParser(&body); err != nil || body.Seats < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, ErrInvalidSeats.Error())
	}
	return body.Seats, nil
}

func parseInput(c *fiber.Ctx) (CreateInput, error) {
	var input CreateInput
	if err := c.BodyParser(&input); err != nil {
		return CreateInput{}, fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	input.ServiceStops = cleanStops(input.ServiceStops)
	if err := validate.Struct(input); err != nil {
		return CreateInput{}, fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}
	return input, nil
}

// validationMessage turns the first validator failure into a sentence an
// admin can act on.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "invalid payload"
	}
	fe := errs[0]
	field := fe.Field()
	switch {
	case field == "serviceStops":
		return "at least one service stop is required"
	case fe.Tag() == "required":
		return field + " is required"
	case fe.Tag() == "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case fe.Tag() == "datetime":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case fe.Tag() == "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case fe.Tag() == "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInsufficientSeats):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
