package booking

import (
	"errors"

	"backend-gymflow/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	staffOnly := auth.RequireRole(auth.RoleTrainer, auth.RoleAdmin)

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			SessionID string `json:"session_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.SessionID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "session_id required")
		}
		memberID, _ := c.Locals("member_id").(string)
		if memberID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "member identity missing")
		}

		b, err := svc.BookClass(c.Context(), memberID, body.SessionID)
		if err != nil {
			return bookingError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(b)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		memberID, _ := c.Locals("member_id").(string)
		if err := svc.CancelBooking(c.Context(), c.Params("id"), memberID); err != nil {
			return bookingError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/attended", authMiddleware, staffOnly, func(c *fiber.Ctx) error {
		attended, err := svc.MarkAttended(c.Context(), c.Params("id"))
		if err != nil {
			return bookingError(err)
		}
		return c.JSON(fiber.Map{"attended": attended})
	})

	r.Get("/member/:memberID", authMiddleware, func(c *fiber.Ctx) error {
		bookings, err := svc.BookingsByMember(c.Context(), c.Params("memberID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(bookings)
	})

	r.Get("/session/:sessionID", authMiddleware, staffOnly, func(c *fiber.Ctx) error {
		bookings, err := svc.BookingsBySession(c.Context(), c.Params("sessionID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(bookings)
	})

	r.Get("/availability/:sessionID", func(c *fiber.Ctx) error {
		available, err := svc.IsSessionAvailable(c.Context(), c.Params("sessionID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"available": available})
	})

	r.Get("/check/:sessionID", authMiddleware, func(c *fiber.Ctx) error {
		memberID, _ := c.Locals("member_id").(string)
		booked, err := svc.HasConfirmedBooking(c.Context(), memberID, c.Params("sessionID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"booked": booked})
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		b, err := svc.GetBooking(c.Context(), c.Params("id"))
		if err != nil {
			return bookingError(err)
		}
		return c.JSON(b)
	})
}

// bookingError maps engine outcomes onto HTTP statuses. Business rejections
// are ordinary responses, not server faults.
func bookingError(err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrBookingNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrSessionFull), errors.Is(err, ErrAlreadyBooked),
		errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrAlreadyAttended):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
