package schedule

import (
	"time"

	"backend-gymflow/internal/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type createClassRequest struct {
	Name            string `json:"name" validate:"required,min=2"`
	ClassType       string `json:"class_type" validate:"required"`
	InstructorName  string `json:"instructor_name" validate:"required,min=2"`
	Capacity        int    `json:"capacity" validate:"required,gt=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
}

type createSessionRequest struct {
	SessionDate    string `json:"session_date" validate:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time" validate:"required"`
	EndTime        string `json:"end_time" validate:"required"`
	RemainingSeats int    `json:"remaining_seats" validate:"required,gt=0"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	validate := validator.New()
	adminOnly := auth.RequireRole(auth.RoleAdmin)

	r.Post("/", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		var req createClassRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		gc, err := svc.CreateClass(c.Context(), GymClass{
			Name:            req.Name,
			ClassType:       req.ClassType,
			InstructorName:  req.InstructorName,
			Capacity:        req.Capacity,
			DurationMinutes: req.DurationMinutes,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(gc)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		classes, err := svc.ListClasses(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(classes)
	})

	r.Get("/search", func(c *fiber.Ctx) error {
		classes, err := svc.SearchClasses(c.Context(), c.Query("q"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(classes)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		gc, err := svc.GetClass(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "class not found")
		}
		return c.JSON(gc)
	})

	r.Put("/:id", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		var req GymClass
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		gc, err := svc.UpdateClass(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(gc)
	})

	r.Delete("/:id", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		if err := svc.DeleteClass(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/sessions", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		var req createSessionRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		sessionDate, _ := time.Parse("2006-01-02", req.SessionDate)
		startTime, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "start_time must be RFC3339")
		}
		endTime, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "end_time must be RFC3339")
		}

		sess, err := svc.CreateSession(c.Context(), Session{
			ClassID:        c.Params("id"),
			SessionDate:    sessionDate,
			StartTime:      startTime,
			EndTime:        endTime,
			RemainingSeats: req.RemainingSeats,
		})
		if err != nil {
			if err == ErrClassNotFound {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(sess)
	})

	r.Get("/:id/sessions", func(c *fiber.Ctx) error {
		sessions, err := svc.SessionsByClass(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(sessions)
	})
}

// RegisterSessionRoutes exposes session-centric queries outside the class group.
func RegisterSessionRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/available", func(c *fiber.Ctx) error {
		sessions, err := svc.AvailableSessions(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(sessions)
	})

	r.Get("/by-date", func(c *fiber.Ctx) error {
		date, err := time.Parse("2006-01-02", c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		sessions, err := svc.SessionsByDate(c.Context(), date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(sessions)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		sess, err := svc.GetSession(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return c.JSON(sess)
	})

	r.Delete("/:id", authMiddleware, auth.RequireRole(auth.RoleAdmin), func(c *fiber.Ctx) error {
		if err := svc.DeleteSession(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
