package progress

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/:memberID", authMiddleware, func(c *fiber.Ctx) error {
		records, err := svc.AllProgress(c.Context(), c.Params("memberID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		views := make([]ProgressView, 0, len(records))
		for _, rec := range records {
			views = append(views, NewProgressView(rec))
		}
		return c.JSON(views)
	})

	r.Get("/:memberID/:category", authMiddleware, func(c *fiber.Ctx) error {
		category := strings.ToUpper(c.Params("category"))
		if !validCategory(category) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "unknown skill category")
		}
		rec, err := svc.ProgressByCategory(c.Context(), c.Params("memberID"), category)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "progress record not found")
		}
		return c.JSON(NewProgressView(rec))
	})

	r.Post("/:memberID/init", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.InitializeProgress(c.Context(), c.Params("memberID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func validCategory(category string) bool {
	for _, known := range SkillCategories {
		if category == known {
			return true
		}
	}
	return false
}
