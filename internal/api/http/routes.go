package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rickb777/date"

	"github.com/i474232898/route-schedule-sync/internal/schedule"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *schedule.Service, defaultStart func() date.Date) {
	v1 := app.Group("/api/v1")

	// Triggers a sync run synchronously and returns its report. The default
	// window starts today; start/days narrow or move it.
	v1.Post("/sync", func(c *fiber.Ctx) error {
		req, err := parseSyncQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		start := defaultStart()
		if req.Start != "" {
			// validated above, cannot fail
			start, _ = date.ParseISO(req.Start)
		}

		report, err := service.SyncDays(c.UserContext(), start, req.Days)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		return c.JSON(fiber.Map{
			"runId":  report.RunID,
			"start":  start.String(),
			"report": report.Lines(),
		})
	})
}

// syncQuery holds query parameters for the sync trigger endpoint.
type syncQuery struct {
	Start string `validate:"omitempty,datetime=2006-01-02"`
	Days  int    `validate:"omitempty,gte=1,lte=31"`
}

func parseSyncQuery(c *fiber.Ctx) (syncQuery, error) {
	var q syncQuery

	q.Start = c.Query("start")
	if daysStr := c.Query("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return q, errors.New("days must be an integer")
		}
		q.Days = days
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}
