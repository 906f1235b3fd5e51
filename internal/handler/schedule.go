package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dance-studio-admin/internal/logger"
	"github.com/iliyamo/dance-studio-admin/internal/schedule"
)

const maxUpcomingDays = 31

// Board returns the weekly schedule board: window, day columns, hourly
// gutter and decorated class blocks.
func (h *StudioHandler) Board(c echo.Context) error {
	s := h.Store.Snapshot()
	return c.JSON(http.StatusOK, schedule.BuildBoard(s.Classes, s.Instructors, s.Students, h.Window))
}

// Layout returns the bare positioned blocks.
func (h *StudioHandler) Layout(c echo.Context) error {
	return c.JSON(http.StatusOK, schedule.Layout(h.Store.Snapshot().Classes, h.Window))
}

// Upcoming lists concrete sessions from now over the next ?days=N days
// (default 7, at most 31).
func (h *StudioHandler) Upcoming(c echo.Context) error {
	days := 7
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxUpcomingDays {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be between 1 and 31"})
		}
		days = n
	}
	from := h.Store.Now()
	occ, err := schedule.Upcoming(h.Store.Snapshot().Classes, from, from.AddDate(0, 0, days), h.Store.Location())
	if err != nil {
		logger.LogError("expand upcoming sessions failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "schedule expansion failed"})
	}
	return c.JSON(http.StatusOK, occ)
}

// Calendar exports the weekly schedule as an iCalendar feed.
func (h *StudioHandler) Calendar(c echo.Context) error {
	s := h.Store.Snapshot()
	loc := h.Store.Location()
	body, err := schedule.ExportICS(s.Classes, s.Instructors, h.Store.Now(), loc)
	if err != nil {
		logger.LogError("export calendar failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "calendar export failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="schedule.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
