package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dance-studio-admin/internal/billing"
	"github.com/iliyamo/dance-studio-admin/internal/logger"
	"github.com/iliyamo/dance-studio-admin/internal/model"
	"github.com/iliyamo/dance-studio-admin/internal/queue"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Ledger returns the payment ledger, newest first, optionally restricted to
// one ?student_id=.
func (h *StudioHandler) Ledger(c echo.Context) error {
	s := h.Store.Snapshot()
	entries := billing.Ledger(s.Payments, s.Students)
	if id := c.QueryParam("student_id"); id != "" {
		kept := entries[:0]
		for _, e := range entries {
			if e.StudentID == id {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	return c.JSON(http.StatusOK, entries)
}

// RecordPayment appends a payment.  Date defaults to today and type to a
// monthly membership.  The student must exist.
func (h *StudioHandler) RecordPayment(c echo.Context) error {
	var d model.PaymentDraft
	if ok, err := bindValid(c, &d); !ok {
		return err
	}
	st, ok := h.Store.Snapshot().StudentByID(d.StudentID)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"fields": FieldErrors{"student_id": "student_id must reference an existing student"},
		})
	}
	p := h.Store.RecordPayment(d)
	ev := queue.NewEvent(queue.PaymentRecorded, p.ID, st.Name)
	ev.Details = map[string]any{"student_id": st.ID, "amount": billing.FormatAmount(p.Amount), "date": p.Date}
	h.emit(c, ev)
	return c.JSON(http.StatusCreated, p)
}

// ExportLedger downloads the ledger as an Excel workbook.
func (h *StudioHandler) ExportLedger(c echo.Context) error {
	s := h.Store.Snapshot()
	data, err := billing.ExportXLSX(billing.Ledger(s.Payments, s.Students))
	if err != nil {
		logger.LogError("export ledger failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ledger export failed"})
	}
	name := fmt.Sprintf("ledger-%s.xlsx", h.Store.Today())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
