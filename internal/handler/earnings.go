package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/picker-payroll/internal/earnings"
	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EarningsHandler serves payroll summaries.
type EarningsHandler struct {
	Picks   *repository.PickRecordRepo
	Pickers *repository.PickerRepo
}

// NewEarningsHandler constructs an EarningsHandler and panics if any dependency is nil.
func NewEarningsHandler(picks *repository.PickRecordRepo, pickers *repository.PickerRepo) *EarningsHandler {
	if picks == nil || pickers == nil {
		panic("nil repository passed to NewEarningsHandler")
	}
	return &EarningsHandler{Picks: picks, Pickers: pickers}
}

// Summary handles GET /api/admin/picker-earnings with optional from, to and
// sort (earnings, bins or picker) query parameters.
func (h *EarningsHandler) Summary(c echo.Context) error {
	rows, err := h.rows(c)
	if err != nil {
		return respondError(c, err, "picker earnings")
	}
	out := make([]earningsView, 0, len(rows))
	for _, r := range rows {
		out = append(out, newEarningsView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Export handles GET /api/admin/picker-earnings/export and returns the same
// rows as an xlsx workbook.
func (h *EarningsHandler) Export(c echo.Context) error {
	rows, err := h.rows(c)
	if err != nil {
		return respondError(c, err, "picker earnings")
	}
	var buf bytes.Buffer
	if err := earnings.Export(&buf, rows); err != nil {
		return respondError(c, err, "picker earnings")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="picker-earnings.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *EarningsHandler) rows(c echo.Context) ([]earnings.Row, error) {
	filter, err := dateRange(c)
	verr := &model.ValidationError{}
	errors.As(err, &verr)
	key, kerr := earnings.ParseSortKey(c.QueryParam("sort"))
	if kerr != nil {
		verr.Add("sort", "must be earnings, bins or picker")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return earnings.Load(c.Request().Context(), h.Picks, h.Pickers, filter, key)
}
