package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/pickrecord"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

// PickPublisher announces stored pick records.
type PickPublisher interface {
	PublishPickRecorded(ctx context.Context, rec *model.PickRecord) error
}

// PickHandler records and lists pick submissions.
type PickHandler struct {
	Picks    *repository.PickRecordRepo
	Preparer *pickrecord.Preparer
	Events   PickPublisher // optional
}

// NewPickHandler constructs a PickHandler and panics if a required
// dependency is nil. events may be nil when publishing is disabled.
func NewPickHandler(picks *repository.PickRecordRepo, preparer *pickrecord.Preparer, events PickPublisher) *PickHandler {
	if picks == nil || preparer == nil {
		panic("nil dependency passed to NewPickHandler")
	}
	return &PickHandler{Picks: picks, Preparer: preparer, Events: events}
}

// Create handles POST /api/picks. The record is validated, its rate frozen
// and then stored; publishing the event afterwards is best effort.
func (h *PickHandler) Create(c echo.Context) error {
	var in pickrecord.Input
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	rec, err := h.Preparer.Prepare(ctx, in)
	if err != nil {
		return respondError(c, err, "pick record")
	}
	if err := h.Picks.Create(ctx, rec); err != nil {
		return respondError(c, err, "pick record")
	}
	if h.Events != nil {
		if err := h.Events.PublishPickRecorded(ctx, rec); err != nil {
			c.Logger().Warnf("pick %s stored but event not published: %v", rec.ID, err)
		}
	}
	return c.JSON(http.StatusCreated, newPickView(rec))
}

// Get handles GET /api/picks/:id.
func (h *PickHandler) Get(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	rec, err := h.Picks.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "pick record")
	}
	return c.JSON(http.StatusOK, newPickView(rec))
}

// ListAll handles GET /api/admin/pick-records, newest first. Optional
// from/to (YYYY-MM-DD) bound the pick date.
func (h *PickHandler) ListAll(c echo.Context) error {
	filter, err := dateRange(c)
	if err != nil {
		return respondError(c, err, "pick record")
	}
	items, err := h.Picks.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "pick record")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(items, newPickView)})
}

// dateRange reads the optional from/to query parameters.
func dateRange(c echo.Context) (repository.PickFilter, error) {
	var f repository.PickFilter
	errs := &model.ValidationError{}
	for _, q := range []struct {
		name string
		dst  **model.Date
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := c.QueryParam(q.name)
		if raw == "" {
			continue
		}
		d, err := model.ParseDate(raw)
		if err != nil {
			errs.Add(q.name, "must be YYYY-MM-DD or an RFC 3339 timestamp")
			continue
		}
		*q.dst = &d
	}
	if f.From != nil && f.To != nil && f.To.Before(f.From.Time) {
		errs.Add("to", "must not be before from")
	}
	return f, errs.Err()
}
