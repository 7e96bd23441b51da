package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

// PickerHandler serves picker administration and pick history.
type PickerHandler struct {
	Pickers *repository.PickerRepo
	Picks   *repository.PickRecordRepo
}

// NewPickerHandler constructs a PickerHandler and panics if any dependency is nil.
func NewPickerHandler(pickers *repository.PickerRepo, picks *repository.PickRecordRepo) *PickerHandler {
	if pickers == nil || picks == nil {
		panic("nil repository passed to NewPickerHandler")
	}
	return &PickerHandler{Pickers: pickers, Picks: picks}
}

type pickerBody struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	HireDate  model.Date `json:"hireDate"`
	Version   *int       `json:"version"`
}

func (b pickerBody) apply(p *model.Picker) {
	p.FirstName = strings.TrimSpace(b.FirstName)
	p.LastName = strings.TrimSpace(b.LastName)
	p.Email = strings.TrimSpace(b.Email)
	p.Phone = strings.TrimSpace(b.Phone)
	if !b.HireDate.IsZero() {
		p.HireDate = b.HireDate
	}
}

// ListActive handles GET /api/pickers/active.
func (h *PickerHandler) ListActive(c echo.Context) error {
	items, err := h.Pickers.ListActive(c.Request().Context())
	if err != nil {
		return respondError(c, err, "picker")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(items, newPickerView)})
}

// List handles GET /api/pickers and includes deactivated pickers.
func (h *PickerHandler) List(c echo.Context) error {
	items, err := h.Pickers.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "picker")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(items, newPickerView)})
}

// Get handles GET /api/pickers/:id.
func (h *PickerHandler) Get(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	p, err := h.Pickers.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "picker")
	}
	return c.JSON(http.StatusOK, newPickerView(p))
}

// Create handles POST /api/picker/admin/create.
func (h *PickerHandler) Create(c echo.Context) error {
	var body pickerBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	p := &model.Picker{}
	body.apply(p)
	if err := p.Validate(); err != nil {
		return respondError(c, err, "picker")
	}
	p.InitNew(model.Today())
	if err := h.Pickers.Create(c.Request().Context(), p); err != nil {
		return respondError(c, err, "picker")
	}
	return c.JSON(http.StatusCreated, newPickerView(p))
}

// Update handles PUT /api/picker/admin/:id. The body must carry the
// version the caller last read.
func (h *PickerHandler) Update(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var body pickerBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	p, err := h.Pickers.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "picker")
	}
	body.apply(p)
	if err := requireVersion(p.Validate(), body.Version); err != nil {
		return respondError(c, err, "picker")
	}
	p.Version = *body.Version
	if err := h.Pickers.Update(ctx, p); err != nil {
		return respondError(c, err, "picker")
	}
	return c.JSON(http.StatusOK, newPickerView(p))
}

// SetStatus handles PUT /api/picker/admin/:id/status. Deactivated pickers
// drop out of the active list; their pick records are untouched.
func (h *PickerHandler) SetStatus(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var body statusBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := body.validate(); err != nil {
		return respondError(c, err, "picker")
	}
	ctx := c.Request().Context()
	if err := h.Pickers.SetActive(ctx, id, *body.IsActive, body.Version); err != nil {
		return respondError(c, err, "picker")
	}
	p, err := h.Pickers.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "picker")
	}
	return c.JSON(http.StatusOK, newPickerView(p))
}

// PickHistory handles GET /api/pickers/:id/picks, the pick history of one picker
// whether or not they are still active.
func (h *PickerHandler) PickHistory(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.Pickers.GetByID(ctx, id); err != nil {
		return respondError(c, err, "picker")
	}
	items, err := h.Picks.List(ctx, repository.PickFilter{PickerID: &id})
	if err != nil {
		return respondError(c, err, "pick record")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(items, newPickView)})
}
