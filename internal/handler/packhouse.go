package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

// PackhouseHandler serves packhouse administration.
type PackhouseHandler struct {
	Packhouses *repository.PackhouseRepo
}

// NewPackhouseHandler constructs a PackhouseHandler and panics if the repository is nil.
func NewPackhouseHandler(packhouses *repository.PackhouseRepo) *PackhouseHandler {
	if packhouses == nil {
		panic("nil repository passed to NewPackhouseHandler")
	}
	return &PackhouseHandler{Packhouses: packhouses}
}

type packhouseBody struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Version       *int   `json:"version"`
}

func (b packhouseBody) apply(p *model.Packhouse) {
	p.Name = strings.TrimSpace(b.Name)
	p.Location = strings.TrimSpace(b.Location)
	p.ContactPerson = strings.TrimSpace(b.ContactPerson)
	p.Phone = strings.TrimSpace(b.Phone)
}

// ListActive handles GET /api/packhouses/active.
func (h *PackhouseHandler) ListActive(c echo.Context) error {
	items, err := h.Packhouses.ListActive(c.Request().Context())
	if err != nil {
		return respondError(c, err, "packhouse")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(items, newPackhouseView)})
}

// Get handles GET /api/packhouses/:id.
func (h *PackhouseHandler) Get(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	p, err := h.Packhouses.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "packhouse")
	}
	return c.JSON(http.StatusOK, newPackhouseView(p))
}

// Create handles POST /api/packhouse/admin/create.
func (h *PackhouseHandler) Create(c echo.Context) error {
	var body packhouseBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	p := &model.Packhouse{}
	body.apply(p)
	if err := p.Validate(); err != nil {
		return respondError(c, err, "packhouse")
	}
	p.InitNew()
	if err := h.Packhouses.Create(c.Request().Context(), p); err != nil {
		return respondError(c, err, "packhouse")
	}
	return c.JSON(http.StatusCreated, newPackhouseView(p))
}

// Update handles PUT /api/packhouse/admin/:id.
func (h *PackhouseHandler) Update(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var body packhouseBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	p, err := h.Packhouses.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "packhouse")
	}
	body.apply(p)
	if err := requireVersion(p.Validate(), body.Version); err != nil {
		return respondError(c, err, "packhouse")
	}
	p.Version = *body.Version
	if err := h.Packhouses.Update(ctx, p); err != nil {
		return respondError(c, err, "packhouse")
	}
	return c.JSON(http.StatusOK, newPackhouseView(p))
}

// SetStatus handles PUT /api/packhouse/admin/:id/status.
func (h *PackhouseHandler) SetStatus(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var body statusBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := body.validate(); err != nil {
		return respondError(c, err, "packhouse")
	}
	ctx := c.Request().Context()
	if err := h.Packhouses.SetActive(ctx, id, *body.IsActive, body.Version); err != nil {
		return respondError(c, err, "packhouse")
	}
	p, err := h.Packhouses.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "packhouse")
	}
	return c.JSON(http.StatusOK, newPackhouseView(p))
}
