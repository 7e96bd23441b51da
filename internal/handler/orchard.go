package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

// DefaultRater supplies the global fallback bin rate for blocks and prices
// created without one.
type DefaultRater interface {
	DefaultRate() decimal.Decimal
}

// OrchardHandler serves orchards and their blocks.
type OrchardHandler struct {
	Orchards *repository.OrchardRepo
	Blocks   *repository.OrchardBlockRepo
	Rates    DefaultRater
}

// NewOrchardHandler constructs an OrchardHandler and panics if any dependency is nil.
func NewOrchardHandler(orchards *repository.OrchardRepo, blocks *repository.OrchardBlockRepo, rates DefaultRater) *OrchardHandler {
	if orchards == nil || blocks == nil || rates == nil {
		panic("nil dependency passed to NewOrchardHandler")
	}
	return &OrchardHandler{Orchards: orchards, Blocks: blocks, Rates: rates}
}

type orchardBody struct {
	Name      string           `json:"name"`
	Location  string           `json:"location"`
	TotalArea *decimal.Decimal `json:"totalArea"`
	Version   *int             `json:"version"`
}

func (b orchardBody) apply(o *model.Orchard) {
	o.Name = strings.TrimSpace(b.Name)
	o.Location = strings.TrimSpace(b.Location)
	if b.TotalArea != nil {
		o.TotalArea = *b.TotalArea
	}
}

// ListActive handles GET /api/orchards/active.
func (h *OrchardHandler) ListActive(c echo.Context) error {
	items, err := h.Orchards.ListActive(c.Request().Context())
	if err != nil {
		return respondError(c, err, "orchard")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(items, newOrchardView)})
}

// Get handles GET /api/orchards/:id.
func (h *OrchardHandler) Get(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	o, err := h.Orchards.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "orchard")
	}
	return c.JSON(http.StatusOK, newOrchardView(o))
}

// Create handles POST /api/orchard/admin/create.
func (h *OrchardHandler) Create(c echo.Context) error {
	var body orchardBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	o := &model.Orchard{TotalArea: decimal.Zero}
	body.apply(o)
	if err := o.Validate(); err != nil {
		return respondError(c, err, "orchard")
	}
	o.InitNew()
	if err := h.Orchards.Create(c.Request().Context(), o); err != nil {
		return respondError(c, err, "orchard")
	}
	return c.JSON(http.StatusCreated, newOrchardView(o))
}

// Update handles PUT /api/orchard/admin/:id.
func (h *OrchardHandler) Update(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var body orchardBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	o, err := h.Orchards.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "orchard")
	}
	body.apply(o)
	if err := requireVersion(o.Validate(), body.Version); err != nil {
		return respondError(c, err, "orchard")
	}
	o.Version = *body.Version
	if err := h.Orchards.Update(ctx, o); err != nil {
		return respondError(c, err, "orchard")
	}
	return c.JSON(http.StatusOK, newOrchardView(o))
}

// SetStatus handles PUT /api/orchard/admin/:id/status.
func (h *OrchardHandler) SetStatus(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var body statusBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := body.validate(); err != nil {
		return respondError(c, err, "orchard")
	}
	ctx := c.Request().Context()
	if err := h.Orchards.SetActive(ctx, id, *body.IsActive, body.Version); err != nil {
		return respondError(c, err, "orchard")
	}
	o, err := h.Orchards.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "orchard")
	}
	return c.JSON(http.StatusOK, newOrchardView(o))
}

// ListBlocks handles GET /api/orchards/:id/blocks. ?all=true includes
// deactivated blocks.
func (h *OrchardHandler) ListBlocks(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.Orchards.GetByID(ctx, id); err != nil {
		return respondError(c, err, "orchard")
	}
	items, err := h.Blocks.ListByOrchard(ctx, id, c.QueryParam("all") == "true")
	if err != nil {
		return respondError(c, err, "orchard block")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(items, newBlockView)})
}

type blockBody struct {
	OrchardID      string           `json:"orchardId"`
	BlockName      string           `json:"blockName"`
	BlockNumber    string           `json:"blockNumber"`
	Area           *decimal.Decimal `json:"area"`
	AppleVariety   string           `json:"appleVariety"`
	RoadNumber     string           `json:"roadNumber"`
	DefaultBinRate *decimal.Decimal `json:"defaultBinRate"`
	Version        *int             `json:"version"`
}

func (b blockBody) apply(blk *model.OrchardBlock) {
	blk.BlockName = strings.TrimSpace(b.BlockName)
	blk.BlockNumber = strings.TrimSpace(b.BlockNumber)
	blk.AppleVariety = model.NormalizeVariety(b.AppleVariety)
	blk.RoadNumber = strings.TrimSpace(b.RoadNumber)
	if b.Area != nil {
		blk.Area = *b.Area
	}
	if b.DefaultBinRate != nil {
		blk.DefaultBinRate = *b.DefaultBinRate
	}
}

// ListActiveBlocks handles GET /api/orchard-blocks/active.
func (h *OrchardHandler) ListActiveBlocks(c echo.Context) error {
	items, err := h.Blocks.ListActive(c.Request().Context())
	if err != nil {
		return respondError(c, err, "orchard block")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(items, newBlockView)})
}

// GetBlock handles GET /api/orchard-blocks/:id.
func (h *OrchardHandler) GetBlock(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	b, err := h.Blocks.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "orchard block")
	}
	return c.JSON(http.StatusOK, newBlockView(b))
}

// CreateBlock handles POST /api/orchard-block/admin/create. The orchard
// must exist; a missing default bin rate takes the global default.
func (h *OrchardHandler) CreateBlock(c echo.Context) error {
	var body blockBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	b := &model.OrchardBlock{Area: decimal.Zero, DefaultBinRate: h.Rates.DefaultRate()}
	body.apply(b)
	if id, err := uuid.Parse(strings.TrimSpace(body.OrchardID)); err == nil {
		b.OrchardID = id
	}
	if err := b.Validate(); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) && strings.TrimSpace(body.OrchardID) != "" {
			for i := range verr.Fields {
				if verr.Fields[i].Field == "orchardId" {
					verr.Fields[i].Message = "must be a UUID"
				}
			}
		}
		return respondError(c, err, "orchard block")
	}
	b.InitNew()
	if err := h.Blocks.Create(c.Request().Context(), b); err != nil {
		return respondError(c, err, "orchard block")
	}
	return c.JSON(http.StatusCreated, newBlockView(b))
}

// UpdateBlock handles PUT /api/orchard-block/admin/:id. A block cannot be
// moved to another orchard.
func (h *OrchardHandler) UpdateBlock(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var body blockBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	b, err := h.Blocks.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "orchard block")
	}
	body.apply(b)
	if err := requireVersion(b.Validate(), body.Version); err != nil {
		return respondError(c, err, "orchard block")
	}
	b.Version = *body.Version
	if err := h.Blocks.Update(ctx, b); err != nil {
		return respondError(c, err, "orchard block")
	}
	return c.JSON(http.StatusOK, newBlockView(b))
}

// SetBlockStatus handles PUT /api/orchard-block/admin/:id/status.
func (h *OrchardHandler) SetBlockStatus(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var body statusBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := body.validate(); err != nil {
		return respondError(c, err, "orchard block")
	}
	ctx := c.Request().Context()
	if err := h.Blocks.SetActive(ctx, id, *body.IsActive, body.Version); err != nil {
		return respondError(c, err, "orchard block")
	}
	b, err := h.Blocks.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "orchard block")
	}
	return c.JSON(http.StatusOK, newBlockView(b))
}
