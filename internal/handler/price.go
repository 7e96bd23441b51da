package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/picker-payroll/internal/binrate"
	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

// RateResolver is the bin-rate lookup exposed at /api/bin-rates.
type RateResolver interface {
	DefaultRater
	Resolve(ctx context.Context, variety string) binrate.Resolution
}

// PriceHandler serves the variety price list and bin-rate lookups.
type PriceHandler struct {
	Prices *repository.ApplePriceRepo
	Rates  RateResolver
}

// NewPriceHandler constructs a PriceHandler and panics if any dependency is nil.
func NewPriceHandler(prices *repository.ApplePriceRepo, rates RateResolver) *PriceHandler {
	if prices == nil || rates == nil {
		panic("nil dependency passed to NewPriceHandler")
	}
	return &PriceHandler{Prices: prices, Rates: rates}
}

type priceBody struct {
	Variety       string           `json:"variety"`
	PricePerKg    *decimal.Decimal `json:"pricePerKg"`
	BinRate       *decimal.Decimal `json:"binRate"`
	EffectiveDate model.Date       `json:"effectiveDate"`
	Version       *int             `json:"version"`
}

func (b priceBody) apply(p *model.ApplePrice) {
	p.Variety = model.NormalizeVariety(b.Variety)
	if b.PricePerKg != nil {
		p.PricePerKg = *b.PricePerKg
	}
	if b.BinRate != nil {
		p.BinRate = *b.BinRate
	}
	if !b.EffectiveDate.IsZero() {
		p.EffectiveDate = b.EffectiveDate
	}
}

// ListActive handles GET /api/apple-prices/active.
func (h *PriceHandler) ListActive(c echo.Context) error {
	items, err := h.Prices.ListActive(c.Request().Context())
	if err != nil {
		return respondError(c, err, "apple price")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views(items, newPriceView)})
}

// Get handles GET /api/apple-prices/:id.
func (h *PriceHandler) Get(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	p, err := h.Prices.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "apple price")
	}
	return c.JSON(http.StatusOK, newPriceView(p))
}

// Create handles POST /api/apple-price/admin/create. A missing bin rate
// takes the global default; a missing effective date is today.
func (h *PriceHandler) Create(c echo.Context) error {
	var body priceBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	p := &model.ApplePrice{PricePerKg: decimal.Zero, BinRate: h.Rates.DefaultRate()}
	body.apply(p)
	if err := p.Validate(); err != nil {
		return respondError(c, err, "apple price")
	}
	p.InitNew(model.Today())
	if err := h.Prices.Create(c.Request().Context(), p); err != nil {
		return respondError(c, err, "apple price")
	}
	return c.JSON(http.StatusCreated, newPriceView(p))
}

// Update handles PUT /api/apple-price/admin/:id. Stored pick records keep
// the rate they were created with.
func (h *PriceHandler) Update(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var body priceBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	p, err := h.Prices.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "apple price")
	}
	body.apply(p)
	if err := requireVersion(p.Validate(), body.Version); err != nil {
		return respondError(c, err, "apple price")
	}
	p.Version = *body.Version
	if err := h.Prices.Update(ctx, p); err != nil {
		return respondError(c, err, "apple price")
	}
	return c.JSON(http.StatusOK, newPriceView(p))
}

// SetStatus handles PUT /api/apple-price/admin/:id/status.
func (h *PriceHandler) SetStatus(c echo.Context) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var body statusBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := body.validate(); err != nil {
		return respondError(c, err, "apple price")
	}
	ctx := c.Request().Context()
	if err := h.Prices.SetActive(ctx, id, *body.IsActive, body.Version); err != nil {
		return respondError(c, err, "apple price")
	}
	p, err := h.Prices.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err, "apple price")
	}
	return c.JSON(http.StatusOK, newPriceView(p))
}

// BinRate handles GET /api/bin-rates/:variety. It always answers 200: an
// unknown variety resolves to the default rate.
func (h *PriceHandler) BinRate(c echo.Context) error {
	res := h.Rates.Resolve(c.Request().Context(), c.Param("variety"))
	return c.JSON(http.StatusOK, binRateView{Variety: res.Variety, BinRate: money(res.Rate), Source: res.Source})
}
