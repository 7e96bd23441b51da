package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/model"
)

const priceColumns = "id, variety, price_per_kg, bin_rate, effective_date, is_active, version"

// ApplePriceRepo encapsulates all database queries related to the variety
// price list.
type ApplePriceRepo struct {
	db *database.DB
}

// NewApplePriceRepo constructs an ApplePriceRepo with the provided DB handle.
func NewApplePriceRepo(db *database.DB) *ApplePriceRepo {
	return &ApplePriceRepo{db: db}
}

func scanPrice(s scanner) (*model.ApplePrice, error) {
	p := new(model.ApplePrice)
	if err := s.Scan(&p.ID, &p.Variety, &p.PricePerKg, &p.BinRate, &p.EffectiveDate, &p.IsActive, &p.Version); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ApplePriceRepo) Create(ctx context.Context, p *model.ApplePrice) error {
	const q = `INSERT INTO apple_prices (` + priceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Variety, p.PricePerKg, p.BinRate, p.EffectiveDate, p.IsActive, p.Version)
	return classify(err)
}

func (r *ApplePriceRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ApplePrice, error) {
	const q = `SELECT ` + priceColumns + ` FROM apple_prices WHERE id = ?`
	return getOne(ctx, r.db, scanPrice, q, id)
}

// ListActive returns the active price list grouped by variety, newest
// entry first within each variety.
func (r *ApplePriceRepo) ListActive(ctx context.Context) ([]*model.ApplePrice, error) {
	const q = `SELECT ` + priceColumns + ` FROM apple_prices
	           WHERE is_active = TRUE
	           ORDER BY variety, effective_date DESC, id`
	return list(ctx, r.db, scanPrice, q)
}

// ListActiveByVariety returns the active prices of one variety, most
// recently effective first. The variety must already be normalized.
func (r *ApplePriceRepo) ListActiveByVariety(ctx context.Context, variety string) ([]*model.ApplePrice, error) {
	const q = `SELECT ` + priceColumns + ` FROM apple_prices
	           WHERE variety = ? AND is_active = TRUE
	           ORDER BY effective_date DESC, id`
	return list(ctx, r.db, scanPrice, q, variety)
}

func (r *ApplePriceRepo) Update(ctx context.Context, p *model.ApplePrice) error {
	err := updateVersioned(ctx, r.db, "apple_prices", p.ID, p.Version,
		"variety = ?, price_per_kg = ?, bin_rate = ?, effective_date = ?",
		p.Variety, p.PricePerKg, p.BinRate, p.EffectiveDate)
	if err != nil {
		return err
	}
	p.Version++
	return nil
}

func (r *ApplePriceRepo) SetActive(ctx context.Context, id uuid.UUID, active bool, version *int) error {
	return setActive(ctx, r.db, "apple_prices", id, active, version)
}
