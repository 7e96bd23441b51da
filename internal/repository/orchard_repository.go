package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/model"
)

const orchardColumns = "id, name, location, total_area, is_active, version"

// OrchardRepo encapsulates all database queries related to orchards.
type OrchardRepo struct {
	db *database.DB
}

// NewOrchardRepo constructs an OrchardRepo with the provided DB handle.
func NewOrchardRepo(db *database.DB) *OrchardRepo {
	return &OrchardRepo{db: db}
}

func scanOrchard(s scanner) (*model.Orchard, error) {
	o := new(model.Orchard)
	if err := s.Scan(&o.ID, &o.Name, &o.Location, &o.TotalArea, &o.IsActive, &o.Version); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrchardRepo) Create(ctx context.Context, o *model.Orchard) error {
	const q = `INSERT INTO orchards (` + orchardColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, o.ID, o.Name, o.Location, o.TotalArea, o.IsActive, o.Version)
	return classify(err)
}

func (r *OrchardRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Orchard, error) {
	const q = `SELECT ` + orchardColumns + ` FROM orchards WHERE id = ?`
	return getOne(ctx, r.db, scanOrchard, q, id)
}

// ListActive returns active orchards ordered by name.
func (r *OrchardRepo) ListActive(ctx context.Context) ([]*model.Orchard, error) {
	const q = `SELECT ` + orchardColumns + ` FROM orchards WHERE is_active = TRUE ORDER BY name, id`
	return list(ctx, r.db, scanOrchard, q)
}

func (r *OrchardRepo) List(ctx context.Context) ([]*model.Orchard, error) {
	const q = `SELECT ` + orchardColumns + ` FROM orchards ORDER BY name, id`
	return list(ctx, r.db, scanOrchard, q)
}

func (r *OrchardRepo) Update(ctx context.Context, o *model.Orchard) error {
	err := updateVersioned(ctx, r.db, "orchards", o.ID, o.Version,
		"name = ?, location = ?, total_area = ?", o.Name, o.Location, o.TotalArea)
	if err != nil {
		return err
	}
	o.Version++
	return nil
}

func (r *OrchardRepo) SetActive(ctx context.Context, id uuid.UUID, active bool, version *int) error {
	return setActive(ctx, r.db, "orchards", id, active, version)
}
