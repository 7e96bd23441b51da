package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/model"
)

const packhouseColumns = "id, name, location, contact_person, phone, is_active, version"

// PackhouseRepo encapsulates all database queries related to packhouses.
type PackhouseRepo struct {
	db *database.DB
}

// NewPackhouseRepo constructs a PackhouseRepo with the provided DB handle.
func NewPackhouseRepo(db *database.DB) *PackhouseRepo {
	return &PackhouseRepo{db: db}
}

func scanPackhouse(s scanner) (*model.Packhouse, error) {
	p := new(model.Packhouse)
	if err := s.Scan(&p.ID, &p.Name, &p.Location, &p.ContactPerson, &p.Phone, &p.IsActive, &p.Version); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PackhouseRepo) Create(ctx context.Context, p *model.Packhouse) error {
	const q = `INSERT INTO packhouses (` + packhouseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.Location, p.ContactPerson, p.Phone, p.IsActive, p.Version)
	return classify(err)
}

func (r *PackhouseRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Packhouse, error) {
	const q = `SELECT ` + packhouseColumns + ` FROM packhouses WHERE id = ?`
	return getOne(ctx, r.db, scanPackhouse, q, id)
}

func (r *PackhouseRepo) ListActive(ctx context.Context) ([]*model.Packhouse, error) {
	const q = `SELECT ` + packhouseColumns + ` FROM packhouses WHERE is_active = TRUE ORDER BY name, id`
	return list(ctx, r.db, scanPackhouse, q)
}

func (r *PackhouseRepo) Update(ctx context.Context, p *model.Packhouse) error {
	err := updateVersioned(ctx, r.db, "packhouses", p.ID, p.Version,
		"name = ?, location = ?, contact_person = ?, phone = ?",
		p.Name, p.Location, p.ContactPerson, p.Phone)
	if err != nil {
		return err
	}
	p.Version++
	return nil
}

func (r *PackhouseRepo) SetActive(ctx context.Context, id uuid.UUID, active bool, version *int) error {
	return setActive(ctx, r.db, "packhouses", id, active, version)
}
