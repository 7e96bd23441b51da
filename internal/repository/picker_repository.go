package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/model"
)

const pickerColumns = "id, first_name, last_name, email, phone, is_active, hire_date, version"

// PickerRepo encapsulates all database queries related to pickers.
type PickerRepo struct {
	db *database.DB
}

// NewPickerRepo constructs a PickerRepo with the provided DB handle.
func NewPickerRepo(db *database.DB) *PickerRepo {
	return &PickerRepo{db: db}
}

func scanPicker(s scanner) (*model.Picker, error) {
	p := new(model.Picker)
	if err := s.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.IsActive, &p.HireDate, &p.Version); err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a picker whose identity and defaults have already been
// assigned with InitNew.
func (r *PickerRepo) Create(ctx context.Context, p *model.Picker) error {
	const q = `INSERT INTO pickers (` + pickerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.IsActive, p.HireDate, p.Version)
	return classify(err)
}

// GetByID fetches a picker regardless of its active flag.
func (r *PickerRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Picker, error) {
	const q = `SELECT ` + pickerColumns + ` FROM pickers WHERE id = ?`
	return getOne(ctx, r.db, scanPicker, q, id)
}

// ListActive returns active pickers ordered by last name, then first name.
func (r *PickerRepo) ListActive(ctx context.Context) ([]*model.Picker, error) {
	const q = `SELECT ` + pickerColumns + ` FROM pickers
	           WHERE is_active = TRUE
	           ORDER BY last_name, first_name, id`
	return list(ctx, r.db, scanPicker, q)
}

// List returns every picker, active or not, in the same order.
func (r *PickerRepo) List(ctx context.Context) ([]*model.Picker, error) {
	const q = `SELECT ` + pickerColumns + ` FROM pickers ORDER BY last_name, first_name, id`
	return list(ctx, r.db, scanPicker, q)
}

// Update writes the editable fields if p.Version is still current. On
// success p.Version is advanced to match the stored row.
func (r *PickerRepo) Update(ctx context.Context, p *model.Picker) error {
	err := updateVersioned(ctx, r.db, "pickers", p.ID, p.Version,
		"first_name = ?, last_name = ?, email = ?, phone = ?, hire_date = ?",
		p.FirstName, p.LastName, p.Email, p.Phone, p.HireDate)
	if err != nil {
		return err
	}
	p.Version++
	return nil
}

// SetActive activates or deactivates a picker. Pick history is untouched.
func (r *PickerRepo) SetActive(ctx context.Context, id uuid.UUID, active bool, version *int) error {
	return setActive(ctx, r.db, "pickers", id, active, version)
}
