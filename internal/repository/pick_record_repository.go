package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/model"
)

const pickColumns = `id, picker_id, orchard_block_id, apple_variety, bins_picked,
	bin_rate, hours_worked, pick_date`

// PickRecordRepo stores pick records. Records are append-only: there is no
// update or delete path outside the seeding reset.
type PickRecordRepo struct {
	db *database.DB
}

// NewPickRecordRepo constructs a PickRecordRepo with the provided DB handle.
func NewPickRecordRepo(db *database.DB) *PickRecordRepo {
	return &PickRecordRepo{db: db}
}

// PickFilter narrows List. Nil fields are not applied; From and To are
// inclusive.
type PickFilter struct {
	PickerID *uuid.UUID
	From     *model.Date
	To       *model.Date
}

func scanPick(s scanner) (*model.PickRecord, error) {
	r := new(model.PickRecord)
	if err := s.Scan(&r.ID, &r.PickerID, &r.OrchardBlockID, &r.AppleVariety, &r.BinsPicked,
		&r.BinRate, &r.HoursWorked, &r.PickDate); err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a prepared record. The picker and block are checked inside
// the same transaction; each missing one is named in the *ReferenceError.
// Inactive pickers and blocks are accepted.
func (r *PickRecordRepo) Create(ctx context.Context, rec *model.PickRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	var missing []string
	ok, err := exists(ctx, tx, "pickers", rec.PickerID)
	if err != nil {
		return err
	}
	if !ok {
		missing = append(missing, "pickerId")
	}
	ok, err = exists(ctx, tx, "orchard_blocks", rec.OrchardBlockID)
	if err != nil {
		return err
	}
	if !ok {
		missing = append(missing, "orchardBlockId")
	}
	if len(missing) > 0 {
		return &ReferenceError{Fields: missing}
	}

	const q = `INSERT INTO pick_records (` + pickColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, rec.ID, rec.PickerID, rec.OrchardBlockID, rec.AppleVariety,
		rec.BinsPicked, rec.BinRate, rec.HoursWorked, rec.PickDate); err != nil {
		return classify(err)
	}
	return classify(tx.Commit())
}

func (r *PickRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.PickRecord, error) {
	const q = `SELECT ` + pickColumns + ` FROM pick_records WHERE id = ?`
	return getOne(ctx, r.db, scanPick, q, id)
}

// List returns records matching f, newest pick date first.
func (r *PickRecordRepo) List(ctx context.Context, f PickFilter) ([]*model.PickRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.PickerID != nil {
		where = append(where, "picker_id = ?")
		args = append(args, *f.PickerID)
	}
	if f.From != nil {
		where = append(where, "pick_date >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		where = append(where, "pick_date <= ?")
		args = append(args, *f.To)
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + pickColumns + ` FROM pick_records`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	// Pick IDs are version 7, so id DESC is newest submission first.
	b.WriteString(" ORDER BY pick_date DESC, id DESC")
	return list(ctx, r.db, scanPick, b.String(), args...)
}
