package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/picker-payroll/internal/database"
	"github.com/iliyamo/picker-payroll/internal/model"
)

const blockColumns = `id, orchard_id, block_name, block_number, area, apple_variety,
	road_number, default_bin_rate, is_active, version`

// OrchardBlockRepo encapsulates all database queries related to orchard
// blocks. Blocks are the second source of bin rates after the price list.
type OrchardBlockRepo struct {
	db *database.DB
}

// NewOrchardBlockRepo constructs an OrchardBlockRepo with the provided DB handle.
func NewOrchardBlockRepo(db *database.DB) *OrchardBlockRepo {
	return &OrchardBlockRepo{db: db}
}

func scanBlock(s scanner) (*model.OrchardBlock, error) {
	b := new(model.OrchardBlock)
	if err := s.Scan(&b.ID, &b.OrchardID, &b.BlockName, &b.BlockNumber, &b.Area, &b.AppleVariety,
		&b.RoadNumber, &b.DefaultBinRate, &b.IsActive, &b.Version); err != nil {
		return nil, err
	}
	return b, nil
}

// Create inserts a block after confirming, in the same transaction, that
// its orchard exists. A missing orchard yields a *ReferenceError.
func (r *OrchardBlockRepo) Create(ctx context.Context, b *model.OrchardBlock) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	ok, err := exists(ctx, tx, "orchards", b.OrchardID)
	if err != nil {
		return err
	}
	if !ok {
		return &ReferenceError{Fields: []string{"orchardId"}}
	}

	const q = `INSERT INTO orchard_blocks (` + blockColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, b.ID, b.OrchardID, b.BlockName, b.BlockNumber, b.Area,
		b.AppleVariety, b.RoadNumber, b.DefaultBinRate, b.IsActive, b.Version); err != nil {
		return classify(err)
	}
	return classify(tx.Commit())
}

func (r *OrchardBlockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.OrchardBlock, error) {
	const q = `SELECT ` + blockColumns + ` FROM orchard_blocks WHERE id = ?`
	return getOne(ctx, r.db, scanBlock, q, id)
}

// ListActive returns active blocks across all orchards.
func (r *OrchardBlockRepo) ListActive(ctx context.Context) ([]*model.OrchardBlock, error) {
	const q = `SELECT ` + blockColumns + ` FROM orchard_blocks
	           WHERE is_active = TRUE
	           ORDER BY block_name, block_number, id`
	return list(ctx, r.db, scanBlock, q)
}

// ListByOrchard returns the blocks of one orchard; inactive blocks are
// included only when includeInactive is set.
func (r *OrchardBlockRepo) ListByOrchard(ctx context.Context, orchardID uuid.UUID, includeInactive bool) ([]*model.OrchardBlock, error) {
	filter := " AND is_active = TRUE"
	if includeInactive {
		filter = ""
	}
	q := fmt.Sprintf(`SELECT %s FROM orchard_blocks
	                  WHERE orchard_id = ?%s
	                  ORDER BY block_name, block_number, id`, blockColumns, filter)
	return list(ctx, r.db, scanBlock, q, orchardID)
}

// FirstActiveByVariety returns the first active block planted with variety,
// or ErrNotFound. The variety must already be normalized.
func (r *OrchardBlockRepo) FirstActiveByVariety(ctx context.Context, variety string) (*model.OrchardBlock, error) {
	const q = `SELECT ` + blockColumns + ` FROM orchard_blocks
	           WHERE apple_variety = ? AND is_active = TRUE
	           ORDER BY block_name, block_number, id
	           LIMIT 1`
	return getOne(ctx, r.db, scanBlock, q, variety)
}

func (r *OrchardBlockRepo) Update(ctx context.Context, b *model.OrchardBlock) error {
	err := updateVersioned(ctx, r.db, "orchard_blocks", b.ID, b.Version,
		"block_name = ?, block_number = ?, area = ?, apple_variety = ?, road_number = ?, default_bin_rate = ?",
		b.BlockName, b.BlockNumber, b.Area, b.AppleVariety, b.RoadNumber, b.DefaultBinRate)
	if err != nil {
		return err
	}
	b.Version++
	return nil
}

func (r *OrchardBlockRepo) SetActive(ctx context.Context, id uuid.UUID, active bool, version *int) error {
	return setActive(ctx, r.db, "orchard_blocks", id, active, version)
}
