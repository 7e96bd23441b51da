package earnings

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

// PickLister reads pick records, newest first.
type PickLister interface {
	List(ctx context.Context, f repository.PickFilter) ([]*model.PickRecord, error)
}

// PickerLister reads every picker, including deactivated ones.
type PickerLister interface {
	List(ctx context.Context) ([]*model.Picker, error)
}

// Load reads the records matching filter, summarizes them per picker,
// attaches names and applies key.
func Load(ctx context.Context, picks PickLister, pickers PickerLister, filter repository.PickFilter, key SortKey) ([]Row, error) {
	records, err := picks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	all, err := pickers.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(all))
	for _, p := range all {
		names[p.ID] = p.FullName()
	}
	// Summarize oldest first so first appearance follows the season.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	rows := WithNames(SummarizeByPicker(records), names)
	Sort(rows, key)
	return rows, nil
}
