package pickrecord

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/picker-payroll/internal/binrate"
	"github.com/iliyamo/picker-payroll/internal/model"
)

type countingResolver struct {
	rate     string
	calls    int
	varieties []string
}

func (r *countingResolver) Resolve(_ context.Context, v string) binrate.Resolution {
	r.calls++
	r.varieties = append(r.varieties, v)
	return binrate.Resolution{Variety: v, Rate: decimal.RequireFromString(r.rate), Source: binrate.SourceApplePrice}
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 22, 30, 0, 0, time.FixedZone("NZST", 12*3600))
}

func validInput() Input {
	return Input{
		PickerID:       uuid.NewString(),
		OrchardBlockID: uuid.NewString(),
		AppleVariety:   " Gala ",
		BinsPicked:     NumberOf("12"),
	}
}

func TestPrepare_FillsRateFromResolver(t *testing.T) {
	res := &countingResolver{rate: "48.00"}
	p := NewPreparer(res, fixedClock)

	rec, err := p.Prepare(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, 1, res.calls)
	assert.Equal(t, []string{"Gala"}, res.varieties)
	assert.Equal(t, "Gala", rec.AppleVariety)
	assert.Equal(t, "48.00", rec.BinRate.StringFixed(2))
	assert.Equal(t, "576.00", rec.TotalAmount().StringFixed(2))
	assert.Equal(t, uuid.Version(7), rec.ID.Version())
	assert.False(t, rec.HoursWorked.Valid)
}

func TestPrepare_DefaultDateIsUTCToday(t *testing.T) {
	p := NewPreparer(&countingResolver{rate: "45"}, fixedClock)
	rec, err := p.Prepare(context.Background(), validInput())
	require.NoError(t, err)
	// 22:30 at +12:00 is 10:30 UTC the same day.
	assert.Equal(t, "2024-05-01", rec.PickDate.String())
}

func TestPrepare_SuppliedRateSkipsResolver(t *testing.T) {
	res := &countingResolver{rate: "48.00"}
	in := validInput()
	in.BinRate = NumberOf(`"51.25"`)
	in.HoursWorked = NumberOf("7.125")

	rec, err := NewPreparer(res, fixedClock).Prepare(context.Background(), in)
	require.NoError(t, err)
	assert.Zero(t, res.calls)
	assert.Equal(t, "51.25", rec.BinRate.StringFixed(2))
	require.True(t, rec.HoursWorked.Valid)
	assert.Equal(t, "7.1250", rec.HoursWorked.Decimal.StringFixed(4))
}

func TestPrepare_TimestampsOnSameDayNormalizeTogether(t *testing.T) {
	p := NewPreparer(&countingResolver{rate: "45"}, fixedClock)

	late := validInput()
	late.PickDate = "2024-05-01T23:59:00Z"
	early := validInput()
	early.PickDate = "2024-05-01T00:00:01Z"

	a, err := p.Prepare(context.Background(), late)
	require.NoError(t, err)
	b, err := p.Prepare(context.Background(), early)
	require.NoError(t, err)
	assert.Equal(t, a.PickDate, b.PickDate)
	assert.Equal(t, "2024-05-01", a.PickDate.String())
	assert.Negative(t, strings.Compare(a.ID.String(), b.ID.String()), "later submission sorts after")
}

func TestPrepare_OffsetTimestampConvertedToUTC(t *testing.T) {
	in := validInput()
	in.PickDate = "2024-05-02T08:00:00+12:00"
	rec, err := NewPreparer(&countingResolver{rate: "45"}, fixedClock).Prepare(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", rec.PickDate.String())
}

func TestPrepare_ReportsEveryField(t *testing.T) {
	res := &countingResolver{rate: "45"}
	in := Input{
		PickerID:       "not-a-uuid",
		OrchardBlockID: "",
		AppleVariety:   "   ",
		BinsPicked:     NumberOf("-1"),
		BinRate:        NumberOf("45.001"),
		HoursWorked:    NumberOf("-2"),
		PickDate:       "01/05/2024",
	}

	rec, err := NewPreparer(res, fixedClock).Prepare(context.Background(), in)
	assert.Nil(t, rec)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"pickerId", "orchardBlockId", "appleVariety", "binsPicked", "binRate", "hoursWorked", "pickDate"} {
		assert.True(t, verr.Has(field), "expected %s to be rejected", field)
	}
	assert.Zero(t, res.calls)
}

func TestPrepare_BinsPicked(t *testing.T) {
	tests := []struct {
		name    string
		bins    *Number
		want    int
		message string
	}{
		{"missing", nil, 0, "is required"},
		{"negative", NumberOf("-3"), 0, "must be a non-negative integer"},
		{"fractional", NumberOf("2.5"), 0, "must be a non-negative integer"},
		{"word", NumberOf(`"ten"`), 0, "must be a non-negative integer"},
		{"boolean", NumberOf("true"), 0, "must be a non-negative integer"},
		{"past column range", NumberOf("3000000000"), 0, "must not exceed 2147483647"},
		{"zero", NumberOf("0"), 0, ""},
		{"positive", NumberOf("40"), 40, ""},
		{"quoted", NumberOf(`" 7 "`), 7, ""},
		{"column maximum", NumberOf("2147483647"), MaxBins, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.BinsPicked = tt.bins
			rec, err := NewPreparer(&countingResolver{rate: "45"}, fixedClock).Prepare(context.Background(), in)
			if tt.message == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, rec.BinsPicked)
				return
			}
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, "binsPicked", verr.Fields[0].Field)
			assert.Equal(t, tt.message, verr.Fields[0].Message)
		})
	}
}

func TestPrepare_NonNumericAmounts(t *testing.T) {
	in := validInput()
	in.BinRate = NumberOf(`"lots"`)
	in.HoursWorked = NumberOf("{}")

	_, err := NewPreparer(&countingResolver{rate: "45"}, fixedClock).Prepare(context.Background(), in)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("binRate"))
	assert.True(t, verr.Has("hoursWorked"))
	assert.False(t, verr.Has("binsPicked"))
}

func TestNumber_DecodesAnyJSONValue(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"binsPicked":2.5,"binRate":"45.50","hoursWorked":null}`), &in))
	require.NotNil(t, in.BinsPicked)
	assert.Equal(t, "2.5", in.BinsPicked.raw)
	require.NotNil(t, in.BinRate)
	assert.Nil(t, in.HoursWorked)

	require.NoError(t, json.Unmarshal([]byte(`{"binsPicked":"ten"}`), &in))
	assert.Equal(t, `"ten"`, in.BinsPicked.raw)
}
