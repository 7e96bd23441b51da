package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fixed-point shapes of the persisted numeric columns. Money is stored as
// NUMERIC(10,2) and worked hours as NUMERIC(10,4).
const (
	ColumnPrecision int32 = 10
	MoneyPlaces     int32 = 2
	HoursPlaces     int32 = 4
)

// Money rounds v to the monetary scale.
func Money(v decimal.Decimal) decimal.Decimal {
	return v.Round(MoneyPlaces)
}

// MustMoney parses a literal such as "45.00". It panics on malformed input
// and is meant for constants and tests.
func MustMoney(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NormalizeVariety is applied to every variety on the way in and on every
// lookup, so matching stays exact and case-sensitive but ignores stray
// surrounding whitespace.
func NormalizeVariety(v string) string {
	return strings.TrimSpace(v)
}

const dateLayout = "2006-01-02"

// Date is a calendar date pinned to UTC midnight. It is serialized as
// YYYY-MM-DD both in JSON and in SQL parameters.
type Date struct {
	time.Time
}

// DateOf converts t to UTC and discards the time of day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return Date{time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// Today returns the current UTC calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate accepts either YYYY-MM-DD or an RFC 3339 timestamp. Timestamps
// are converted to UTC before truncation.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON writes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the same forms as ParseDate.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. Drivers hand dates back as time.Time
// (pgx, mysql with parseTime) or as text (sqlite).
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		// DATE columns come back at midnight in the session zone; keep the
		// wall-clock day rather than shifting it through UTC.
		*d = Date{time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)}
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("model.Date: cannot scan %T", src)
}

func (d *Date) scanText(s string) error {
	if len(s) < len(dateLayout) {
		return fmt.Errorf("model.Date: cannot scan %q", s)
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return fmt.Errorf("model.Date: %w", err)
	}
	*d = Date{t}
	return nil
}
