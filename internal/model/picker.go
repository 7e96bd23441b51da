package model

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// Picker is a seasonal worker paid per bin. Pickers are never deleted;
// deactivating one hides it from operational listings while its pick
// history stays queryable.
//
// Fields:
//  ID        – primary key, generated at creation.
//  FirstName – given name.
//  LastName  – family name.
//  Email     – optional contact address.
//  Phone     – optional contact number.
//  IsActive  – soft-delete flag.
//  HireDate  – first day of employment (defaults to today).
//  Version   – optimistic concurrency counter.
type Picker struct {
	ID        uuid.UUID // pickers.id
	FirstName string    // pickers.first_name
	LastName  string    // pickers.last_name
	Email     string    // pickers.email
	Phone     string    // pickers.phone
	IsActive  bool      // pickers.is_active
	HireDate  Date      // pickers.hire_date
	Version   int       // pickers.version
}

// FullName is derived on every read and never stored.
func (p *Picker) FullName() string {
	return p.FirstName + " " + p.LastName
}

// InitNew assigns identity and creation defaults.
func (p *Picker) InitNew(today Date) {
	p.ID = uuid.New()
	p.IsActive = true
	p.Version = 1
	if p.HireDate.IsZero() {
		p.HireDate = today
	}
}

// Validate checks the caller-supplied fields.
func (p *Picker) Validate() error {
	errs := &ValidationError{}
	requireText(errs, "firstName", p.FirstName)
	requireText(errs, "lastName", p.LastName)
	if email := strings.TrimSpace(p.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errs.Add("email", "is not a valid address")
		}
	}
	return errs.Err()
}
