package model

import "github.com/google/uuid"

// Packhouse receives and grades the picked bins.
type Packhouse struct {
	ID            uuid.UUID // packhouses.id
	Name          string    // packhouses.name
	Location      string    // packhouses.location
	ContactPerson string    // packhouses.contact_person
	Phone         string    // packhouses.phone
	IsActive      bool      // packhouses.is_active
	Version       int       // packhouses.version
}

// InitNew assigns identity and creation defaults.
func (p *Packhouse) InitNew() {
	p.ID = uuid.New()
	p.IsActive = true
	p.Version = 1
}

// Validate checks the caller-supplied fields.
func (p *Packhouse) Validate() error {
	errs := &ValidationError{}
	requireText(errs, "name", p.Name)
	return errs.Err()
}
