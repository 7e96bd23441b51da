package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/picker-payroll/internal/model"
	"github.com/iliyamo/picker-payroll/internal/repository"
)

// respondError maps a failure onto its HTTP status. what names the entity
// for not-found messages. Unexpected and store failures are logged; the
// client only sees a generic message for those.
func respondError(c echo.Context, err error, what string) error {
	var verr *model.ValidationError
	var rerr *repository.ReferenceError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": verr.Fields})
	case errors.As(err, &rerr):
		fields := make([]model.FieldError, 0, len(rerr.Fields))
		for _, f := range rerr.Fields {
			fields = append(fields, model.FieldError{Field: f, Message: "does not exist"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": what + " was modified by another request; reload and retry"})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": what + " already exists"})
	case errors.Is(err, repository.ErrStoreUnavailable):
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database unavailable"})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// paramID parses the :id path parameter. ok is false when a 400 response
// has already been written.
func paramID(c echo.Context) (id uuid.UUID, ok bool, err error) {
	id, perr := uuid.Parse(c.Param("id"))
	if perr != nil {
		return uuid.Nil, false, badRequest(c, "invalid id")
	}
	return id, true, nil
}

// requireVersion adds a "version is required" field error to err when the
// caller did not send one.
func requireVersion(err error, version *int) error {
	if version != nil {
		return err
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		verr = &model.ValidationError{}
	}
	verr.Add("version", "is required")
	return verr
}

// statusBody is shared by every PUT .../status route.
type statusBody struct {
	IsActive *bool `json:"isActive"`
	Version  *int  `json:"version"`
}

func (b statusBody) validate() error {
	errs := &model.ValidationError{}
	if b.IsActive == nil {
		errs.Add("isActive", "is required")
	}
	return errs.Err()
}
