package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems. It returns a plain text "ok" with status 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Liveness answers the legacy smoke-test paths (/, /test, /api/test,
// /api/picker) with a small JSON document naming the path hit.
func Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"service": "picker-payroll",
		"path":    c.Request().URL.Path,
	})
}
