package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/hoangtv/cinebook-flow/internal/session"
)

// Health is a health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It also
// reports the number of live reservation sessions, which is the one
// piece of in-process state worth watching.
func Health(store *session.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "sessions": store.Len()})
	}
}
