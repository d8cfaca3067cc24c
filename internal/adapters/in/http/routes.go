package http

import (
	"net/http"

	"lotflow/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// Mount registers the health probe, the OpenAPI document and every API
// operation on e. API requests are validated against the document first.
func Mount(e *echo.Echo, si servers.ServerInterface) error {
	doc, err := GetSwagger()
	if err != nil {
		return err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return err
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", RawSpec())
	})

	api := e.Group(BaseURL, validator)
	servers.RegisterHandlersWithBaseURL(api, si, "")
	return nil
}
