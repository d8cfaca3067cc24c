package http

import (
	"errors"
	"net/http"
	"strings"

	"lotflow/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

// RequestValidator rejects requests under BaseURL that do not match the OpenAPI
// document. Other paths pass through untouched.
func RequestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		MultiError:         false,
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			if !strings.HasPrefix(req.URL.Path, BaseURL+"/") {
				return next(ctx)
			}

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				code := routeStatus(err)
				return ctx.JSON(code, servers.Error{Code: code, Message: err.Error()})
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return badRequest(ctx, err.Error())
			}
			return next(ctx)
		}
	}, nil
}

func routeStatus(err error) int {
	reason := err.Error()
	var re *routers.RouteError
	if errors.As(err, &re) {
		reason = re.Reason
	}
	switch {
	case errors.Is(err, routers.ErrPathNotFound), reason == routers.ErrPathNotFound.Error():
		return http.StatusNotFound
	case errors.Is(err, routers.ErrMethodNotAllowed), reason == routers.ErrMethodNotAllowed.Error():
		return http.StatusMethodNotAllowed
	default:
		return http.StatusBadRequest
	}
}
