package http

import (
	"errors"
	"net/http"

	"lotflow/internal/core/domain/model/order"
	"lotflow/internal/core/domain/model/unit"
	"lotflow/internal/generated/servers"
	"lotflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps domain and application errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, unit.ErrUnitIsTerminal),
		errors.Is(err, unit.ErrUnitIsNotOverproduced),
		errors.Is(err, order.ErrOrderIsClosed),
		errors.Is(err, order.ErrOrderIsFull):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx echo.Context, err error) error {
	code := statusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		ctx.Logger().Error(err)
		msg = http.StatusText(code)
	}
	return ctx.JSON(code, servers.Error{Code: code, Message: msg})
}

func badRequest(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{Code: http.StatusBadRequest, Message: msg})
}
