package middleware

import (
	"errors"
	"net/http"

	sdkerrors "cosmossdk.io/errors"
	"github.com/labstack/echo/v4"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

// TransparentErrorHandler propagates handler errors to the client with as much
// context as possible. Registered vault errors keep their codespace and code so
// callers can branch on them; everything else degrades to a plain message.
//
// The response body is always JSON in the following form:
//
//	{ "error": "<message>", "code": <n>, "codespace": "<cs>" }
//
// code/codespace are present only for registered errors.
func TransparentErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := StatusOf(err)
	body := map[string]interface{}{"error": err.Error()}

	var registered *sdkerrors.Error
	if errors.As(err, &registered) {
		body["codespace"] = registered.Codespace()
		body["code"] = registered.ABCICode()
	} else {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Message != nil {
			body["error"] = he.Message
		}
	}

	// We ignore any error from JSON serialization because we are already in
	// the error path.
	_ = c.JSON(status, body)
}

// StatusOf maps an error to an HTTP status code.
func StatusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}

	switch {
	case sdkerrors.IsOf(err,
		types.ErrOnlyVault, types.ErrOnlyManager,
		types.ErrNotStrategyAdmin, types.ErrNotProtocolAdmin):
		return http.StatusForbidden
	case sdkerrors.IsOf(err,
		types.ErrWithdrawNonceReuse, types.ErrCollateralAlreadyAllowed):
		return http.StatusConflict
	case sdkerrors.IsOf(err, types.ErrHookCheckFailed):
		return http.StatusUnprocessableEntity
	default:
		var registered *sdkerrors.Error
		if errors.As(err, &registered) && registered.Codespace() == types.ModuleName {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}
