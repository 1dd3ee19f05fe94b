package server

import (
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"cosmossdk.io/math"
	"github.com/labstack/echo/v4"

	"github.com/sovafoundation/fountfi-open/vault/types"
)

func parseAddress(field, value string) (types.Address, error) {
	addr, err := types.AddressFromHex(value)
	if err != nil {
		return types.Address{}, echo.NewHTTPError(http.StatusBadRequest, field+": "+err.Error())
	}
	return addr, nil
}

func parseAmount(field, value string) (math.Int, error) {
	amount, ok := math.NewIntFromString(value)
	if !ok {
		return math.Int{}, echo.NewHTTPError(http.StatusBadRequest, field+": invalid integer amount")
	}
	if amount.IsNegative() {
		return math.Int{}, echo.NewHTTPError(http.StatusBadRequest, field+": amount cannot be negative")
	}
	return amount, nil
}

func parseOperation(value string) (types.OperationKind, error) {
	switch value {
	case types.OpDeposit.String():
		return types.OpDeposit, nil
	case types.OpWithdraw.String():
		return types.OpWithdraw, nil
	case types.OpTransfer.String():
		return types.OpTransfer, nil
	default:
		return 0, echo.NewHTTPError(http.StatusBadRequest, "unknown operation "+value)
	}
}

func parseSignature(value string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(value, "0x"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "signature: "+err.Error())
	}
	return raw, nil
}

func parseIndex(field, value string) (int, error) {
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, field+": "+err.Error())
	}
	return i, nil
}

// callerOf reads the acting address for requests without a JSON body.
func callerOf(c echo.Context) (types.Address, error) {
	return parseAddress("caller", c.QueryParam("caller"))
}
