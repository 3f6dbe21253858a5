package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/pkg/otellib"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// httpStatus translates the core error taxonomy to transport codes.
func httpStatus(err error) int {
	switch errcode.KindOf(err) {
	case errcode.KindNotFound:
		return http.StatusNotFound
	case errcode.KindConflict, errcode.KindFailedPrecondition:
		return http.StatusConflict
	case errcode.KindInvalidArgument:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		otellib.Extract(c.Request().Context()).Error("internal error: " + err.Error())
		return c.JSON(status, errorResponse{Detail: "internal server error"})
	}
	return c.JSON(status, errorResponse{Detail: err.Error()})
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errcode.InvalidArgumentf("invalid id %q", c.Param("id"))
	}
	return id, nil
}
