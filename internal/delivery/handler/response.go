package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/lovesinghal31/backendcourse/internal/application/common"
)

// ApiResponse is the JSON envelope returned by every endpoint.
type ApiResponse struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

func respond(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, ApiResponse{Code: status, Data: data, Message: message})
}

func respondError(c echo.Context, err error) error {
	apiErr := common.AsApiError(err)
	return c.JSON(apiErr.Code, ApiResponse{Code: apiErr.Code, Message: apiErr.Message})
}
