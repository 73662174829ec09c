// Package core provides the standard HTTP response envelope shared by all
// v1 handlers.
package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiosk404/echosql/pkg/errorx"
)

// Response is the uniform JSON envelope returned by every endpoint.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// WriteResponse writes err (if any) and data as the standard envelope,
// deriving the HTTP status from err's Code when err is an *errorx.Error.
func WriteResponse(c *gin.Context, err error, data interface{}) {
	if err == nil {
		c.JSON(http.StatusOK, Response{Code: 0, Data: data})
		return
	}

	status := http.StatusInternalServerError
	msg := err.Error()
	if xe, ok := err.(*errorx.Error); ok {
		if xe.Code.Status != 0 {
			status = xe.Code.Status
		}
		msg = xe.Error()
	}
	c.JSON(status, Response{Code: status, Message: msg, Data: data})
}
