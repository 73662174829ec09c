package v1

import (
	"net/http"

	"github.com/kiosk404/echosql/pkg/errorx"
)

// Coded errors the v1 handlers map onto HTTP statuses (spec.md §6.1's
// exit-code table: 400 validation, 504 warehouse timeout, 500
// uncategorized warehouse failure, 401/403 auth, 404 not-found).
var (
	ErrBind       = errorx.Code{Status: http.StatusBadRequest, Message: "request body binding failed"}
	ErrValidation = errorx.Code{Status: http.StatusBadRequest, Message: "request validation failed"}

	ErrSessionNotFound = errorx.Code{Status: http.StatusNotFound, Message: "session not found"}
	ErrSessionCreate   = errorx.Code{Status: http.StatusInternalServerError, Message: "failed to create session"}

	ErrRequestNotFound = errorx.Code{Status: http.StatusNotFound, Message: "request not found"}
	ErrRequestCreate   = errorx.Code{Status: http.StatusInternalServerError, Message: "failed to enqueue request"}

	ErrQueryNotFound     = errorx.Code{Status: http.StatusNotFound, Message: "query not found"}
	ErrQueryNotDone      = errorx.Code{Status: http.StatusBadRequest, Message: "request has not produced a query yet"}
	ErrInvalidSortColumn = errorx.Code{Status: http.StatusBadRequest, Message: "sort_by is not a declared column"}

	ErrWarehouseTimeout = errorx.Code{Status: http.StatusGatewayTimeout, Message: "warehouse query timed out"}
	ErrWarehouseFailure = errorx.Code{Status: http.StatusInternalServerError, Message: "warehouse query failed"}

	ErrUnauthorized = errorx.Code{Status: http.StatusUnauthorized, Message: "authentication required"}
	ErrForbidden    = errorx.Code{Status: http.StatusForbidden, Message: "not permitted"}

	ErrInternal = errorx.Code{Status: http.StatusInternalServerError, Message: "internal error"}
)
