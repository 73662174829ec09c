package v1

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kiosk404/echosql/internal/dialect"
	"github.com/kiosk404/echosql/internal/domain/errno"
	"github.com/kiosk404/echosql/internal/domain/repo"
	"github.com/kiosk404/echosql/internal/paginate"
	"github.com/kiosk404/echosql/internal/warehouse"
	"github.com/kiosk404/echosql/pkg/core"
	"github.com/kiosk404/echosql/pkg/errorx"
)

// DataHandler serves GET /data/:query_id: it wraps a persisted
// QueryMetadata's SQL with the pagination/sort envelope (internal/paginate)
// and executes it against the warehouse profile the query was produced
// against (spec.md §6.1).
type DataHandler struct {
	queries repo.QueryRepo
	pool    *warehouse.Pool
}

func NewDataHandler(queries repo.QueryRepo, pool *warehouse.Pool) *DataHandler {
	return &DataHandler{queries: queries, pool: pool}
}

// Get handles GET /data/:query_id?limit=&offset=&sort_by=&sort_order=.
func (h *DataHandler) Get(c *gin.Context) {
	queryID := c.Param("query_id")
	q, err := h.queries.Get(c.Request.Context(), queryID)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrQueryNotFound, "query %q not found", queryID), nil)
		return
	}

	limit, offset, err := parseLimitOffset(c)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrValidation, "invalid limit/offset"), nil)
		return
	}

	sortBy := c.Query("sort_by")
	sortOrder := paginate.Asc
	if c.Query("sort_order") == "desc" {
		sortOrder = paginate.Desc
	}
	includeTotal := c.Query("include_total_count") != "false"

	sql, _, err := paginate.Build(q.SQL, sortBy, sortOrder, includeTotal, dialect.Dialect(q.Dialect), q.Columns, limit, offset)
	if err != nil {
		code := ErrValidation
		if errors.Is(err, errno.ErrInvalidSortColumn) {
			code = ErrInvalidSortColumn
		}
		core.WriteResponse(c, errorx.WrapC(err, code, "%s (declared columns: %s)", err.Error(), strings.Join(q.ColumnNames(), ", ")), nil)
		return
	}

	result, err := h.pool.Fetch(c.Request.Context(), q.Profile, sql, includeTotal)
	if err != nil {
		var sqlErr *errno.SQLValidationError
		if errors.As(err, &sqlErr) && sqlErr.Class == errno.ClassTimeout {
			core.WriteResponse(c, errorx.WrapC(err, ErrWarehouseTimeout, "query %q timed out", queryID), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrWarehouseFailure, "query %q failed: %v", queryID, err), nil)
		return
	}

	resp := DataResponse{Rows: result.Rows}
	if includeTotal && result.TotalCount >= 0 {
		resp.TotalRows = &result.TotalCount
	}
	core.WriteResponse(c, nil, resp)
}

// Lineage handles GET /data/:query_id/lineage: the ordered chain of
// QueryMetadata this query refines, oldest-first, bounded to
// repo.DefaultLineageDepth hops.
func (h *DataHandler) Lineage(c *gin.Context) {
	queryID := c.Param("query_id")
	chain, err := repo.ResolveLineage(c.Request.Context(), h.queries, queryID, repo.DefaultLineageDepth)
	if err != nil {
		if errors.Is(err, errno.ErrQueryNotFound) {
			core.WriteResponse(c, errorx.WrapC(err, ErrQueryNotFound, "query %q not found", queryID), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrValidation, "%s", err.Error()), nil)
		return
	}
	core.WriteResponse(c, nil, newLineageResponse(chain))
}

func parseLimitOffset(c *gin.Context) (int, int, error) {
	limit := 0
	offset := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, errors.New("limit must be an integer")
		}
		limit = n
	}
	if s := c.Query("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, errors.New("offset must be an integer")
		}
		offset = n
	}
	return limit, offset, nil
}
