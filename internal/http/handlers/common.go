package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
	"standards-backend/internal/repositories"
	"standards-backend/internal/validate"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		FailDetail(c, http.StatusBadRequest, "empty body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		FailDetail(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return false
	}
	return true
}

// IDParam validates the :id path parameter shape before any lookup is
// attempted, so a malformed id never masquerades as "not found".
func IDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !validate.IsID(id) {
		Error(c, domain.MalformedIDError{Value: id})
		return "", false
	}
	return id, true
}

// RefResolver performs the three-way referenced-document check shared by
// every write:
//
//	required and absent        → batched "is required"
//	present but not id-shaped  → immediate 400 (never batched)
//	id-shaped but no document  → batched "not found"
//
// The return value reports whether the request was already answered.
type RefResolver struct {
	DB *sql.DB
}

func (r RefResolver) Check(c *gin.Context, errs *validate.Errors, field, table string, value *string, required bool) bool {
	if value == nil || *value == "" {
		if required {
			errs.Add(domain.Required(field))
		}
		return false
	}
	if !validate.IsID(*value) {
		Error(c, domain.MalformedIDError{Field: field, Value: *value})
		return true
	}
	ok, err := repositories.Exists(c.Request.Context(), r.DB, table, *value)
	if err != nil {
		Internal(c, err)
		return true
	}
	if !ok {
		errs.Add(domain.RefNotFound(field, *value))
	}
	return false
}

// idFilter applies an exact-match identifier filter after shape-checking
// it; malformed filter ids fail fast like any other malformed identifier.
func idFilter(c *gin.Context, f *repositories.Filters, col, field, value string) bool {
	if value == "" {
		return false
	}
	if !validate.IsID(value) {
		Error(c, domain.MalformedIDError{Field: field, Value: value})
		return true
	}
	f.Eq(col, value)
	return false
}

// runList executes the shared list flow: count matching documents, resolve
// the pagination window, fetch the page, answer with totalPages.
func runList[T any](
	c *gin.Context,
	pageReq int,
	count func(context.Context) (int, error),
	list func(context.Context, paginate.Window) ([]T, error),
) {
	ctx := c.Request.Context()
	total, err := count(ctx)
	if err != nil {
		Internal(c, err)
		return
	}
	w, totalPages, err := paginate.Resolve(total, pageReq)
	if err != nil {
		FailDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	items, err := list(ctx, w)
	if err != nil {
		Internal(c, err)
		return
	}
	ListOK(c, items, totalPages)
}
