package handlers

import (
	"net/http"

	"standards-backend/internal/domain"
	"standards-backend/internal/http/middleware"
	"standards-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// envelope is the uniform success wrapper. Failures use the errors wrapper
// instead; callers distinguish the two by the presence of "errors" vs
// "data", not only by HTTP status.
type envelope struct {
	Code       int    `json:"code"`
	Msg        string `json:"msg"`
	Data       any    `json:"data"`
	TotalPages *int   `json:"totalPages,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Code: 200, Msg: "OK", Data: data})
}

func ListOK(c *gin.Context, data any, totalPages int) {
	c.JSON(http.StatusOK, envelope{Code: 200, Msg: "OK", Data: data, TotalPages: &totalPages})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Code: 201, Msg: "Created", Data: data})
}

// NotFoundBody answers a single-resource GET that resolved to nothing:
// HTTP 200 with an inner code 204 and a null data field. Existing clients
// key off this exact shape, so it is not a 404.
func NotFoundBody(c *gin.Context) {
	c.JSON(http.StatusOK, envelope{Code: 204, Msg: "not found", Data: nil})
}

// Fail sends the batched error envelope.
func Fail(c *gin.Context, status int, entries ...domain.ErrorEntry) {
	c.JSON(status, gin.H{"errors": entries})
}

// FailDetail sends a single-entry error envelope with msg derived from the
// HTTP status.
func FailDetail(c *gin.Context, status int, detail string) {
	Fail(c, status, domain.ErrorEntry{Code: status, Msg: http.StatusText(status), Detail: detail})
}

// Error converts a typed failure into its envelope: malformed identifiers
// fail fast with 400 and are never batched, auth failures answer 401, and
// anything else is treated as an internal failure. Clients never see a bare
// stack trace.
func Error(c *gin.Context, err error) {
	switch {
	case domain.IsMalformedID(err):
		FailDetail(c, http.StatusBadRequest, err.Error())
	case domain.IsAuth(err):
		FailDetail(c, http.StatusUnauthorized, err.Error())
	default:
		if !domain.IsInternal(err) {
			err = domain.InternalError{Err: err}
		}
		utils.LogEvent(middleware.GetRequestID(c), "http", "internal_error", err.Error())
		FailDetail(c, http.StatusInternalServerError, err.Error())
	}
}

// Internal surfaces a store/network failure as the 500 envelope.
func Internal(c *gin.Context, err error) {
	Error(c, domain.InternalError{Err: err})
}
