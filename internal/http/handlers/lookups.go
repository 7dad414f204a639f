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

// LookupHandler serves the three id+name collections (roles, incidence
// types, product families) with one implementation per collection instance.
type LookupHandler struct {
	Repo repositories.LookupRepo
}

type lookupRequest struct {
	Name string `json:"name"`
}

// POST /api/<lookup>
func (h LookupHandler) Create(c *gin.Context) {
	var req lookupRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	errs := validate.NewErrors()
	errs.Require("name", req.Name, validate.ShortText(50))
	if h.uniqueName(c, errs, req.Name, "") {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	l := domain.Lookup{ID: validate.NewID(), Name: req.Name}
	ctx := c.Request.Context()
	if err := h.Repo.Insert(ctx, l); err != nil {
		Internal(c, err)
		return
	}
	saved, err := h.Repo.GetByID(ctx, l.ID)
	if err != nil {
		Internal(c, err)
		return
	}
	Created(c, saved)
}

type listLookupsRequest struct {
	PageReq int    `json:"pageReq"`
	Name    string `json:"name"`
}

// POST /api/<lookup>/all
func (h LookupHandler) List(c *gin.Context) {
	var req listLookupsRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var f repositories.Filters
	f.Like("name", req.Name)

	runList(c, req.PageReq,
		func(ctx context.Context) (int, error) { return h.Repo.Count(ctx, f) },
		func(ctx context.Context, w paginate.Window) ([]domain.Lookup, error) { return h.Repo.List(ctx, f, w) },
	)
}

// GET /api/<lookup>/:id
func (h LookupHandler) Get(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	l, err := h.Repo.GetByID(c.Request.Context(), id)
	if err == sql.ErrNoRows {
		NotFoundBody(c)
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}
	OK(c, l)
}

// PUT /api/<lookup>/:id
func (h LookupHandler) Update(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req lookupRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Repo.GetByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			NotFoundBody(c)
			return
		}
		Internal(c, err)
		return
	}

	errs := validate.NewErrors()
	errs.Require("name", req.Name, validate.ShortText(50))
	if h.uniqueName(c, errs, req.Name, id) {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	if err := h.Repo.Update(ctx, id, req.Name); err != nil {
		Internal(c, err)
		return
	}
	saved, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		Internal(c, err)
		return
	}
	Created(c, saved)
}

// DELETE /api/<lookup>/:id
func (h LookupHandler) Delete(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	l, err := h.Repo.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		NotFoundBody(c)
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}
	if _, err := h.Repo.Delete(ctx, id); err != nil {
		Internal(c, err)
		return
	}
	OK(c, l)
}

func (h LookupHandler) uniqueName(c *gin.Context, errs *validate.Errors, name, selfID string) bool {
	if name == "" {
		return false
	}
	found, err := h.Repo.FindIDByNameCI(c.Request.Context(), name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		Internal(c, err)
		return true
	}
	if found != selfID {
		errs.Add(domain.Duplicate("name", name))
	}
	return false
}
