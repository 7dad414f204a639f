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

type InstallationHandler struct {
	Repo repositories.InstallationRepo
	Refs RefResolver
}

type createInstallationRequest struct {
	Name       string   `json:"name"`
	Dealership *string  `json:"dealership"`
	Type       string   `json:"type"`
	Address    string   `json:"address"`
	Surface    *float64 `json:"surface"`
}

// POST /api/installations
func (h InstallationHandler) Create(c *gin.Context) {
	var req createInstallationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	errs := validate.NewErrors()
	errs.Require("name", req.Name, validate.ShortText(100))
	errs.Optional("type", &req.Type, validate.ShortText(100))
	errs.Optional("address", &req.Address, validate.ShortText(200))
	errs.FloatMin("surface", req.Surface, 0)

	if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, req.Dealership, true) {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	i := domain.Installation{
		ID:         validate.NewID(),
		Name:       req.Name,
		Dealership: domain.Ref{ID: *req.Dealership},
		Type:       req.Type,
		Address:    req.Address,
	}
	if req.Surface != nil {
		i.Surface = *req.Surface
	}
	ctx := c.Request.Context()
	if err := h.Repo.Insert(ctx, i); err != nil {
		Internal(c, err)
		return
	}
	saved, err := h.Repo.GetByID(ctx, i.ID)
	if err != nil {
		Internal(c, err)
		return
	}
	Created(c, saved)
}

type listInstallationsRequest struct {
	PageReq    int    `json:"pageReq"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Dealership string `json:"dealership"`
}

// POST /api/installations/all
func (h InstallationHandler) List(c *gin.Context) {
	var req listInstallationsRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var f repositories.Filters
	f.Like("i.name", req.Name)
	f.Like("i.type", req.Type)
	if idFilter(c, &f, "i.dealership_id", "dealership", req.Dealership) {
		return
	}

	runList(c, req.PageReq,
		func(ctx context.Context) (int, error) { return h.Repo.Count(ctx, f) },
		func(ctx context.Context, w paginate.Window) ([]domain.Installation, error) { return h.Repo.List(ctx, f, w) },
	)
}

// GET /api/installations/:id
func (h InstallationHandler) Get(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	i, err := h.Repo.GetByID(c.Request.Context(), id)
	if err == sql.ErrNoRows {
		NotFoundBody(c)
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}
	OK(c, i)
}

type updateInstallationRequest struct {
	Name       *string  `json:"name"`
	Dealership *string  `json:"dealership"`
	Type       *string  `json:"type"`
	Address    *string  `json:"address"`
	Surface    *float64 `json:"surface"`
}

// PUT /api/installations/:id
func (h InstallationHandler) Update(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req updateInstallationRequest
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
	errs.RequireOpt("name", req.Name, validate.ShortText(100))
	errs.Optional("type", req.Type, validate.ShortText(100))
	errs.Optional("address", req.Address, validate.ShortText(200))
	errs.FloatMin("surface", req.Surface, 0)

	if req.Dealership != nil && *req.Dealership == "" {
		errs.Add(domain.Required("dealership"))
	} else if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, req.Dealership, false) {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	patch := repositories.InstallationPatch{
		Name:       req.Name,
		Dealership: req.Dealership,
		Type:       req.Type,
		Address:    req.Address,
		Surface:    req.Surface,
	}
	if err := h.Repo.Update(ctx, id, patch); err != nil {
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

// DELETE /api/installations/:id
func (h InstallationHandler) Delete(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	i, err := h.Repo.GetByID(ctx, id)
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
	OK(c, i)
}
