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

type ProviderHandler struct {
	Repo repositories.ProviderRepo
}

type createProviderRequest struct {
	Name    string `json:"name"`
	EmailP1 string `json:"emailP1"`
	EmailP2 string `json:"emailP2"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// POST /api/providers
func (h ProviderHandler) Create(c *gin.Context) {
	var req createProviderRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	errs := validate.NewErrors()
	errs.Require("name", req.Name, validate.ShortText(100))
	errs.Require("emailP1", req.EmailP1, validate.Email)
	errs.Optional("emailP2", &req.EmailP2, validate.Email)
	errs.Optional("phone", &req.Phone, validate.Phone)
	errs.Optional("address", &req.Address, validate.ShortText(200))

	if h.uniqueName(c, errs, req.Name, "") {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	p := domain.Provider{
		ID:      validate.NewID(),
		Name:    req.Name,
		EmailP1: req.EmailP1,
		EmailP2: req.EmailP2,
		Phone:   req.Phone,
		Address: req.Address,
	}
	ctx := c.Request.Context()
	if err := h.Repo.Insert(ctx, p); err != nil {
		Internal(c, err)
		return
	}
	saved, err := h.Repo.GetByID(ctx, p.ID)
	if err != nil {
		Internal(c, err)
		return
	}
	Created(c, saved)
}

type listProvidersRequest struct {
	PageReq int    `json:"pageReq"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// POST /api/providers/all
func (h ProviderHandler) List(c *gin.Context) {
	var req listProvidersRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var f repositories.Filters
	f.Like("name", req.Name)
	f.Like("email_p1", req.Email)
	f.Like("address", req.Address)

	runList(c, req.PageReq,
		func(ctx context.Context) (int, error) { return h.Repo.Count(ctx, f) },
		func(ctx context.Context, w paginate.Window) ([]domain.Provider, error) { return h.Repo.List(ctx, f, w) },
	)
}

// GET /api/providers/:id
func (h ProviderHandler) Get(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	p, err := h.Repo.GetByID(c.Request.Context(), id)
	if err == sql.ErrNoRows {
		NotFoundBody(c)
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}
	OK(c, p)
}

type updateProviderRequest struct {
	Name    *string `json:"name"`
	EmailP1 *string `json:"emailP1"`
	EmailP2 *string `json:"emailP2"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// PUT /api/providers/:id
func (h ProviderHandler) Update(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req updateProviderRequest
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
	errs.RequireOpt("emailP1", req.EmailP1, validate.Email)
	errs.Optional("emailP2", req.EmailP2, validate.Email)
	errs.Optional("phone", req.Phone, validate.Phone)
	errs.Optional("address", req.Address, validate.ShortText(200))

	if req.Name != nil && h.uniqueName(c, errs, *req.Name, id) {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	patch := repositories.ProviderPatch{
		Name:    req.Name,
		EmailP1: req.EmailP1,
		EmailP2: req.EmailP2,
		Phone:   req.Phone,
		Address: req.Address,
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

// DELETE /api/providers/:id
func (h ProviderHandler) Delete(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	p, err := h.Repo.GetByID(ctx, id)
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
	OK(c, p)
}

func (h ProviderHandler) uniqueName(c *gin.Context, errs *validate.Errors, name, selfID string) bool {
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
