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

type ProductHandler struct {
	Repo repositories.ProductRepo
	Refs RefResolver
}

type createProductRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price"`
	Units         *int     `json:"units"`
	ProductFamily *string  `json:"productFamily"`
	Provider      *string  `json:"provider"`
}

// POST /api/products
func (h ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	errs := validate.NewErrors()
	errs.Require("name", req.Name, validate.ShortText(100))
	errs.Optional("description", &req.Description, validate.ShortText(1000))
	errs.FloatMin("price", req.Price, 0)
	errs.IntMin("units", req.Units, 0)

	if h.Refs.Check(c, errs, "productFamily", repositories.TableProductFamilies, req.ProductFamily, true) {
		return
	}
	if h.Refs.Check(c, errs, "provider", repositories.TableProviders, req.Provider, true) {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	p := domain.Product{
		ID:            validate.NewID(),
		Name:          req.Name,
		Description:   req.Description,
		ProductFamily: domain.Ref{ID: *req.ProductFamily},
		Provider:      domain.Ref{ID: *req.Provider},
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Units != nil {
		p.Units = *req.Units
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

type listProductsRequest struct {
	PageReq       int    `json:"pageReq"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ProductFamily string `json:"productFamily"`
	Provider      string `json:"provider"`
}

// POST /api/products/all
func (h ProductHandler) List(c *gin.Context) {
	var req listProductsRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var f repositories.Filters
	f.Like("p.name", req.Name)
	f.Like("p.description", req.Description)
	if idFilter(c, &f, "p.product_family_id", "productFamily", req.ProductFamily) {
		return
	}
	if idFilter(c, &f, "p.provider_id", "provider", req.Provider) {
		return
	}

	runList(c, req.PageReq,
		func(ctx context.Context) (int, error) { return h.Repo.Count(ctx, f) },
		func(ctx context.Context, w paginate.Window) ([]domain.Product, error) { return h.Repo.List(ctx, f, w) },
	)
}

// GET /api/products/:id
func (h ProductHandler) Get(c *gin.Context) {
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

type updateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Units         *int     `json:"units"`
	ProductFamily *string  `json:"productFamily"`
	Provider      *string  `json:"provider"`
}

// PUT /api/products/:id
func (h ProductHandler) Update(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req updateProductRequest
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
	errs.Optional("description", req.Description, validate.ShortText(1000))
	errs.FloatMin("price", req.Price, 0)
	errs.IntMin("units", req.Units, 0)

	if req.ProductFamily != nil && *req.ProductFamily == "" {
		errs.Add(domain.Required("productFamily"))
	} else if h.Refs.Check(c, errs, "productFamily", repositories.TableProductFamilies, req.ProductFamily, false) {
		return
	}
	if req.Provider != nil && *req.Provider == "" {
		errs.Add(domain.Required("provider"))
	} else if h.Refs.Check(c, errs, "provider", repositories.TableProviders, req.Provider, false) {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	patch := repositories.ProductPatch{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Units:         req.Units,
		ProductFamily: req.ProductFamily,
		Provider:      req.Provider,
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

// DELETE /api/products/:id
func (h ProductHandler) Delete(c *gin.Context) {
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
