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

type DealershipHandler struct {
	Repo repositories.DealershipRepo
}

type createDealershipRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// POST /api/dealerships
func (h DealershipHandler) Create(c *gin.Context) {
	var req createDealershipRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	errs := validate.NewErrors()
	errs.Require("name", req.Name, validate.ShortText(100))
	errs.Optional("address", &req.Address, validate.ShortText(200))
	errs.Optional("city", &req.City, validate.ShortText(100))
	errs.Optional("province", &req.Province, validate.ShortText(100))
	errs.Optional("postalCode", &req.PostalCode, validate.PostalCode)
	errs.Optional("email", &req.Email, validate.Email)
	errs.Optional("phone", &req.Phone, validate.Phone)

	if h.uniqueName(c, errs, req.Name, "") {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	d := domain.Dealership{
		ID:         validate.NewID(),
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		Email:      req.Email,
		Phone:      req.Phone,
	}
	ctx := c.Request.Context()
	if err := h.Repo.Insert(ctx, d); err != nil {
		Internal(c, err)
		return
	}
	saved, err := h.Repo.GetByID(ctx, d.ID)
	if err != nil {
		Internal(c, err)
		return
	}
	Created(c, saved)
}

type listDealershipsRequest struct {
	PageReq  int    `json:"pageReq"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Province string `json:"province"`
}

// POST /api/dealerships/all
func (h DealershipHandler) List(c *gin.Context) {
	var req listDealershipsRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var f repositories.Filters
	f.Like("name", req.Name)
	f.Like("city", req.City)
	f.Like("province", req.Province)

	runList(c, req.PageReq,
		func(ctx context.Context) (int, error) { return h.Repo.Count(ctx, f) },
		func(ctx context.Context, w paginate.Window) ([]domain.Dealership, error) { return h.Repo.List(ctx, f, w) },
	)
}

// GET /api/dealerships/:id
func (h DealershipHandler) Get(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	d, err := h.Repo.GetByID(c.Request.Context(), id)
	if err == sql.ErrNoRows {
		NotFoundBody(c)
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}
	OK(c, d)
}

type updateDealershipRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Province   *string `json:"province"`
	PostalCode *string `json:"postalCode"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
}

// PUT /api/dealerships/:id
func (h DealershipHandler) Update(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req updateDealershipRequest
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
	errs.Optional("address", req.Address, validate.ShortText(200))
	errs.Optional("city", req.City, validate.ShortText(100))
	errs.Optional("province", req.Province, validate.ShortText(100))
	errs.Optional("postalCode", req.PostalCode, validate.PostalCode)
	errs.Optional("email", req.Email, validate.Email)
	errs.Optional("phone", req.Phone, validate.Phone)

	if req.Name != nil && h.uniqueName(c, errs, *req.Name, id) {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	patch := repositories.DealershipPatch{
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		Email:      req.Email,
		Phone:      req.Phone,
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

// DELETE /api/dealerships/:id
func (h DealershipHandler) Delete(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	d, err := h.Repo.GetByID(ctx, id)
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
	OK(c, d)
}

func (h DealershipHandler) uniqueName(c *gin.Context, errs *validate.Errors, name, selfID string) bool {
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
