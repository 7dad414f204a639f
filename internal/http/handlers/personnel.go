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

type PersonnelHandler struct {
	Repo repositories.PersonnelRepo
	Refs RefResolver
}

type createPersonnelRequest struct {
	Name         string  `json:"name"`
	Surname      string  `json:"surname"`
	DNI          string  `json:"dni"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Position     string  `json:"position"`
	Dealership   *string `json:"dealership"`
	Installation *string `json:"installation"`
}

// POST /api/personnel
func (h PersonnelHandler) Create(c *gin.Context) {
	var req createPersonnelRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	errs := validate.NewErrors()
	errs.Require("name", req.Name, validate.PersonName)
	errs.Require("surname", req.Surname, validate.PersonName)
	errs.Optional("dni", &req.DNI, validate.DNI)
	errs.Optional("email", &req.Email, validate.Email)
	errs.Optional("phone", &req.Phone, validate.Phone)
	errs.Optional("position", &req.Position, validate.ShortText(100))

	if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, req.Dealership, true) {
		return
	}
	if h.Refs.Check(c, errs, "installation", repositories.TableInstallations, req.Installation, false) {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	p := domain.Personnel{
		ID:         validate.NewID(),
		Name:       req.Name,
		Surname:    req.Surname,
		DNI:        req.DNI,
		Email:      req.Email,
		Phone:      req.Phone,
		Position:   req.Position,
		Dealership: domain.Ref{ID: *req.Dealership},
	}
	if req.Installation != nil && *req.Installation != "" {
		p.Installation = &domain.Ref{ID: *req.Installation}
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

type listPersonnelRequest struct {
	PageReq      int    `json:"pageReq"`
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	DNI          string `json:"dni"`
	Position     string `json:"position"`
	Dealership   string `json:"dealership"`
	Installation string `json:"installation"`
}

// POST /api/personnel/all
func (h PersonnelHandler) List(c *gin.Context) {
	var req listPersonnelRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var f repositories.Filters
	f.Like("p.name", req.Name)
	f.Like("p.surname", req.Surname)
	f.Like("p.dni", req.DNI)
	f.Like("p.position", req.Position)
	if idFilter(c, &f, "p.dealership_id", "dealership", req.Dealership) {
		return
	}
	if idFilter(c, &f, "p.installation_id", "installation", req.Installation) {
		return
	}

	runList(c, req.PageReq,
		func(ctx context.Context) (int, error) { return h.Repo.Count(ctx, f) },
		func(ctx context.Context, w paginate.Window) ([]domain.Personnel, error) { return h.Repo.List(ctx, f, w) },
	)
}

// GET /api/personnel/:id
func (h PersonnelHandler) Get(c *gin.Context) {
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

type updatePersonnelRequest struct {
	Name         *string `json:"name"`
	Surname      *string `json:"surname"`
	DNI          *string `json:"dni"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Position     *string `json:"position"`
	Dealership   *string `json:"dealership"`
	Installation *string `json:"installation"`
}

// PUT /api/personnel/:id
func (h PersonnelHandler) Update(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req updatePersonnelRequest
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
	errs.RequireOpt("name", req.Name, validate.PersonName)
	errs.RequireOpt("surname", req.Surname, validate.PersonName)
	errs.Optional("dni", req.DNI, validate.DNI)
	errs.Optional("email", req.Email, validate.Email)
	errs.Optional("phone", req.Phone, validate.Phone)
	errs.Optional("position", req.Position, validate.ShortText(100))

	if req.Dealership != nil && *req.Dealership == "" {
		errs.Add(domain.Required("dealership"))
	} else if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, req.Dealership, false) {
		return
	}
	// empty string detaches the installation
	if req.Installation != nil && *req.Installation != "" {
		if h.Refs.Check(c, errs, "installation", repositories.TableInstallations, req.Installation, false) {
			return
		}
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	patch := repositories.PersonnelPatch{
		Name:         req.Name,
		Surname:      req.Surname,
		DNI:          req.DNI,
		Email:        req.Email,
		Phone:        req.Phone,
		Position:     req.Position,
		Dealership:   req.Dealership,
		Installation: req.Installation,
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

// DELETE /api/personnel/:id
func (h PersonnelHandler) Delete(c *gin.Context) {
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
