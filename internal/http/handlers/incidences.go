package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"standards-backend/internal/domain"
	"standards-backend/internal/http/middleware"
	"standards-backend/internal/notify"
	"standards-backend/internal/paginate"
	"standards-backend/internal/repositories"
	"standards-backend/internal/sequence"
	"standards-backend/internal/validate"

	"github.com/gin-gonic/gin"
)

type IncidenceHandler struct {
	Repo        repositories.IncidenceRepo
	Dealerships repositories.DealershipRepo
	Refs        RefResolver
	Numbers     sequence.Generator
	Notifier    *notify.Dispatcher
}

type createIncidenceRequest struct {
	IncidenceType string `json:"incidenceType"`
	Dealership    string `json:"dealership"`
	Installation  string `json:"installation"`
	Description   string `json:"description"`
	State         string `json:"state"`
}

// POST /api/incidences
func (h IncidenceHandler) Create(c *gin.Context) {
	var req createIncidenceRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	errs := validate.NewErrors()
	if h.Refs.Check(c, errs, "incidenceType", repositories.TableIncidenceTypes, &req.IncidenceType, true) {
		return
	}
	if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, &req.Dealership, true) {
		return
	}
	if h.Refs.Check(c, errs, "installation", repositories.TableInstallations, &req.Installation, false) {
		return
	}
	errs.Require("description", req.Description, validate.ShortText(500))
	if req.State == "" {
		req.State = domain.IncidenceStateOpen
	}
	errs.OneOf("state", &req.State, domain.IncidenceStates)
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	ctx := c.Request.Context()
	number, err := h.Numbers.Next(ctx, domain.IncidencePrefix)
	if err != nil {
		Internal(c, err)
		return
	}

	inc := domain.Incidence{
		ID:            validate.NewID(),
		Number:        number,
		IncidenceType: domain.Ref{ID: req.IncidenceType},
		Dealership:    domain.Ref{ID: req.Dealership},
		Description:   req.Description,
		State:         req.State,
	}
	if req.Installation != "" {
		inc.Installation = &domain.Ref{ID: req.Installation}
	}
	if err := h.Repo.Insert(ctx, inc); err != nil {
		Internal(c, err)
		return
	}
	saved, err := h.Repo.GetByID(ctx, inc.ID)
	if err != nil {
		Internal(c, err)
		return
	}
	h.notify(ctx, saved, false)
	Created(c, saved)
}

type listIncidencesRequest struct {
	PageReq       int    `json:"pageReq"`
	Number        string `json:"number"`
	IncidenceType string `json:"incidenceType"`
	Dealership    string `json:"dealership"`
	State         string `json:"state"`
}

// POST /api/incidences/all
//
// Dealership-scoped principals only ever see their own dealership's
// incidences, regardless of the dealership filter they supply.
func (h IncidenceHandler) List(c *gin.Context) {
	var req listIncidencesRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if p, ok := middleware.GetPrincipal(c); ok && p.Role == domain.RoleDealership && p.Dealership != "" {
		req.Dealership = p.Dealership
	}

	var f repositories.Filters
	f.Like("n.number", req.Number)
	f.Like("n.state", req.State)
	if idFilter(c, &f, "n.incidence_type_id", "incidenceType", req.IncidenceType) {
		return
	}
	if idFilter(c, &f, "n.dealership_id", "dealership", req.Dealership) {
		return
	}

	runList(c, req.PageReq,
		func(ctx context.Context) (int, error) { return h.Repo.Count(ctx, f) },
		func(ctx context.Context, w paginate.Window) ([]domain.Incidence, error) { return h.Repo.List(ctx, f, w) },
	)
}

// GET /api/incidences/:id
func (h IncidenceHandler) Get(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	inc, err := h.Repo.GetByID(c.Request.Context(), id)
	if err == sql.ErrNoRows {
		NotFoundBody(c)
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}
	OK(c, inc)
}

type updateIncidenceRequest struct {
	IncidenceType *string `json:"incidenceType"`
	Dealership    *string `json:"dealership"`
	Installation  *string `json:"installation"`
	Description   *string `json:"description"`
	State         *string `json:"state"`
}

// PUT /api/incidences/:id
func (h IncidenceHandler) Update(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req updateIncidenceRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	ctx := c.Request.Context()
	prev, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			NotFoundBody(c)
			return
		}
		Internal(c, err)
		return
	}

	errs := validate.NewErrors()
	if req.IncidenceType != nil && *req.IncidenceType == "" {
		errs.Add(domain.Required("incidenceType"))
	} else if h.Refs.Check(c, errs, "incidenceType", repositories.TableIncidenceTypes, req.IncidenceType, false) {
		return
	}
	if req.Dealership != nil && *req.Dealership == "" {
		errs.Add(domain.Required("dealership"))
	} else if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, req.Dealership, false) {
		return
	}
	// Installation stays detachable: an explicit empty string clears it.
	if req.Installation != nil && *req.Installation != "" {
		if h.Refs.Check(c, errs, "installation", repositories.TableInstallations, req.Installation, false) {
			return
		}
	}
	errs.RequireOpt("description", req.Description, validate.ShortText(500))
	if req.State != nil && *req.State == "" {
		errs.Add(domain.Required("state"))
	}
	errs.OneOf("state", req.State, domain.IncidenceStates)
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	patch := repositories.IncidencePatch{
		IncidenceType: req.IncidenceType,
		Dealership:    req.Dealership,
		Installation:  req.Installation,
		Description:   req.Description,
		State:         req.State,
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
	if prev.State != domain.IncidenceStateCancelled && saved.State == domain.IncidenceStateCancelled {
		h.notify(ctx, saved, true)
	}
	Created(c, saved)
}

// DELETE /api/incidences/:id
func (h IncidenceHandler) Delete(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	inc, err := h.Repo.GetByID(ctx, id)
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
	OK(c, inc)
}

func (h IncidenceHandler) notify(ctx context.Context, inc domain.Incidence, cancelled bool) {
	if h.Notifier == nil {
		return
	}
	var dealershipEmail string
	if d, err := h.Dealerships.GetByID(ctx, inc.Dealership.ID); err == nil {
		dealershipEmail = d.Email
	}
	if cancelled {
		h.Notifier.IncidenceCancelled(inc, dealershipEmail)
	} else {
		h.Notifier.IncidenceCreated(inc, dealershipEmail)
	}
}
