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

type AuditHandler struct {
	Repo repositories.AuditRepo
	Refs RefResolver
}

type createAuditRequest struct {
	Dealership   *string `json:"dealership"`
	Installation *string `json:"installation"`
	Auditor      string  `json:"auditor"`
	Date         string  `json:"date"`
	Score        *int    `json:"score"`
	Status       *string `json:"status"`
	Comments     string  `json:"comments"`
}

// POST /api/audits
func (h AuditHandler) Create(c *gin.Context) {
	var req createAuditRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	errs := validate.NewErrors()
	errs.Require("auditor", req.Auditor, validate.PersonName)
	errs.Require("date", req.Date, validate.DateISO)
	errs.IntRange("score", req.Score, 0, 100)
	errs.OneOf("status", req.Status, domain.AuditStatuses)
	errs.Optional("comments", &req.Comments, validate.ShortText(1000))

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

	a := domain.Audit{
		ID:         validate.NewID(),
		Dealership: domain.Ref{ID: *req.Dealership},
		Auditor:    req.Auditor,
		Date:       req.Date,
		Status:     domain.AuditStatusPlanned,
		Comments:   req.Comments,
	}
	if req.Installation != nil && *req.Installation != "" {
		a.Installation = &domain.Ref{ID: *req.Installation}
	}
	if req.Score != nil {
		a.Score = *req.Score
	}
	if req.Status != nil && *req.Status != "" {
		a.Status = *req.Status
	}

	ctx := c.Request.Context()
	if err := h.Repo.Insert(ctx, a); err != nil {
		Internal(c, err)
		return
	}
	saved, err := h.Repo.GetByID(ctx, a.ID)
	if err != nil {
		Internal(c, err)
		return
	}
	Created(c, saved)
}

type listAuditsRequest struct {
	PageReq      int    `json:"pageReq"`
	Auditor      string `json:"auditor"`
	Status       string `json:"status"`
	Date         string `json:"date"`
	Dealership   string `json:"dealership"`
	Installation string `json:"installation"`
}

// POST /api/audits/all
func (h AuditHandler) List(c *gin.Context) {
	var req listAuditsRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var f repositories.Filters
	f.Like("a.auditor", req.Auditor)
	f.Like("a.status", req.Status)
	f.Like("a.date", req.Date)
	if idFilter(c, &f, "a.dealership_id", "dealership", req.Dealership) {
		return
	}
	if idFilter(c, &f, "a.installation_id", "installation", req.Installation) {
		return
	}

	runList(c, req.PageReq,
		func(ctx context.Context) (int, error) { return h.Repo.Count(ctx, f) },
		func(ctx context.Context, w paginate.Window) ([]domain.Audit, error) { return h.Repo.List(ctx, f, w) },
	)
}

// GET /api/audits/:id
func (h AuditHandler) Get(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	a, err := h.Repo.GetByID(c.Request.Context(), id)
	if err == sql.ErrNoRows {
		NotFoundBody(c)
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}
	OK(c, a)
}

type updateAuditRequest struct {
	Dealership   *string `json:"dealership"`
	Installation *string `json:"installation"`
	Auditor      *string `json:"auditor"`
	Date         *string `json:"date"`
	Score        *int    `json:"score"`
	Status       *string `json:"status"`
	Comments     *string `json:"comments"`
}

// PUT /api/audits/:id
func (h AuditHandler) Update(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req updateAuditRequest
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
	errs.RequireOpt("auditor", req.Auditor, validate.PersonName)
	errs.RequireOpt("date", req.Date, validate.DateISO)
	errs.IntRange("score", req.Score, 0, 100)
	errs.OneOf("status", req.Status, domain.AuditStatuses)
	errs.Optional("comments", req.Comments, validate.ShortText(1000))

	if req.Dealership != nil && *req.Dealership == "" {
		errs.Add(domain.Required("dealership"))
	} else if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, req.Dealership, false) {
		return
	}
	if req.Installation != nil && *req.Installation != "" {
		if h.Refs.Check(c, errs, "installation", repositories.TableInstallations, req.Installation, false) {
			return
		}
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	patch := repositories.AuditPatch{
		Dealership:   req.Dealership,
		Installation: req.Installation,
		Auditor:      req.Auditor,
		Date:         req.Date,
		Score:        req.Score,
		Status:       req.Status,
		Comments:     req.Comments,
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

// DELETE /api/audits/:id
func (h AuditHandler) Delete(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	a, err := h.Repo.GetByID(ctx, id)
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
	OK(c, a)
}
