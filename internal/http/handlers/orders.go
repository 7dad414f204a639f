package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"standards-backend/internal/domain"
	"standards-backend/internal/http/middleware"
	"standards-backend/internal/notify"
	"standards-backend/internal/paginate"
	"standards-backend/internal/reports"
	"standards-backend/internal/repositories"
	"standards-backend/internal/sequence"
	"standards-backend/internal/validate"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Repo        repositories.OrderRepo
	Dealerships repositories.DealershipRepo
	Providers   repositories.ProviderRepo
	Refs        RefResolver
	Numbers     sequence.Generator
	Notifier    *notify.Dispatcher
}

type orderLineRequest struct {
	Product string `json:"product"`
	Units   int    `json:"units"`
}

type createOrderRequest struct {
	Dealership string             `json:"dealership"`
	Provider   string             `json:"provider"`
	Lines      []orderLineRequest `json:"lines"`
	Address    string             `json:"address"`
	State      string             `json:"state"`
}

// POST /api/orders
func (h OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	errs := validate.NewErrors()
	if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, &req.Dealership, true) {
		return
	}
	if h.Refs.Check(c, errs, "provider", repositories.TableProviders, &req.Provider, true) {
		return
	}
	lines, answered := h.checkLines(c, errs, req.Lines, true)
	if answered {
		return
	}
	if req.State == "" {
		req.State = domain.OrderStatePending
	}
	errs.OneOf("state", &req.State, domain.OrderStates)
	errs.Optional("address", &req.Address, validate.ShortText(200))
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	ctx := c.Request.Context()
	number, err := h.Numbers.Next(ctx, domain.OrderPrefix)
	if err != nil {
		Internal(c, err)
		return
	}

	o := domain.Order{
		ID:         validate.NewID(),
		Number:     number,
		Dealership: domain.Ref{ID: req.Dealership},
		Provider:   domain.Ref{ID: req.Provider},
		Lines:      lines,
		Address:    req.Address,
		State:      req.State,
	}
	if err := h.Repo.Insert(ctx, o); err != nil {
		Internal(c, err)
		return
	}
	saved, err := h.Repo.GetByID(ctx, o.ID)
	if err != nil {
		Internal(c, err)
		return
	}
	h.notifyCreated(ctx, saved)
	Created(c, saved)
}

type listOrdersRequest struct {
	PageReq    int    `json:"pageReq"`
	Number     string `json:"number"`
	Dealership string `json:"dealership"`
	Provider   string `json:"provider"`
	State      string `json:"state"`
}

// POST /api/orders/all
//
// Dealership-scoped principals only ever see their own dealership's orders:
// whatever dealership filter they supply is overridden with their own.
func (h OrderHandler) List(c *gin.Context) {
	var req listOrdersRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if p, ok := middleware.GetPrincipal(c); ok && p.Role == domain.RoleDealership && p.Dealership != "" {
		req.Dealership = p.Dealership
	}

	var f repositories.Filters
	f.Like("o.number", req.Number)
	f.Like("o.state", req.State)
	if idFilter(c, &f, "o.dealership_id", "dealership", req.Dealership) {
		return
	}
	if idFilter(c, &f, "o.provider_id", "provider", req.Provider) {
		return
	}

	runList(c, req.PageReq,
		func(ctx context.Context) (int, error) { return h.Repo.Count(ctx, f) },
		func(ctx context.Context, w paginate.Window) ([]domain.Order, error) { return h.Repo.List(ctx, f, w) },
	)
}

// GET /api/orders/:id
func (h OrderHandler) Get(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	o, err := h.Repo.GetByID(c.Request.Context(), id)
	if err == sql.ErrNoRows {
		NotFoundBody(c)
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}
	OK(c, o)
}

type updateOrderRequest struct {
	Dealership *string            `json:"dealership"`
	Provider   *string            `json:"provider"`
	Lines      []orderLineRequest `json:"lines"`
	Address    *string            `json:"address"`
	State      *string            `json:"state"`
}

// PUT /api/orders/:id
func (h OrderHandler) Update(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req updateOrderRequest
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
	if req.Dealership != nil && *req.Dealership == "" {
		errs.Add(domain.Required("dealership"))
	} else if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, req.Dealership, false) {
		return
	}
	if req.Provider != nil && *req.Provider == "" {
		errs.Add(domain.Required("provider"))
	} else if h.Refs.Check(c, errs, "provider", repositories.TableProviders, req.Provider, false) {
		return
	}
	var lines []domain.OrderLine
	if req.Lines != nil {
		var answered bool
		lines, answered = h.checkLines(c, errs, req.Lines, true)
		if answered {
			return
		}
	}
	if req.State != nil && *req.State == "" {
		errs.Add(domain.Required("state"))
	}
	errs.OneOf("state", req.State, domain.OrderStates)
	errs.Optional("address", req.Address, validate.ShortText(200))
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	patch := repositories.OrderPatch{
		Dealership: req.Dealership,
		Provider:   req.Provider,
		Lines:      lines,
		Address:    req.Address,
		State:      req.State,
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
	if prev.State != domain.OrderStateCancelled && saved.State == domain.OrderStateCancelled {
		h.notifyCancelled(ctx, saved)
	}
	Created(c, saved)
}

// GET /api/orders/:id/sheet
func (h OrderHandler) Sheet(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	o, err := h.Repo.GetByID(c.Request.Context(), id)
	if err == sql.ErrNoRows {
		NotFoundBody(c)
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}
	raw, filename, err := reports.OrderSheet(o)
	if err != nil {
		Internal(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}

// DELETE /api/orders/:id
func (h OrderHandler) Delete(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	o, err := h.Repo.GetByID(ctx, id)
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
	OK(c, o)
}

// checkLines validates the line set: at least one line when required, each
// product an existing document, each units count strictly positive.
func (h OrderHandler) checkLines(c *gin.Context, errs *validate.Errors, reqLines []orderLineRequest, required bool) ([]domain.OrderLine, bool) {
	if len(reqLines) == 0 {
		if required {
			errs.Add(domain.Required("lines"))
		}
		return nil, false
	}
	lines := make([]domain.OrderLine, 0, len(reqLines))
	for i, l := range reqLines {
		product := l.Product
		if h.Refs.Check(c, errs, "lines.product", repositories.TableProducts, &product, true) {
			return nil, true
		}
		if l.Units <= 0 {
			errs.Addf("lines[%d].units must be greater than 0", i)
		}
		lines = append(lines, domain.OrderLine{Product: domain.Ref{ID: product}, Units: l.Units})
	}
	return lines, false
}

func (h OrderHandler) notifyCreated(ctx context.Context, o domain.Order) {
	if h.Notifier == nil {
		return
	}
	dealership, providers := h.contacts(ctx, o)
	h.Notifier.OrderCreated(o, dealership, providers)
}

func (h OrderHandler) notifyCancelled(ctx context.Context, o domain.Order) {
	if h.Notifier == nil {
		return
	}
	dealership, providers := h.contacts(ctx, o)
	h.Notifier.OrderCancelled(o, dealership, providers)
}

// contacts collects recipient addresses. Lookup failures degrade to fewer
// recipients; they never fail the request that triggered the notification.
func (h OrderHandler) contacts(ctx context.Context, o domain.Order) (string, []string) {
	var dealershipEmail string
	if d, err := h.Dealerships.GetByID(ctx, o.Dealership.ID); err == nil {
		dealershipEmail = d.Email
	}
	var providerEmails []string
	if p, err := h.Providers.GetByID(ctx, o.Provider.ID); err == nil {
		providerEmails = append(providerEmails, p.EmailP1)
		if p.EmailP2 != "" {
			providerEmails = append(providerEmails, p.EmailP2)
		}
	}
	return dealershipEmail, providerEmails
}
