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
	"golang.org/x/crypto/bcrypt"
)

type AdminHandler struct {
	Repo   repositories.AdminRepo
	Refs   RefResolver
	Secret []byte
}

type createAdminRequest struct {
	Name       string  `json:"name"`
	Surname    string  `json:"surname"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       *string `json:"role"`
	Dealership *string `json:"dealership"`
}

// POST /api/admins
func (h AdminHandler) Create(c *gin.Context) {
	var req createAdminRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	errs := validate.NewErrors()
	errs.Require("name", req.Name, validate.PersonName)
	errs.Require("surname", req.Surname, validate.PersonName)
	errs.Require("username", req.Username, validate.Username)
	errs.Require("email", req.Email, validate.Email)
	errs.Password("password", &req.Password, true)

	if h.Refs.Check(c, errs, "role", repositories.TableRoles, req.Role, true) {
		return
	}
	if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, req.Dealership, false) {
		return
	}
	if h.uniqueEmail(c, errs, req.Email, "") || h.uniqueUsername(c, errs, req.Username, "") {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		Internal(c, err)
		return
	}

	admin := domain.Admin{
		ID:       validate.NewID(),
		Name:     req.Name,
		Surname:  req.Surname,
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Role:     domain.Ref{ID: *req.Role},
	}
	if req.Dealership != nil && *req.Dealership != "" {
		admin.Dealership = &domain.Ref{ID: *req.Dealership}
	}

	ctx := c.Request.Context()
	if err := h.Repo.Insert(ctx, admin); err != nil {
		Internal(c, err)
		return
	}
	saved, err := h.Repo.GetByID(ctx, admin.ID)
	if err != nil {
		Internal(c, err)
		return
	}

	token, err := mintToken(h.Secret, saved)
	if err != nil {
		Internal(c, err)
		return
	}
	setTokenCookie(c, token)
	Created(c, gin.H{"admin": saved, "token": token})
}

type listAdminsRequest struct {
	PageReq    int    `json:"pageReq"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Dealership string `json:"dealership"`
}

// POST /api/admins/all
func (h AdminHandler) List(c *gin.Context) {
	var req listAdminsRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var f repositories.Filters
	f.Like("a.name", req.Name)
	f.Like("a.surname", req.Surname)
	f.Like("a.username", req.Username)
	f.Like("a.email", req.Email)
	if idFilter(c, &f, "a.role_id", "role", req.Role) {
		return
	}
	if idFilter(c, &f, "a.dealership_id", "dealership", req.Dealership) {
		return
	}

	runList(c, req.PageReq,
		func(ctx context.Context) (int, error) { return h.Repo.Count(ctx, f) },
		func(ctx context.Context, w paginate.Window) ([]domain.Admin, error) { return h.Repo.List(ctx, f, w) },
	)
}

// GET /api/admins/:id
func (h AdminHandler) Get(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	admin, err := h.Repo.GetByID(c.Request.Context(), id)
	if err == sql.ErrNoRows {
		NotFoundBody(c)
		return
	}
	if err != nil {
		Internal(c, err)
		return
	}
	OK(c, admin)
}

type updateAdminRequest struct {
	Name       *string `json:"name"`
	Surname    *string `json:"surname"`
	Username   *string `json:"username"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	Role       *string `json:"role"`
	Dealership *string `json:"dealership"`
}

// PUT /api/admins/:id applies a partial update: absent fields stay unchanged.
func (h AdminHandler) Update(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	var req updateAdminRequest
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
	errs.RequireOpt("username", req.Username, validate.Username)
	errs.RequireOpt("email", req.Email, validate.Email)
	errs.Password("password", req.Password, false)

	if h.Refs.Check(c, errs, "role", repositories.TableRoles, req.Role, false) {
		return
	}
	// empty string detaches the dealership scope
	if req.Dealership != nil && *req.Dealership != "" {
		if h.Refs.Check(c, errs, "dealership", repositories.TableDealerships, req.Dealership, false) {
			return
		}
	}
	if req.Email != nil && h.uniqueEmail(c, errs, *req.Email, id) {
		return
	}
	if req.Username != nil && h.uniqueUsername(c, errs, *req.Username, id) {
		return
	}
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	patch := repositories.AdminPatch{
		Name:       req.Name,
		Surname:    req.Surname,
		Username:   req.Username,
		Email:      req.Email,
		Role:       req.Role,
		Dealership: req.Dealership,
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			Internal(c, err)
			return
		}
		hashed := string(hash)
		patch.Password = &hashed
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

	token, err := mintToken(h.Secret, saved)
	if err != nil {
		Internal(c, err)
		return
	}
	setTokenCookie(c, token)
	Created(c, gin.H{"admin": saved, "token": token})
}

// DELETE /api/admins/:id
func (h AdminHandler) Delete(c *gin.Context) {
	id, ok := IDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	admin, err := h.Repo.GetByID(ctx, id)
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
	OK(c, admin)
}

// uniqueEmail batches a duplicate-email error unless the match is the
// document being updated. Returns true when the request was answered.
func (h AdminHandler) uniqueEmail(c *gin.Context, errs *validate.Errors, email, selfID string) bool {
	if email == "" {
		return false
	}
	found, err := h.Repo.FindIDByEmailCI(c.Request.Context(), email)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		Internal(c, err)
		return true
	}
	if found != selfID {
		errs.Add(domain.Duplicate("email", email))
	}
	return false
}

func (h AdminHandler) uniqueUsername(c *gin.Context, errs *validate.Errors, username, selfID string) bool {
	if username == "" {
		return false
	}
	found, err := h.Repo.FindIDByUsernameCI(c.Request.Context(), username)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		Internal(c, err)
		return true
	}
	if found != selfID {
		errs.Add(domain.Duplicate("username", username))
	}
	return false
}
