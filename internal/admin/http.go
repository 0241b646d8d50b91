// Copyright (c) 2026 Linkup. All rights reserved.

/*
Package admin exposes the administrative HTTP surface.

It covers member oversight: listing accounts and applying lifecycle status
transitions (banning, reinstating). Every route requires an authenticated
principal holding the admin role.
*/
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chanhlegend/linkup/internal/account"
	requestutil "github.com/chanhlegend/linkup/internal/platform/request"
	"github.com/chanhlegend/linkup/internal/platform/respond"
	"github.com/chanhlegend/linkup/internal/platform/validate"
	"github.com/chanhlegend/linkup/pkg/pagination"
)

// JSON field identifiers used in request validation.
const (
	FieldStatus    = "status"
	FieldAccountID = "id"
)

// Handler implements the administrative endpoints.
type Handler struct {
	accountService *account.Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *account.Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the administrative routes.
//
// The caller mounts this router behind both the authentication gate and the
// admin role check.
//
// # Endpoints
//   - GET   /users              : Lists accounts (paginated).
//   - GET   /users/{id}         : Returns one account.
//   - PATCH /users/{id}/status  : Applies a lifecycle transition.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/users", handler.listUsers)
	router.Get("/users/{id}", handler.getUser)
	router.Patch("/users/{id}/status", handler.setUserStatus)

	return router
}

type setStatusRequest struct {
	Status string `json:"status"`
}

/*
ListUsers returns a page of accounts for oversight.

GET /api/v1/admin/users?page=&limit=

Response:
  - 200: []Account with pagination metadata
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	accounts, meta, err := handler.accountService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, meta)
}

/*
GetUser returns a single account by ID.

GET /api/v1/admin/users/{id}

Response:
  - 200: Account
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	accountID := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.Required(FieldAccountID, accountID).UUID(FieldAccountID, accountID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.accountService.GetByID(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
SetUserStatus applies an administrative lifecycle transition.

PATCH /api/v1/admin/users/{id}/status

Description: Bans or reinstates an account. Banning revokes the target's
active session immediately.

Request:
  - Body: setStatusRequest (Status: active | banned)

Response:
  - 200: Account: Updated account
  - 400: ErrInvalidJSON: Unknown status value
  - 403: ErrForbidden: Self-targeting or missing admin role
  - 404: ErrNotFound: No such account
*/
func (handler *Handler) setUserStatus(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID := requestutil.Param(request, "id")

	var input setStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Administrators only move accounts between active and banned;
	// unverified is reachable solely through registration.
	validator := &validate.Validator{}
	validator.Required(FieldAccountID, accountID).
		UUID(FieldAccountID, accountID).
		Required(FieldStatus, input.Status).
		OneOf(FieldStatus, input.Status, string(account.StatusActive), string(account.StatusBanned))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.accountService.SetStatus(
		request.Context(),
		principal.ID,
		accountID,
		account.Status(input.Status),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
