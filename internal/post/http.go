// Copyright (c) 2026 Linkup. All rights reserved.

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/chanhlegend/linkup/internal/platform/request"
	"github.com/chanhlegend/linkup/internal/platform/respond"
	"github.com/chanhlegend/linkup/internal/platform/validate"
	"github.com/chanhlegend/linkup/pkg/pagination"
)

// JSON field identifiers used in request validation.
const (
	FieldContent = "content"
	FieldPostID  = "id"
)

// Handler implements the post and feed HTTP endpoints.
type Handler struct {
	postService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{postService: service}
}

// Routes returns a [chi.Router] configured with post routes.
//
// # Endpoints
//   - GET    /feed                 : Public feed (optional auth).
//   - GET    /{id}                 : One post.
//   - GET    /{id}/comments        : A post's comments.
//   - POST   /                     : Publish a post (protected).
//   - DELETE /{id}                 : Delete own post (protected).
//   - POST   /{id}/like            : Like (protected).
//   - DELETE /{id}/like            : Remove like (protected).
//   - POST   /{id}/comments        : Comment (protected).
func (handler *Handler) Routes(requireAuth, optionalAuth func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Public reads. The optional gate attaches a principal when a valid
	// token is presented but never rejects.
	router.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/feed", handler.feed)
		r.Get("/{id}", handler.get)
		r.Get("/{id}/comments", handler.comments)
	})

	// Protected writes
	router.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", handler.create)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/like", handler.like)
		r.Delete("/{id}/like", handler.unlike)
		r.Post("/{id}/comments", handler.comment)
	})

	return router
}

// # Request Payloads

type createPostRequest struct {
	Content string `json:"content"`
}

type createCommentRequest struct {
	Content string `json:"content"`
}

/*
Feed returns a page of the public feed.

GET /api/v1/posts/feed?page=&limit=

Response:
  - 200: []Post with pagination metadata
*/
func (handler *Handler) feed(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	// Anonymous viewers get a neutral feed; authenticated ones see their likes.
	viewerID := ""
	if principal := requestutil.Principal(request); principal != nil {
		viewerID = principal.ID
	}

	posts, meta, err := handler.postService.Feed(request.Context(), viewerID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, meta)
}

/*
Get returns a single post.

GET /api/v1/posts/{id}

Response:
  - 200: Post
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	postID := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.Required(FieldPostID, postID).UUID(FieldPostID, postID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	viewerID := ""
	if principal := requestutil.Principal(request); principal != nil {
		viewerID = principal.ID
	}

	entry, err := handler.postService.Get(request.Context(), postID, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
Create publishes a new post.

POST /api/v1/posts

Request:
  - Body: createPostRequest (Content)

Response:
  - 201: Post: Published entry
  - 400: ErrInvalidJSON: Empty or oversized content
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createPostRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, MaxContentLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.postService.Create(request.Context(), principal.ID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
Delete removes a post owned by the requester (or any post for admins).

DELETE /api/v1/posts/{id}

Response:
  - 204: No Content
  - 403: ErrForbidden: Not the author
  - 404: ErrNotFound
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID := requestutil.Param(request, "id")

	err = handler.postService.Delete(request.Context(), principal.ID, principal.IsAdmin(), postID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Like records a like on a post. Liking twice is harmless.

POST /api/v1/posts/{id}/like

Response:
  - 200: Like state
  - 404: ErrNotFound
*/
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID := requestutil.Param(request, "id")

	liked, err := handler.postService.Like(request.Context(), postID, principal.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"liked": liked})
}

/*
Unlike removes the requester's like from a post.

DELETE /api/v1/posts/{id}/like

Response:
  - 200: Like state
*/
func (handler *Handler) unlike(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID := requestutil.Param(request, "id")

	removed, err := handler.postService.Unlike(request.Context(), postID, principal.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"removed": removed})
}

/*
Comment attaches a comment to a post.

POST /api/v1/posts/{id}/comments

Request:
  - Body: createCommentRequest (Content)

Response:
  - 201: Comment
  - 404: ErrNotFound: Post gone
*/
func (handler *Handler) comment(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID := requestutil.Param(request, "id")

	var input createCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, MaxCommentLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.postService.Comment(request.Context(), postID, principal.ID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
Comments returns a page of a post's comments.

GET /api/v1/posts/{id}/comments?page=&limit=

Response:
  - 200: []Comment with pagination metadata
*/
func (handler *Handler) comments(writer http.ResponseWriter, request *http.Request) {
	postID := requestutil.Param(request, "id")
	params := pagination.FromRequest(request)

	comments, meta, err := handler.postService.Comments(request.Context(), postID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, meta)
}
