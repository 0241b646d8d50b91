// Copyright (c) 2026 Linkup. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/chanhlegend/linkup/internal/platform/request"
	"github.com/chanhlegend/linkup/internal/platform/respond"
	"github.com/chanhlegend/linkup/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// This handler manages the session lifecycle entry points (Registration,
// Verification, Login, Refresh, Logout). Profile reads live with the
// account handler.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register   : Creates a new unverified account.
//   - POST /verify-otp : Activates an account with an emailed code.
//   - POST /resend-otp : Re-issues a verification code.
//   - POST /login      : Authenticates and returns a token pair.
//   - POST /refresh    : Exchanges a refresh token for an access token.
//   - POST /logout     : Revokes the active session (protected).
//   - GET  /me         : Returns the authenticated profile (protected).
//   - GET  /me/token   : Confirms the presented token still authorizes (protected).
func (handler *Handler) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/verify-otp", handler.verifyOTP)
	router.Post("/resend-otp", handler.resendOTP)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/me", handler.profile)
		r.Get("/me/token", handler.verifyToken)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/*
Register handles the creation of a new account.

POST /api/v1/auth/register

Description: Validates input, creates an unverified account, and emails a
verification code. Fails atomically if the code cannot be delivered.

Request:
  - Body: registerRequest (Email, Password, FullName)

Response:
  - 201: Account: Created account profile (unverified)
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
  - 502: NotificationFailure: Verification email could not be delivered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		MaxLen(FieldPassword, input.Password, PasswordMaxLength).
		Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
VerifyOTP activates an account using an emailed verification code.

POST /api/v1/auth/verify-otp

Request:
  - Body: verifyOTPRequest (Email, Code)

Response:
  - 200: Account: Activated account profile
  - 400: ErrInvalidOTP: Code mismatch or expired
  - 404: ErrNotFound: No account for this email
*/
func (handler *Handler) verifyOTP(writer http.ResponseWriter, request *http.Request) {
	var input verifyOTPRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldCode, input.Code).
		Digits(FieldCode, input.Code, OTPLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	verified, err := handler.authService.VerifyOTP(request.Context(), input.Email, input.Code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, verified)
}

/*
ResendOTP re-issues a verification code for an account.

POST /api/v1/auth/resend-otp

Request:
  - Body: resendOTPRequest (Email)

Response:
  - 200: Success: Code re-sent
  - 404: ErrNotFound: No account for this email
  - 502: NotificationFailure: Email could not be delivered
*/
func (handler *Handler) resendOTP(writer http.ResponseWriter, request *http.Request) {
	var input resendOTPRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResendOTP(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "A new verification code has been sent",
	})
}

/*
Login authenticates an account and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials and returns a token pair. Unverified
accounts receive a 403 verification-required signal with a fresh code
already on its way — the client should redirect to OTP entry, not treat
this as a login failure.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Token pair and account profile
  - 401: ErrInvalidCredentials: Password mismatch
  - 403: VerificationRequired / ErrBanned
  - 404: ErrNotFound: No account for this email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Guided retry for unverified accounts: not a session, not an error.
	if result.VerificationRequired {
		respond.JSON(writer, http.StatusForbidden, respond.SuccessEnvelope{Data: map[string]any{
			FieldRequireOTP: true,
			FieldEmail:      result.Email,
			FieldMessage:    "Account not verified. A verification code has been sent to your email.",
		}})
		return
	}

	// Mirror the refresh token into a hardened cookie for browser clients.
	http.SetCookie(writer, &http.Cookie{
		Name:     RefreshTokenCookieName,
		Value:    result.Tokens.RefreshToken,
		Path:     RefreshTokenCookiePath,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{
		FieldAccessToken:  result.Tokens.AccessToken,
		FieldRefreshToken: result.Tokens.RefreshToken,
		FieldTokenType:    "Bearer",
		FieldExpiresIn:    int64(handler.authService.AccessTTL() / time.Second),
		FieldUser:         result.Account,
	})
}

/*
Refresh issues a new access token from a valid refresh token.

POST /api/v1/auth/refresh

Description: Accepts the refresh token from the JSON body, falling back to
the session cookie. The refresh token itself is not rotated.

Response:
  - 200: RefreshResponse: New access token
  - 400: ErrMissingToken: No token in body or cookie
  - 401: ErrInvalidToken: Signature/expiry failure or revoked token
  - 403: ErrNotActive: Account banned or no longer active
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	// Body decode failures are tolerated here: cookie-only clients send no body.
	_ = requestutil.DecodeJSON(request, &input)

	refreshToken := input.RefreshToken
	if refreshToken == "" {
		if cookie, err := request.Cookie(RefreshTokenCookieName); err == nil {
			refreshToken = cookie.Value
		}
	}

	accessToken, err := handler.authService.Refresh(request.Context(), refreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: accessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int64(handler.authService.AccessTTL() / time.Second),
	})
}

/*
Logout revokes the authenticated account's session.

POST /api/v1/auth/logout

Description: Clears the stored refresh token and expires the session
cookie. Idempotent: logging out twice succeeds.

Response:
  - 204: No Content: Session revoked
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), principal.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     RefreshTokenCookieName,
		Value:    "",
		Path:     RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
Profile returns the authenticated account.

GET /api/v1/auth/me

Description: Pure projection of the principal the authentication gate
already resolved; no additional lookup is performed.

Response:
  - 200: Account: Sanitized profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, principal)
}

/*
VerifyToken confirms the presented access token still authorizes requests.

GET /api/v1/auth/me/token

Description: Reaching this handler means the gate already verified the
token and the account's status, so the response simply reflects that.

Response:
  - 200: Confirmation with the resolved account
  - 401: ErrUnauthorized: Token invalid or account inaccessible
*/
func (handler *Handler) verifyToken(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"valid":   true,
		FieldUser: principal,
	})
}
