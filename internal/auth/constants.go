// Copyright (c) 2026 Linkup. All rights reserved.

package auth

import "time"

// OTP challenge policy.
const (
	// OTPLength is the number of digits in a verification code.
	OTPLength = 6

	// OTPTTL is how long a verification code stays valid after issuance.
	OTPTTL = 10 * time.Minute
)

// Password policy.
const (
	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 6
	// PasswordMaxLength caps input before it reaches bcrypt (72-byte limit).
	PasswordMaxLength = 72
)

// Refresh token cookie. The token is also accepted in the request body so
// non-browser clients do not need cookie support.
const (
	RefreshTokenCookieName = "linkup_refresh_token"
	RefreshTokenCookiePath = "/api/v1/auth"
)

// Mail content.
const (
	// VerificationSubject is the subject line of the OTP delivery email.
	VerificationSubject = "Your Linkup verification code"
)

// JSON field identifiers used in request validation and responses.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldFullName     = "full_name"
	FieldCode         = "code"
	FieldRefreshToken = "refresh_token"
	FieldMessage      = "message"
	FieldAccessToken  = "access_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldRequireOTP   = "require_otp"
	FieldUser         = "user"
)
