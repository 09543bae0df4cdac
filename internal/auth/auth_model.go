package auth

import (
	"time"
)

// Operator is one row of the 'operators' table.
// Operators are provisioned by the DBA; there is no self-registration.
type Operator struct {
	ID          uint64     `json:"id" db:"id"`                       // bigint UNSIGNED
	UserName    string     `json:"user_name" db:"user_name"`         // varchar(100), pre-fills updated_by
	Email       string     `json:"email" db:"email"`                 // varchar(150), unique
	OtpCode     *string    `json:"otp_code" db:"otp_code"`           // varchar(64) NULL, TOTP secret
	VerifyYn    bool       `json:"verify_yn" db:"verify_yn"`         // tinyint(1)
	LastLoginDt *time.Time `json:"last_login_dt" db:"last_login_dt"` // datetime NULL
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Session keys shared with the middleware.
const (
	SessionKeyEmail    = "logged_in_email"
	SessionKeyUserID   = "user_id"
	SessionKeyUserName = "user_name"

	sessionKeySetupEmail  = "otp_setup_email"
	sessionKeySetupSecret = "otp_setup_secret"
	sessionKeyVerifyEmail = "otp_verify_email"
)
