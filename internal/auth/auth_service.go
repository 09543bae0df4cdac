package auth

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	log "github.com/sirupsen/logrus"
)

// LoginStatus is the branch a login attempt takes.
type LoginStatus int

const (
	StatusUserNotFound        LoginStatus = iota // unknown email
	StatusPendingVerification                    // provisioned but not enabled yet
	StatusRequiresOtpSetup                       // first login, no TOTP secret yet
	StatusRequiresOtp                            // regular login
)

const otpIssuer = "Channel Master"

// OperatorStore is implemented by *Store.
type OperatorStore interface {
	GetOperatorByEmail(email string) (*Operator, error)
	UpdateOperatorOTP(email string, otpSecret string) error
	TouchLastLogin(id uint64) error
}

type Service struct {
	store OperatorStore
	now   func() time.Time
}

func NewService(store OperatorStore) *Service {
	return &Service{store: store, now: time.Now}
}

// CheckLoginStatus decides where a login attempt for email goes next.
func (s *Service) CheckLoginStatus(email string) (LoginStatus, *Operator, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	op, err := s.store.GetOperatorByEmail(email)
	if err != nil {
		return StatusUserNotFound, nil, err
	}
	if op == nil {
		log.Infof("Login rejected: unknown email (%s)", email)
		return StatusUserNotFound, nil, nil
	}
	if !op.VerifyYn {
		log.Infof("Login rejected: operator not enabled (%s)", email)
		return StatusPendingVerification, nil, nil
	}
	if op.OtpCode == nil {
		log.Infof("Login: OTP setup required (%s)", email)
		return StatusRequiresOtpSetup, op, nil
	}
	return StatusRequiresOtp, op, nil
}

// GetOperator
func (s *Service) GetOperator(email string) (*Operator, error) {
	return s.store.GetOperatorByEmail(email)
}

// GenerateOTP returns (base32 secret, base64 PNG QR code).
func (s *Service) GenerateOTP(email string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      otpIssuer,
		AccountName: email,
	})
	if err != nil {
		log.Errorf("TOTP key generation failed: %v", err)
		return "", "", err
	}

	var buf bytes.Buffer
	img, err := key.Image(200, 200)
	if err != nil {
		log.Errorf("TOTP QR image generation failed: %v", err)
		return "", "", err
	}
	if err := png.Encode(&buf, img); err != nil {
		return "", "", fmt.Errorf("encode QR image: %w", err)
	}

	return key.Secret(), base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ValidateOTP accepts the current code and one period either side.
func (s *Service) ValidateOTP(passcode string, secretKey string) bool {
	opts := totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}

	valid, err := totp.ValidateCustom(strings.TrimSpace(passcode), secretKey, s.now(), opts)
	if err != nil {
		log.Warnf("OTP validation error: %v", err)
		return false
	}
	return valid
}

// FinalizeOTPSetup persists the secret the operator just proved they hold.
func (s *Service) FinalizeOTPSetup(email string, secretKey string) error {
	return s.store.UpdateOperatorOTP(email, secretKey)
}

// RecordLogin is best effort; a failure does not block the login.
func (s *Service) RecordLogin(op *Operator) {
	if err := s.store.TouchLastLogin(op.ID); err != nil {
		log.Warnf("last_login_dt update failed (%s): %v", op.Email, err)
	}
}
