package auth

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// Store
type Store struct {
	db *sqlx.DB
}

// NewStore
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetOperatorByEmail returns (nil, nil) for an unknown email.
func (s *Store) GetOperatorByEmail(email string) (*Operator, error) {
	var op Operator
	query := `
		SELECT
			id, user_name, email, otp_code,
			verify_yn, last_login_dt, created_at, updated_at
		FROM operators
		WHERE email = ?
	`
	err := s.db.Get(&op, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Errorf("GetOperatorByEmail DB error: %v", err)
		return nil, err
	}
	return &op, nil
}

// UpdateOperatorOTP stores the TOTP secret confirmed during first login.
func (s *Store) UpdateOperatorOTP(email string, otpSecret string) error {
	query := `
		UPDATE operators
		SET
			otp_code = ?,
			last_login_dt = ?
		WHERE
			email = ?`
	_, err := s.db.Exec(query, otpSecret, time.Now().UTC(), email)
	if err != nil {
		log.Errorf("UpdateOperatorOTP DB error: %v", err)
		return err
	}
	log.Infof("Operator OTP secret stored: %s", email)
	return nil
}

// TouchLastLogin stamps last_login_dt after a successful OTP check.
func (s *Store) TouchLastLogin(id uint64) error {
	_, err := s.db.Exec(`UPDATE operators SET last_login_dt = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		log.Errorf("TouchLastLogin DB error: %v", err)
		return err
	}
	return nil
}
