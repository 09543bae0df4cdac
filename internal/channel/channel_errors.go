package channel

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrEmptyChannelID   = errors.New("channel id is required")
	ErrInvalidChannelID = errors.New("channel id contains invalid characters")
	ErrNoLookup         = errors.New("look up a channel id before saving")
	ErrInvalidOption    = errors.New("value is not one of the allowed options")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")

	// ErrStoreUnavailable covers connectivity and authentication failures.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrWriteRejected covers server-side rejections of an upsert (constraints, data too long, ...).
	ErrWriteRejected = errors.New("record store rejected the write")
)

// MySQL server error numbers that mean "cannot reach / cannot authenticate"
// rather than "this statement was rejected".
const (
	ErrMySQLTooManyConnections = 1040
	ErrMySQLDBAccessDenied     = 1044
	ErrMySQLAccessDenied       = 1045
	ErrMySQLUnknownDatabase    = 1049
	ErrMySQLConnectionError    = 2002
	ErrMySQLConnHostError      = 2003
	ErrMySQLServerGone         = 2006
	ErrMySQLServerLost         = 2013
)

func isConnectivityError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case ErrMySQLTooManyConnections, ErrMySQLDBAccessDenied, ErrMySQLAccessDenied,
			ErrMySQLUnknownDatabase, ErrMySQLConnectionError, ErrMySQLConnHostError,
			ErrMySQLServerGone, ErrMySQLServerLost:
			return true
		}
	}
	return false
}

// classifyReadError wraps connectivity failures; other read errors pass through.
func classifyReadError(err error) error {
	if isConnectivityError(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

// classifyWriteError keeps the driver message verbatim behind a sentinel.
func classifyWriteError(err error) error {
	if isConnectivityError(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return fmt.Errorf("%w: %w", ErrWriteRejected, err)
	}
	return err
}
