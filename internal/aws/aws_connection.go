package aws

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// DBI holds the repository (MySQL) connection settings.
type DBI struct {
	User     string
	Password string
	Endpoint string
	Port     int
	Database string
}

// DSN builds the driver DSN.
// (parseTime=true so DATE / DATETIME columns scan into time.Time, loc=UTC so
// calendar dates never shift by the server zone)
func (i DBI) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = i.User
	cfg.Passwd = i.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", i.Endpoint, i.Port)
	cfg.DBName = i.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Timeout = 5 * time.Second
	cfg.ReadTimeout = 30 * time.Second
	cfg.WriteTimeout = 30 * time.Second
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// CreateConnection opens the shared pool and pings it once.
func CreateConnection(i DBI) (*sqlx.DB, error) {
	if i.Endpoint == "" || i.User == "" || i.Database == "" {
		return nil, fmt.Errorf("repository config incomplete (endpoint, user and database are required)")
	}

	db, err := sqlx.Connect("mysql", i.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
