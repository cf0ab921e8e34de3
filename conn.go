package tablestore

import (
	"fmt"
	"net"
	"net/url"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const DefaultDriver = "mysql"

// Config describes how to reach the database holding the table.
type Config struct {
	// Driver is the database/sql driver name: "mysql", "pgx" or "postgres".
	// Empty means mysql.
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Database string
	// Params are appended to the DSN as engine-specific options.
	Params map[string]string
}

func (c Config) driver() string {
	if c.Driver == "" {
		return DefaultDriver
	}
	return c.Driver
}

// DSN builds the data source name for the configured driver.
func (c Config) DSN() (string, error) {
	switch c.driver() {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.DBName = c.Database
		if c.Host != "" {
			port := c.Port
			if port == "" {
				port = "3306"
			}
			mc.Net = "tcp"
			mc.Addr = net.JoinHostPort(c.Host, port)
		}
		if len(c.Params) > 0 {
			mc.Params = make(map[string]string, len(c.Params))
			for k, v := range c.Params {
				mc.Params[k] = v
			}
		}
		return mc.FormatDSN(), nil
	case "pgx", "postgres":
		port := c.Port
		if port == "" {
			port = "5432"
		}
		q := url.Values{}
		q.Set("sslmode", "disable")
		for k, v := range c.Params {
			q.Set(k, v)
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     net.JoinHostPort(c.Host, port),
			Path:     "/" + c.Database,
			RawQuery: q.Encode(),
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, c.Driver)
	}
}

// Connect opens a single-connection handle for config.
func Connect(config Config) (*sqlx.DB, error) {
	dsn, err := config.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(config.driver(), dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	return db, nil
}
