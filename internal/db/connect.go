// Package db opens and migrates the task store behind GORM.
package db

import (
	"fmt"

	sqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kilerd/todoki/internal/config"
)

// Connect opens a GORM connection for the configured dialect.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Dialect {
	case config.DialectSQLite:
		dialector = sqlite.Open(cfg.Path)
	case config.DialectMySQL:
		dialector = mysql.Open(MySQLDSN(cfg))
	case config.DialectPostgres:
		dialector = postgres.Open(PostgresDSN(cfg))
	default:
		return nil, fmt.Errorf("db: unknown dialect %q", cfg.Dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect %s: %w", cfg.Dialect, err)
	}
	return db, nil
}

// MySQLDSN builds a MySQL DSN from the connection settings.
func MySQLDSN(cfg config.DatabaseConfig) string {
	mc := sqldriver.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.DBName = cfg.Name
	mc.ParseTime = true
	return mc.FormatDSN()
}

// PostgresDSN builds a keyword/value Postgres DSN from the connection
// settings.
func PostgresDSN(cfg config.DatabaseConfig) string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Name)
	if cfg.Password != "" {
		dsn += " password=" + cfg.Password
	}
	return dsn
}
