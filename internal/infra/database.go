package infra

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed schema.sql
var schemaSQL string

// NewDatabase establishes a GORM connection backed by pgx and applies the
// embedded idempotent schema. AutoMigrate is not used: the schema file owns
// numeric precision, FK actions and the seed rows.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return db, nil
}

// PingDSN opens a short-lived connection to dsn and pings it. Used to validate
// a connection override before it is persisted.
func PingDSN(ctx context.Context, dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// CloseDatabase releases the pool behind db.
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RunMigrations applies every statement of schema.sql in order. All statements
// are IF NOT EXISTS / ON CONFLICT guarded, so re-running is a no-op.
func RunMigrations(db *gorm.DB) error {
	for _, stmt := range schemaStatements(schemaSQL) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("patch %q: %w", stmt[:min(len(stmt), 60)], err)
		}
	}
	return nil
}

// schemaStatements splits a script on semicolons that end a line and drops
// comment-only fragments.
func schemaStatements(script string) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSpace(cur.String()); stmt != ";" {
				out = append(out, strings.TrimSuffix(stmt, ";"))
			}
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}
