// Package migration prepares the schema on startup so the service is
// usable out of the box for local and self-hosted environments.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	expensedomain "github.com/lancekit/lancekit/internal/expense/domain"
	invoicedomain "github.com/lancekit/lancekit/internal/invoice/domain"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	taskdomain "github.com/lancekit/lancekit/internal/task/domain"
	timeentrydomain "github.com/lancekit/lancekit/internal/timeentry/domain"
	timerdomain "github.com/lancekit/lancekit/internal/timer/domain"
)

// RunMigrations applies the embedded SQL migrations. Postgres only; the
// other dialects go through AutoMigrate instead.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate covers sqlite and mysql, where the model tags carry enough
// schema detail.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&clientdomain.Client{},
		&projectdomain.Project{},
		&taskdomain.Task{},
		&timeentrydomain.TimeEntry{},
		&expensedomain.Expense{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&invoicedomain.InvoiceSequence{},
		&timerdomain.ActiveTimer{},
	)
}
