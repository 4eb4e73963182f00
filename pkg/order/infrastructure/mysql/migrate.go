package mysql

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration. An up-to-date schema is not an error.
// It uses its own connection, released before returning, so it never holds on
// to a connection of the service pool.
func Migrate(dsn DSN) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "failed to open migrations source")
	}

	db, err := sql.Open("mysql", dsn.String())
	if err != nil {
		_ = source.Close()
		return errors.Wrap(err, "failed to open database")
	}

	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		_ = source.Close()
		_ = db.Close()
		return errors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return errors.Wrap(err, "failed to create migrator")
	}
	defer closeMigrator(m)

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("database schema is up to date")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.WithError(err).Warn("failed to read schema version")
		return nil
	}
	log.WithFields(log.Fields{"version": version, "dirty": dirty}).Info("database migrated")
	return nil
}

// closeMigrator releases the migration source and the driver, which closes
// the connection opened by Migrate.
func closeMigrator(m *migrate.Migrate) {
	sourceErr, databaseErr := m.Close()
	if sourceErr != nil {
		log.WithError(sourceErr).Error("failed to close migrations source")
	}
	if databaseErr != nil {
		log.WithError(databaseErr).Error("failed to close migration database")
	}
}
