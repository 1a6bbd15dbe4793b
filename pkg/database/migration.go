package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
)

// MigrationLogger satisfies migrate.Logger.
type MigrationLogger struct {
	ectologger.Logger
}

func (l MigrationLogger) Verbose() bool {
	return false
}

func (l MigrationLogger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}

type MigrationConfig struct {
	MigrationFolderPath string
	// Version pins the schema to a specific migration. Zero means latest.
	Version uint
	// Force marks the schema clean at this version before migrating. Zero disables it.
	Force int
}

type MigrationService struct {
	config *MigrationConfig
	logger ectologger.Logger
}

func NewMigrationService(logger ectologger.Logger, config *MigrationConfig) *MigrationService {
	return &MigrationService{
		config: config,
		logger: logger,
	}
}

func (ms *MigrationService) resolveMigrationFolder() (string, error) {
	folder := ms.config.MigrationFolderPath
	if _, err := os.Stat(folder); err == nil {
		return filepath.Abs(folder)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	folder = filepath.Join(wd, ms.config.MigrationFolderPath)
	if _, err := os.Stat(folder); err != nil {
		return "", errors.Wrap(err, fmt.Sprintf("migration folder %s does not exist", folder))
	}
	return folder, nil
}

func (ms *MigrationService) Migrate(databaseName string, databaseInstance database.Driver) error {
	folder, err := ms.resolveMigrationFolder()
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+folder, databaseName, databaseInstance)
	if err != nil {
		ms.logger.WithError(err).Error("Failed to create migrate instance")
		return errors.Wrap(err, "failed to create migrate instance")
	}
	m.Log = MigrationLogger{Logger: ms.logger}

	if ms.config.Force != 0 {
		if err := m.Force(ms.config.Force); err != nil {
			ms.logger.WithError(err).Errorf("Failed to force database to version %d", ms.config.Force)
			return err
		}
	}

	start := time.Now()
	if ms.config.Version != 0 {
		err = m.Migrate(ms.config.Version)
	} else {
		err = m.Up()
	}

	switch {
	case err == nil:
		ms.logger.Infof("Database migrations completed in %v", time.Since(start))
		return nil
	case errors.Is(err, migrate.ErrNoChange):
		ms.logger.Info("No new migrations to apply")
		return nil
	}

	version, dirty, versionErr := m.Version()
	if versionErr != nil && !errors.Is(versionErr, migrate.ErrNilVersion) {
		ms.logger.WithError(versionErr).Error("Failed to get current migration version")
	}
	ms.logger.WithError(err).Errorf("Failed to apply migrations. Database version is dirty=%t at version %d", dirty, version)
	return errors.Wrap(err, "failed to apply migrations")
}
