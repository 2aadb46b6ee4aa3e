package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"taskapi/internal/models"
)

// Dialector picks the gorm driver for databaseURL. An empty URL falls back
// to the sqlite file at sqlitePath. sqlite URLs follow the SQLAlchemy form:
// sqlite:///tasks.db is relative to the working directory and
// sqlite:////var/lib/tasks.db is absolute.
func Dialector(databaseURL, sqlitePath string) (gorm.Dialector, error) {
	switch {
	case databaseURL == "":
		if sqlitePath == "" {
			return nil, fmt.Errorf("no database configured")
		}
		return sqlite.Open(SQLiteDSN(sqlitePath)), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := sqliteURLPath(databaseURL)
		if path == "" {
			return nil, fmt.Errorf("sqlite database URL %q has no path", databaseURL)
		}
		return sqlite.Open(SQLiteDSN(path)), nil
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL), nil
	case strings.Contains(databaseURL, "://"):
		return nil, fmt.Errorf("unsupported database URL scheme in %q", strings.SplitN(databaseURL, "://", 2)[0])
	default:
		// key=value DSN, e.g. "host=localhost user=postgres dbname=tasks"
		return postgres.Open(databaseURL), nil
	}
}

func sqliteURLPath(databaseURL string) string {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	// The third slash separates the empty host from the path.
	return strings.TrimPrefix(path, "/")
}

// SQLiteDSN turns a file path (or an existing "file:" URI) into a DSN with
// foreign key enforcement switched on.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// Open connects to the configured store and migrates the schema.
func Open(databaseURL, sqlitePath string, logger gormlogger.Interface) (*gorm.DB, error) {
	dialector, err := Dialector(databaseURL, sqlitePath)
	if err != nil {
		return nil, err
	}
	return OpenDialector(dialector, logger)
}

// OpenDialector opens gorm on an explicit dialector and migrates the schema.
func OpenDialector(dialector gorm.Dialector, logger gormlogger.Interface) (*gorm.DB, error) {
	if logger == nil {
		logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the user and task tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection pool is reachable.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
