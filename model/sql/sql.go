package sql

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/mysql/* migrations/sqlite/*
var embeddedMigrations embed.FS

// New connects to MySQL when MYSQL_DB is set, otherwise to the SQLite
// database at SQLITE_PATH (default gatekeeper.db). Pending migrations run
// unless IGNORE_SQL_MIGRATION is set.
func New() (*sqlx.DB, error) {
	if strings.TrimSpace(os.Getenv("MYSQL_DB")) != "" {
		return NewMySQL()
	}

	path := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if path == "" {
		path = "gatekeeper.db"
	}
	return NewSQLite(path)
}

func NewMySQL() (*sqlx.DB, error) {
	host := strings.TrimSpace(os.Getenv("MYSQL_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(os.Getenv("MYSQL_PORT"))
	if port == "" {
		port = "3306"
	}
	user := strings.TrimSpace(os.Getenv("MYSQL_USER"))
	password := strings.TrimSpace(os.Getenv("MYSQL_PASSWORD"))
	dbname := strings.TrimSpace(os.Getenv("MYSQL_DB"))
	tls := strings.TrimSpace(os.Getenv("MYSQL_TLS"))
	if tls == "" {
		tls = "false"
	}

	connectionString := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&tls=%s",
		user,
		password,
		host,
		port,
		dbname,
		tls,
	)

	db, err := sqlx.Connect("mysql", connectionString)
	if err != nil {
		return nil, err
	}

	if err := migrateSchema(db, "mysql"); err != nil {
		return nil, err
	}

	db = db.Unsafe()
	db.SetMaxIdleConns(100)
	db.SetMaxOpenConns(100)
	db.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// NewSQLite uses the pure Go driver from modernc.org, so no CGO is needed.
func NewSQLite(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// modernc.org/sqlite serializes writes itself, one connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := migrateSchema(db, "sqlite3"); err != nil {
		return nil, err
	}

	return db.Unsafe(), nil
}

func migrateSchema(db *sqlx.DB, dialect string) error {
	_, ignoreMigration := os.LookupEnv("IGNORE_SQL_MIGRATION")
	if ignoreMigration {
		return nil
	}

	root := "migrations/mysql"
	if dialect == "sqlite3" {
		root = "migrations/sqlite"
	}

	migrationSource := &migrate.EmbedFileSystemMigrationSource{FileSystem: embeddedMigrations, Root: root}
	_, err := migrate.Exec(db.DB, dialect, migrationSource, migrate.Up)
	return err
}

func NewNullString(s string) sql.NullString {
	if len(s) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{
		String: s,
		Valid:  true,
	}
}

// isSQLite tells the services which upsert syntax the connection speaks.
func isSQLite(db *sqlx.DB) bool {
	return db.DriverName() == "sqlite"
}
