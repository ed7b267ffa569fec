package sql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/query"
	"github.com/dadok/readingclub/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*/*.sql
var embedMigrations embed.FS

// Supported drivers. They double as goose dialects and migration directories.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// isUniqueViolation checks if an error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// wrapUniqueError converts UNIQUE violations to a domain duplicate error
// carrying the given code.
func wrapUniqueError(err error, code, message string) error {
	if isUniqueViolation(err) {
		return domain.Duplicate(code, message)
	}
	return err
}

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
	groups query.GroupProjection
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCountStrategy selects how group listings aggregate member and comment
// counts.
func WithCountStrategy(strategy query.CountStrategy) Option {
	return func(s *Store) {
		s.groups.Strategy = strategy
	}
}

// WithLogger sets the logger migrations report through.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Connect opens a database handle without running migrations.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if driver == DriverSQLite {
		// A second connection to :memory: would see an empty database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// sqliteDSN turns on foreign keys and case-sensitive LIKE unless the DSN
// already sets them.
func sqliteDSN(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "_foreign_keys") && !strings.Contains(dsn, "_fk") {
		params = append(params, "_foreign_keys=on")
	}
	if !strings.Contains(dsn, "_cslike") && !strings.Contains(dsn, "_case_sensitive_like") {
		params = append(params, "_cslike=true")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Infof(strings.TrimSpace(format), v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatalf(strings.TrimSpace(format), v...)
}

func setupGoose(driver string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	goose.SetLogger(gooseLogger{log: logger.Named("goose").Sugar()})
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	return nil
}

// Migrate applies every pending migration for driver.
func Migrate(db *sqlx.DB, driver string, logger *zap.Logger) error {
	if err := setupGoose(driver, logger); err != nil {
		return err
	}
	if err := goose.Up(db.DB, "migrations/"+driver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// MigrationStatus logs the state of every migration for driver.
func MigrationStatus(db *sqlx.DB, driver string, logger *zap.Logger) error {
	if err := setupGoose(driver, logger); err != nil {
		return err
	}
	return goose.Status(db.DB, "migrations/"+driver)
}

// New creates a new SQL store and brings the schema up to date.
func New(driver, dsn string, opts ...Option) (*Store, error) {
	db, err := Connect(driver, dsn)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, driver: driver}
	for _, opt := range opts {
		opt(s)
	}

	if err := Migrate(db, driver, s.logger); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewFromDB wraps an existing handle. Migrations are not run.
func NewFromDB(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{db: db, driver: db.DriverName()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// BeginTx starts a new transaction.
func (s *Store) BeginTx(ctx context.Context) (storage.Transaction, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, driver: s.driver, groups: s.groups}, nil
}

// Tx wraps a database transaction.
type Tx struct {
	tx     *sqlx.Tx
	driver string
	groups query.GroupProjection
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Close is a no-op for transactions (they should be committed or rolled back).
func (t *Tx) Close() error {
	return nil
}

// Ping is a no-op inside a transaction.
func (t *Tx) Ping(ctx context.Context) error {
	return nil
}

// BeginTx is not supported within a transaction.
func (t *Tx) BeginTx(ctx context.Context) (storage.Transaction, error) {
	return nil, fmt.Errorf("nested transactions not supported")
}

// helper to get the correct database interface
type dbInterface interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertReturningID runs an INSERT written with '?' placeholders and returns
// the generated id. Both drivers support RETURNING.
func insertReturningID(ctx context.Context, db dbInterface, q string, args ...any) (int64, error) {
	var id int64
	err := db.QueryRowxContext(ctx, db.Rebind(q+" RETURNING id"), args...).Scan(&id)
	return id, err
}

// getBuilt runs a composed single-row select.
func getBuilt(ctx context.Context, db dbInterface, dest any, b *query.SelectBuilder) error {
	stmt, args := b.ToSQL()
	return db.GetContext(ctx, dest, db.Rebind(stmt), args...)
}

// selectBuilt runs a composed multi-row select.
func selectBuilt(ctx context.Context, db dbInterface, dest any, b *query.SelectBuilder) error {
	stmt, args := b.ToSQL()
	return db.SelectContext(ctx, dest, db.Rebind(stmt), args...)
}

// execAffecting runs a statement and reports notFound when no row changed.
func execAffecting(ctx context.Context, db dbInterface, notFound error, q string, args ...any) error {
	result, err := db.ExecContext(ctx, db.Rebind(q), args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return notFound
	}
	return nil
}
