package mysql

import (
	"context"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	duplicateEntryErrorCode   = 1062
	missingReferenceErrorCode = 1452
	lockWaitTimeoutErrorCode  = 1205
	deadlockErrorCode         = 1213
)

type DSN struct {
	User     string
	Password string
	Host     string
	Database string
}

type ConnectionOptions struct {
	MaxConnections  int
	ConnMaxLifetime time.Duration
}

func (dsn DSN) String() string {
	cfg := mysql.NewConfig()
	cfg.User = dsn.User
	cfg.Passwd = dsn.Password
	cfg.Net = "tcp"
	cfg.Addr = dsn.Host
	cfg.DBName = dsn.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	// RowsAffected must count matched rows so that "no such row" can be told
	// apart from "row already had these values".
	cfg.ClientFoundRows = true
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

func Open(ctx context.Context, dsn DSN, opts ConnectionOptions) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if opts.MaxConnections > 0 {
		db.SetMaxOpenConns(opts.MaxConnections)
		db.SetMaxIdleConns(opts.MaxConnections)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}

func isDuplicateEntry(err error) bool {
	return hasErrorCode(err, duplicateEntryErrorCode)
}

func isMissingReference(err error) bool {
	return hasErrorCode(err, missingReferenceErrorCode)
}

// isLockConflict reports errors InnoDB raises when it aborts one of two
// transactions competing for the same rows.
func isLockConflict(err error) bool {
	return hasErrorCode(err, deadlockErrorCode) || hasErrorCode(err, lockWaitTimeoutErrorCode)
}

func hasErrorCode(err error, code uint16) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == code
}

func rollback(tx *sqlx.Tx) {
	_ = tx.Rollback()
}
