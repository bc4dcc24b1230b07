package testsupport

import (
	"database/sql"
	"fmt"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var dbSequence atomic.Int64

// OpenSQLite returns a bun.DB over a private in-memory SQLite database. Each
// call opens a distinct database so parallel tests never share state, and the
// connection pool is capped at one so the shared-cache handle stays alive for
// the lifetime of the test.
func OpenSQLite() (*bun.DB, error) {
	dsn := fmt.Sprintf("file:headless_test_%d?mode=memory&cache=shared", dbSequence.Add(1))
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return bun.NewDB(sqlDB, sqlitedialect.New()), nil
}
