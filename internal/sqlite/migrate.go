package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"
)

// migrateTo reshapes the live database to match the target schema in schema.sql.
//
// The migration is declarative:
//
// 1. Tables absent from the target schema are dropped,
// 2. new tables are created,
// 3. changed tables go through the 12-step schema migration
// https://www.sqlite.org/lang_altertable.html#otheralter,
// 4. triggers and indexes are synchronised.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) error {
	var err error
	start := time.Now()

	detach, err := db.attachTargetSchema(ctx, schemaDefinition)
	if err != nil {
		return fmt.Errorf("attach target schema: %w", err)
	}
	defer detach()

	// Step 1: Disable foreign key validation for the duration of the migration.
	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disable foreign key validation: %w", err)
	}
	// Step 12: Re-enable foreign key validation.
	defer func() {
		if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			err = fmt.Errorf("re-enable foreign key validation: %w", err)
			db.logger.LogAttrs(ctx, slog.LevelError, "exit to avoid data corruption", slog.Any("error", err))
			err = syscall.Kill(syscall.Getpid(), syscall.SIGINT)
			if err != nil {
				os.Exit(1)
			}
		}
	}()

	// Step 2: Start transaction.
	var tx *sql.Tx
	if tx, err = db.ReadWrite.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer db.rollback(ctx, tx)()

	// Steps 3-7 migrate tables.
	if err = db.migrateTables(ctx, tx); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}

	// Step 8: Recreate indexes and triggers associated with migrated tables.
	if err = db.migrateSchemaObjects(ctx, tx, objectTypeTrigger); err != nil {
		return fmt.Errorf("migrate triggers: %w", err)
	}
	if err = db.migrateSchemaObjects(ctx, tx, objectTypeIndex); err != nil {
		return fmt.Errorf("migrate indexes: %w", err)
	}

	// Step 9: Recreate views associated with table.
	// Step 10: Check foreign key constraints.
	if _, err = tx.ExecContext(ctx, "PRAGMA foreign_key_check"); err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}

	// Step 11: Commit transaction from step 2.
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	// Step 12: is in defer above.

	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database", slog.Duration("duration", time.Since(start)))

	return nil
}

// attachTargetSchema attaches a temporary database initialised with the target schema and returns
// a function to detach the database that must be called after the migration.
func (db *Database) attachTargetSchema(ctx context.Context, schemaDefinition string) (func(), error) {
	// The target schema is created against a throwaway database so the migration can diff against it.
	var err error
	targetDSN := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	targetDatabase, err := sql.Open("sqlite3", targetDSN)
	if err != nil {
		return nil, fmt.Errorf("open target schema database: %w", err)
	}
	defer func() {
		if err = targetDatabase.Close(); err != nil {
			err = fmt.Errorf("close target schema database: %w", err)
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close target schema database",
				slog.Any("error", err))
		}
	}()
	if _, err = targetDatabase.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, fmt.Errorf("execute target schema: %w", err)
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", targetDSN); err != nil {
		return nil, fmt.Errorf("attach target schema database: %w", err)
	}
	return func() {
		if _, err = db.ReadWrite.ExecContext(ctx, "DETACH DATABASE schemaTarget"); err != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach target schema database", slog.Any("error", err))
		}
	}, nil
}

// rollback rolls back given transaction.
func (db *Database) rollback(ctx context.Context, tx *sql.Tx) func() {
	return func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			err = fmt.Errorf("rollback transaction: %w", err)
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction", slog.Any("error", err))
		}
	}
}

// migrateTables synchronises table definitions between the live and target schemas.
func (db *Database) migrateTables(ctx context.Context, tx *sql.Tx) error {
	var err error

	// Drop tables missing from the target schema.
	var deletedTables []string
	if deletedTables, err = db.queryStrings(ctx, tx, `SELECT live.name AS deleted_table
FROM sqlite_schema AS live
         LEFT JOIN schemaTarget.sqlite_schema AS target ON live.name = target.name AND live.type = target.type
WHERE live.type = 'table'
  AND target.type IS NULL
  AND live.name NOT LIKE 'sqlite_%'
  AND live.name NOT LIKE '_litestream_%'`); err != nil {
		return fmt.Errorf("query deleted tables: %w", err)
	}
	for _, table := range deletedTables {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", table))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", table)); err != nil {
			return fmt.Errorf("DROP TABLE %s: %w", table, err)
		}
	}

	// Create tables that exist only in the target schema.
	var newTableSQLs []string
	if newTableSQLs, err = db.queryStrings(ctx, tx, `SELECT target.sql AS sql
FROM sqlite_schema AS live RIGHT JOIN schemaTarget.sqlite_schema AS target
ON live.name=target.name AND live.type=target.type
WHERE target.type = 'table'
  AND live.type IS NULL
  AND target.name NOT LIKE 'sqlite_%'
  AND target.name NOT LIKE '_litestream_%'`); err != nil {
		return fmt.Errorf("query new table SQLs: %w", err)
	}
	for _, newTableSQL := range newTableSQLs {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", newTableSQL))
		if _, err = tx.ExecContext(ctx, newTableSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	// Tables whose definition changed continue through the 12-step migration.
	var changedTables []schemaDiff
	if changedTables, err = db.querySchemaDiffs(ctx, tx, `SELECT live.name AS changed_table,
       live.sql  AS live_sql,
       target.sql   AS new_sql
FROM sqlite_schema AS live
         JOIN schemaTarget.sqlite_schema AS target ON live.name = target.name AND live.type = target.type
WHERE live.type = 'table'
  AND live.name NOT LIKE 'sqlite_%'
  AND live.name NOT LIKE '_litestream_%'
  -- The table rename operation adds double quotes around the table name, so we remove them for this diff.
  AND REPLACE(live.sql, '"', '') <> REPLACE(target.sql, '"', '')
`); err != nil {
		return fmt.Errorf("query changed tables: %w", err)
	}

	for _, table := range changedTables {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating table",
			slog.String("table", table.name),
			slog.String("live_sql", table.liveSQL),
			slog.String("new_sql", table.newSQL))

		// Step 4: Create the new table under a temporary name.
		tempName := table.name + "_migration_temp"
		tempNameSQL := strings.Replace(table.newSQL, table.name, tempName, 1)
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating new table under temporary name",
			slog.String("query", tempNameSQL))
		if _, err = tx.ExecContext(ctx, tempNameSQL); err != nil {
			return fmt.Errorf("create new table under temporary name %s: %w", tempNameSQL, err)
		}

		// Step 5: Copy columns common to both versions.
		var commonColumns []string
		if commonColumns, err = db.queryCommonColumns(ctx, tx, table.name); err != nil {
			return fmt.Errorf("query common columns: %w", err)
		}
		common := strings.Join(commonColumns, ", ")
		copySQL := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s;", //nolint: gosec // we trust the query.
			tempName, common, common, table.name)
		db.logger.LogAttrs(ctx, slog.LevelInfo, "copying data", slog.String("query", copySQL))
		if _, err = tx.ExecContext(ctx, copySQL); err != nil {
			return fmt.Errorf("copy data: %w", err)
		}

		// Step 6: Drop the old table.
		dropSQL := fmt.Sprintf("DROP TABLE %s;", table.name)
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping old table", slog.String("query", dropSQL))
		if _, err = tx.ExecContext(ctx, dropSQL); err != nil {
			return fmt.Errorf("drop old table: %w", err)
		}

		// Step 7: Rename the new table to the old table's name.
		renameSQL := fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", tempName, table.name)
		db.logger.LogAttrs(ctx, slog.LevelInfo, "renaming new table", slog.String("query", renameSQL))
		if _, err = tx.ExecContext(ctx, renameSQL); err != nil {
			return fmt.Errorf("rename new table: %w", err)
		}
	}
	return nil
}

func (db *Database) queryCommonColumns(ctx context.Context, tx *sql.Tx, table string) ([]string, error) {
	var (
		commonColumns []string
		err           error
	)
	// Column names are double quoted to handle names that are SQLite keywords.
	if commonColumns, err = db.queryStrings(ctx, tx, `SELECT '"' || target.name || '"'
FROM PRAGMA_TABLE_INFO(:table_name) AS live
JOIN PRAGMA_TABLE_INFO(:table_name, 'schemaTarget') AS target ON target.name = live.name`,
		sql.Named("table_name", table)); err != nil {
		return nil, fmt.Errorf("query strings: %w", err)
	}
	return commonColumns, nil
}

// queryStrings returns the single string column of a query as a slice.
func (db *Database) queryStrings(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	var (
		results []string
		rows    *sql.Rows
		err     error
	)
	if rows, err = tx.QueryContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			err = fmt.Errorf("close rows: %w", err)
			db.logger.Error("could not close rows", slog.Any("error", err))
		}
	}()
	for rows.Next() {
		var result string
		if err = rows.Scan(&result); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

type schemaDiff struct {
	name    string
	liveSQL string
	newSQL  string
}

// querySchemaDiffs returns schema objects whose definition differs between the live and target schemas.
func (db *Database) querySchemaDiffs(
	ctx context.Context,
	tx *sql.Tx,
	query string,
	args ...any,
) ([]schemaDiff, error) {
	var (
		diffs []schemaDiff
		rows  *sql.Rows
		err   error
	)
	if rows, err = tx.QueryContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			err = fmt.Errorf("close rows: %w", err)
			db.logger.Error("could not close rows", slog.Any("error", err))
		}
	}()
	for rows.Next() {
		var result schemaDiff
		if err = rows.Scan(&result.name, &result.liveSQL, &result.newSQL); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		diffs = append(diffs, result)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return diffs, nil
}

type objectType string

const (
	objectTypeTrigger objectType = "trigger"
	objectTypeIndex   objectType = "index"
)

// migrateSchemaObjects synchronises all objects of typ between the live and target schemas.
func (db *Database) migrateSchemaObjects(ctx context.Context, tx *sql.Tx, typ objectType) error {
	var (
		err     error
		deleted []string
		logger  = db.logger.With(slog.String("objectType", string(typ)))
	)

	if deleted, err = db.queryStrings(ctx, tx, `SELECT live.name AS deleted
FROM sqlite_schema AS live
         LEFT JOIN schemaTarget.sqlite_schema AS target ON live.name = target.name AND live.type = target.type
WHERE live.type = ?
  AND target.type IS NULL
  AND live.name NOT LIKE 'sqlite_%'`, typ); err != nil {
		return fmt.Errorf("query deleted %s: %w", string(typ), err)
	}
	for _, name := range deleted {
		dropQuery := fmt.Sprintf("DROP %s %s;", strings.ToUpper(string(typ)), name)
		logger.LogAttrs(ctx, slog.LevelInfo, "dropping", slog.String("name", name), slog.String("query", dropQuery))
		if _, err = tx.ExecContext(ctx, dropQuery, name); err != nil {
			return fmt.Errorf("drop %s %s: %w", string(typ), name, err)
		}
	}

	var created []string
	if created, err = db.queryStrings(ctx, tx, `SELECT target.sql AS new_sql
FROM sqlite_schema AS live
         RIGHT JOIN schemaTarget.sqlite_schema AS target ON live.name = target.name AND live.type = target.type
WHERE target.type = ?
  AND live.type IS NULL
  AND target.name NOT LIKE 'sqlite_%'`, typ); err != nil {
		return fmt.Errorf("query created %s: %w", string(typ), err)
	}
	for _, newSQL := range created {
		logger.LogAttrs(ctx, slog.LevelInfo, "creating", slog.String("query", newSQL))
		if _, err = tx.ExecContext(ctx, newSQL); err != nil {
			return fmt.Errorf("create %s: %w", string(typ), err)
		}
	}

	var changedList []schemaDiff
	if changedList, err = db.querySchemaDiffs(ctx, tx, `SELECT live.name  AS changed,
       live.sql   AS live_sql,
       target.sql AS new_sql
FROM sqlite_schema AS live
         JOIN schemaTarget.sqlite_schema AS target ON live.name = target.name AND live.type = target.type
WHERE live.type = ?
  AND live.name NOT LIKE 'sqlite_%'
  AND live.sql <> target.sql`, typ); err != nil {
		return fmt.Errorf("query changed %s: %w", string(typ), err)
	}

	for _, changed := range changedList {
		logger.LogAttrs(ctx, slog.LevelInfo, "migrating",
			slog.String("changed", changed.name),
			slog.String("live_sql", changed.liveSQL),
			slog.String("new_sql", changed.newSQL))

		dropSQL := fmt.Sprintf("DROP %s %s;", strings.ToUpper(string(typ)), changed.name)
		logger.LogAttrs(ctx, slog.LevelInfo, "dropping old changed",
			slog.String("name", changed.name), slog.String("query", dropSQL))
		if _, err = tx.ExecContext(ctx, dropSQL); err != nil {
			return fmt.Errorf("drop old changed %s %s: %w", string(typ), changed.name, err)
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "creating new changed", slog.String("query", changed.newSQL))
		if _, err = tx.ExecContext(ctx, changed.newSQL); err != nil {
			return fmt.Errorf("create new changed %s %s: %w", string(typ), changed.name, err)
		}
	}
	return nil
}
