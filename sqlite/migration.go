package sqlite

import (
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"github.com/pkg/errors"
)

// Migrate brings the schema of conn up to date with the *.sql scripts of
// fsys. Scripts run in lexical order; the number of scripts applied so far
// is kept in the user_version pragma. Everything runs in one savepoint.
func Migrate(conn *sqlite.Conn, fsys fs.FS) (err error) {
	release := sqlitex.Save(conn)
	defer release(&err)

	oldVer, err := schemaVersion(conn)
	if err != nil {
		return err
	}

	scripts, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return errors.Wrap(err, "list scripts")
	}
	currVer := len(scripts)

	if oldVer >= currVer {
		// There are no scripts to run.
		return nil
	}

	sort.Strings(scripts)
	for _, script := range scripts[oldVer:] {
		if err := runScript(conn, fsys, script); err != nil {
			return err
		}
	}

	if err := sqlitex.ExecTransient(conn, "pragma user_version="+strconv.Itoa(currVer), nil); err != nil {
		return errors.Wrap(err, "set version")
	}
	return nil
}

func schemaVersion(conn *sqlite.Conn) (int, error) {
	var ver int
	err := sqlitex.ExecTransient(conn, "pragma user_version", func(stmt *sqlite.Stmt) error {
		ver = stmt.ColumnInt(0)
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "get version")
	}
	return ver, nil
}

func runScript(conn *sqlite.Conn, fsys fs.FS, script string) error {
	buf, err := fs.ReadFile(fsys, script)
	if err != nil {
		return errors.Wrapf(err, "read %s", script)
	}
	queries := strings.TrimSpace(string(buf))
	for i := 0; queries != ""; i++ {
		stmt, trailingBytes, err := conn.PrepareTransient(queries)
		if err != nil {
			return errors.Wrapf(err, "prepare %s, stmt %d", script, i)
		}
		usedBytes := len(queries) - trailingBytes
		queries = strings.TrimSpace(queries[usedBytes:])
		if stmt == nil {
			// Only comments or whitespace were left.
			continue
		}
		_, err = stmt.Step()
		stmt.Finalize()
		if err != nil {
			return errors.Wrapf(err, "execute %s, stmt %d", script, i)
		}
	}
	return nil
}
