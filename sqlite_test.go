package fsqlexec_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/fsqlexec"
)

func openSqlite(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := fsqlexec.Open(context.Background(), fsqlexec.ConnConfig{Driver: "sqlite3", Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// sqliteObjectExists checks whether a table or index exists in the SQLite database.
func sqliteObjectExists(t *testing.T, db *sql.DB, kind, name string) bool {
	t.Helper()
	var cnt int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?`, kind, name).Scan(&cnt)
	require.NoError(t, err)
	return cnt > 0
}

func TestSqlite_CreatesTableAndIndex(t *testing.T) {
	ctx := context.Background()
	db := openSqlite(t)
	dir := t.TempDir()
	files := []string{
		writeSQL(t, dir, "CTtest.sql", "CREATE TABLE test (id int);\nCREATE INDEX test_id_index ON test(id);"),
		writeSQL(t, dir, "CTblog_entry.sql", `-- blog entries
CREATE TABLE blog_entry (
  id integer PRIMARY KEY,
  user_id int NOT NULL,
  title text
);
CREATE INDEX blog_entry_user_id_index ON blog_entry(user_id);
INSERT INTO blog_entry (user_id, title) VALUES (1, 'hello');
`),
	}

	ex, err := fsqlexec.NewExecutor(fsqlexec.Config{Driver: "sqlite3"}, files, db)
	require.NoError(t, err)
	require.Len(t, ex.Statements()[0].Statements, 2)

	require.NoError(t, ex.Run(ctx))

	assert.True(t, sqliteObjectExists(t, db, "table", "test"))
	assert.True(t, sqliteObjectExists(t, db, "index", "test_id_index"))
	assert.True(t, sqliteObjectExists(t, db, "table", "blog_entry"))
	assert.True(t, sqliteObjectExists(t, db, "index", "blog_entry_user_id_index"))

	var title string
	require.NoError(t, db.QueryRow(`SELECT title FROM blog_entry WHERE user_id = 1`).Scan(&title))
	assert.Equal(t, "hello", title)
}

func TestSqlite_FailureInSecondFile(t *testing.T) {
	tests := []struct {
		name          string
		onFailure     string
		wantFirstKept bool
	}{
		{name: "commit", onFailure: fsqlexec.OnFailureCommit, wantFirstKept: true},
		{name: "rollback", onFailure: fsqlexec.OnFailureRollback, wantFirstKept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db := openSqlite(t)
			dir := t.TempDir()
			files := []string{
				writeSQL(t, dir, "one.sql", "CREATE TABLE one (id int);"),
				writeSQL(t, dir, "error_table.sql", "CREATE TABL broken (id int);"),
				writeSQL(t, dir, "three.sql", "CREATE TABLE three (id int);"),
			}

			ex, err := fsqlexec.NewExecutor(fsqlexec.Config{Driver: "sqlite3", OnFailure: tt.onFailure}, files, db)
			require.NoError(t, err)

			err = ex.Run(ctx)

			var se *fsqlexec.StatementExecutionError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, 1, se.FileIndex)
			assert.Equal(t, files[1], se.File)
			assert.Equal(t, fsqlexec.Statement("CREATE TABL broken (id int)"), se.Statement)
			assert.Equal(t, fsqlexec.KindServer, se.Kind)
			assert.NotEmpty(t, se.Code)

			assert.Equal(t, tt.wantFirstKept, sqliteObjectExists(t, db, "table", "one"))
			assert.False(t, sqliteObjectExists(t, db, "table", "three"))
		})
	}
}
