package fsqlexec_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/fsqlexec"
)

// writeSQL writes content to dir/name and returns the path.
func writeSQL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newExtractor(t *testing.T) *fsqlexec.RegexExtractor {
	t.Helper()
	ext, err := fsqlexec.NewRegexExtractor(nil, "")
	require.NoError(t, err)
	return ext
}

func TestExtractString(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     []fsqlexec.Statement
	}{
		{
			name:     "two statements",
			contents: "CREATE TABLE test (id int);\nCREATE INDEX test_id_index ON test(id);",
			want: []fsqlexec.Statement{
				"CREATE TABLE test (id int)",
				"CREATE INDEX test_id_index ON test(id)",
			},
		},
		{
			name:     "multi-line statement is flattened",
			contents: "CREATE TABLE blog_entry (\n  id int,\n  user_id int\n);\n",
			want:     []fsqlexec.Statement{"CREATE TABLE blog_entry (   id int,   user_id int )"},
		},
		{
			name:     "comment lines are removed",
			contents: "-- header\nCREATE TABLE a (id int);\n----\nINSERT INTO a VALUES (1);\n",
			want: []fsqlexec.Statement{
				"CREATE TABLE a (id int)",
				"INSERT INTO a VALUES (1)",
			},
		},
		{
			name:     "comment line inside a statement",
			contents: "CREATE TABLE a (\n-- the key\nid int\n);",
			want:     []fsqlexec.Statement{"CREATE TABLE a (  id int )"},
		},
		{
			name:     "single dash is a comment",
			contents: "-\nDROP TABLE a;\n-",
			want:     []fsqlexec.Statement{"DROP TABLE a"},
		},
		{
			name:     "indented comment is not a comment",
			contents: "  -- CREATE TABLE x (id int);",
			want:     []fsqlexec.Statement{"CREATE TABLE x (id int)"},
		},
		{
			name:     "dangling keyword without terminator",
			contents: "CREATE TABLE a (id int);\nSELECT * FROM t",
			want:     []fsqlexec.Statement{"CREATE TABLE a (id int)"},
		},
		{
			name:     "keywords are case-insensitive",
			contents: "create table a (id int);\nInsert\tinto a values (1);",
			want: []fsqlexec.Statement{
				"create table a (id int)",
				"Insert\tinto a values (1)",
			},
		},
		{
			name:     "keyword must be followed by space or tab",
			contents: "CREATE\nTABLE a (id int);",
			want:     []fsqlexec.Statement{},
		},
		{
			name:     "unknown keywords are skipped",
			contents: "GRANT ALL ON a TO b;\nUPDATE a SET id = 2;",
			want:     []fsqlexec.Statement{"UPDATE a SET id = 2"},
		},
		{
			name:     "terminator inside a string literal ends the statement",
			contents: "INSERT INTO t VALUES ('a;b');",
			want:     []fsqlexec.Statement{"INSERT INTO t VALUES ('a"},
		},
		{
			name:     "keyword is not word-bounded",
			contents: "xSELECT 1;",
			want:     []fsqlexec.Statement{"SELECT 1"},
		},
		{
			name:     "only comments",
			contents: "-- nothing\n--- here\n",
			want:     []fsqlexec.Statement{},
		},
		{
			name:     "empty",
			contents: "",
			want:     []fsqlexec.Statement{},
		},
	}

	ext := newExtractor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ext.ExtractString(tt.contents)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractString_CustomKeywordsAndTerminator(t *testing.T) {
	ext, err := fsqlexec.NewRegexExtractor([]string{"PRAGMA", "VACUUM"}, "$$")
	require.NoError(t, err)

	got := ext.ExtractString("PRAGMA foreign_keys = ON$$\nCREATE TABLE a (id int);\nvacuum main$$")
	assert.Equal(t, []fsqlexec.Statement{"PRAGMA foreign_keys = ON", "vacuum main"}, got)
}

func TestNewRegexExtractor_EmptyKeyword(t *testing.T) {
	_, err := fsqlexec.NewRegexExtractor([]string{"SELECT", " "}, ";")
	assert.Error(t, err)
}

func TestExtract_OnePerFileInOrder(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeSQL(t, dir, "a.sql", "CREATE TABLE a (id int);\nINSERT INTO a VALUES (1);\n"),
		writeSQL(t, dir, "empty.sql", ""),
		writeSQL(t, dir, "comments.sql", "-- only a comment\n"),
		writeSQL(t, dir, "c.sql", "DROP TABLE a;"),
	}

	result, err := newExtractor(t).Extract(files)
	require.NoError(t, err)
	require.Len(t, result, len(files))

	assert.Equal(t, files, result.Files())
	assert.Len(t, result[0].Statements, 2)
	assert.Empty(t, result[1].Statements)
	assert.Empty(t, result[2].Statements)
	assert.Equal(t, []fsqlexec.Statement{"DROP TABLE a"}, result[3].Statements)
	assert.Equal(t, 3, result.Count())
	assert.Len(t, result[0].File.MD5, 32)
}

func TestExtract_Idempotent(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeSQL(t, dir, "a.sql", "CREATE TABLE a (\n id int\n);\n-- c\nSELECT 1;"),
	}
	ext := newExtractor(t)

	first, err := ext.Extract(files)
	require.NoError(t, err)
	second, err := ext.Extract(files)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtract_CRLF(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeSQL(t, dir, "win.sql", "-- c\r\nCREATE TABLE a (\r\nid int\r\n);\r\n")}

	result, err := newExtractor(t).Extract(files)
	require.NoError(t, err)
	assert.Equal(t, []fsqlexec.Statement{"CREATE TABLE a ( id int )"}, result[0].Statements)
}

func TestExtract_MissingFile(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeSQL(t, dir, "a.sql", "SELECT 1;"),
		filepath.Join(dir, "missing.sql"),
	}

	result, err := newExtractor(t).Extract(files)
	assert.Nil(t, result)

	var fae *fsqlexec.FileAccessError
	require.ErrorAs(t, err, &fae)
	assert.Equal(t, files[1], fae.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bin.sql")
	require.NoError(t, os.WriteFile(path, []byte{'S', 'E', 'L', 0xff, 0xfe, ';'}, 0644))

	_, err := newExtractor(t).Extract([]string{path})

	var ee *fsqlexec.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, path, ee.Path)
	assert.Contains(t, err.Error(), path)
}
