package fsqlexec

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
)

// SourceFile is a SQL file handed to the extractor.
type SourceFile struct {
	// Path is the path as given by the caller.
	Path string

	// MD5 is the checksum of the file contents after line endings were
	// normalized to LF.
	MD5 string
}

// FileStatements holds the statements extracted from one file, in file order.
type FileStatements struct {
	File       SourceFile
	Statements []Statement
}

// ExtractionResult has one entry per input file, in input order. Files
// without statements still get an entry.
type ExtractionResult []FileStatements

// Files returns the paths of all entries.
func (r ExtractionResult) Files() []string {
	files := make([]string, len(r))
	for i, fs := range r {
		files[i] = fs.File.Path
	}
	return files
}

// Count returns the total number of statements across all files.
func (r ExtractionResult) Count() int {
	n := 0
	for _, fs := range r {
		n += len(fs.Statements)
	}
	return n
}

// clone returns a copy that shares no slices with r.
func (r ExtractionResult) clone() ExtractionResult {
	if r == nil {
		return nil
	}
	out := make(ExtractionResult, len(r))
	for i, fs := range r {
		var stmts []Statement
		if fs.Statements != nil {
			stmts = make([]Statement, len(fs.Statements))
			copy(stmts, fs.Statements)
		}
		out[i] = FileStatements{File: fs.File, Statements: stmts}
	}
	return out
}

var lineEndingRe = regexp.MustCompile(`\r\n|\r|\n`)

// convertLineEnding converts all newline variations in content to the target style.
func convertLineEnding(content, lineEnding string) (string, error) {
	var target string
	switch lineEnding {
	case "LF":
		target = "\n"
	case "CR":
		target = "\r"
	case "CRLF":
		target = "\r\n"
	default:
		return "", fmt.Errorf("newline must be one of: LF, CR, CRLF")
	}
	return lineEndingRe.ReplaceAllString(content, target), nil
}

// checksum computes the MD5 checksum of content.
func checksum(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// readSQLFile reads a SQL file and returns its contents with LF line endings.
func readSQLFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &FileAccessError{Path: path, Err: err}
	}
	return convertLineEnding(string(data), "LF")
}
