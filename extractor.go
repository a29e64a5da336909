package fsqlexec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Statement is a single SQL command on one line, without its terminator.
type Statement string

func (s Statement) String() string { return string(s) }

// DefaultKeywords are the leading keywords that start a statement.
var DefaultKeywords = []string{"SELECT", "INSERT", "DELETE", "UPDATE", "CREATE", "ALTER", "DROP"}

// DefaultTerminator ends a statement.
const DefaultTerminator = ";"

// Extractor turns SQL files into statements. Implementations must return
// exactly one entry per file, in the order given.
type Extractor interface {
	Extract(files []string) (ExtractionResult, error)
}

// RegexExtractor finds statements with a regular expression built from a
// keyword allow-list and a terminator.
//
// It is not a SQL lexer: a terminator or keyword inside a string literal is
// treated like any other text, and a keyword without a later terminator is
// dropped.
type RegexExtractor struct {
	terminator  string
	statementRe *regexp.Regexp
}

// Lines made only of a leading run of "-" and whatever follows are comments.
var commentLineRe = regexp.MustCompile(`(?m)^-+.*$`)

// NewRegexExtractor returns an extractor for the given keywords and
// terminator. Empty arguments fall back to DefaultKeywords and
// DefaultTerminator.
func NewRegexExtractor(keywords []string, terminator string) (*RegexExtractor, error) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	if terminator == "" {
		terminator = DefaultTerminator
	}
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			return nil, errors.New("statement keyword must not be empty")
		}
		quoted = append(quoted, regexp.QuoteMeta(kw))
	}
	pattern := fmt.Sprintf(`(?is)(?:%s)[ \t]+.*?%s`, strings.Join(quoted, "|"), regexp.QuoteMeta(terminator))
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid statement pattern: %w", err)
	}
	return &RegexExtractor{
		terminator:  terminator,
		statementRe: re,
	}, nil
}

// Extract reads every file and returns its statements. The first file that
// cannot be read or scanned aborts the whole extraction.
func (e *RegexExtractor) Extract(files []string) (ExtractionResult, error) {
	result := make(ExtractionResult, 0, len(files))
	for _, file := range files {
		fs, err := e.extractFile(file)
		if err != nil {
			return nil, err
		}
		result = append(result, fs)
	}
	return result, nil
}

func (e *RegexExtractor) extractFile(path string) (fs FileStatements, err error) {
	contents, err := readSQLFile(path)
	if err != nil {
		var fae *FileAccessError
		if errors.As(err, &fae) {
			return fs, err
		}
		return fs, &ExtractionError{Path: path, Err: err}
	}

	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{Path: path, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if !utf8.ValidString(contents) {
		return fs, &ExtractionError{Path: path, Err: errors.New("contents are not valid UTF-8")}
	}
	return FileStatements{
		File:       SourceFile{Path: path, MD5: checksum(contents)},
		Statements: e.ExtractString(contents),
	}, nil
}

// ExtractString returns the statements found in contents. It never returns
// nil.
func (e *RegexExtractor) ExtractString(contents string) []Statement {
	contents = commentLineRe.ReplaceAllString(contents, "")
	matches := e.statementRe.FindAllString(contents, -1)
	stmts := make([]Statement, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		m = strings.ReplaceAll(m, "\n", " ")
		m = strings.ReplaceAll(m, e.terminator, "")
		stmts = append(stmts, Statement(m))
	}
	return stmts
}
