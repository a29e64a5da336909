package fsqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// What to do with the transaction when a statement fails.
const (
	// OnFailureCommit commits the statements that ran before the failure.
	OnFailureCommit = "commit"
	// OnFailureRollback rolls back the whole run.
	OnFailureRollback = "rollback"
)

// Config holds settings for an Executor.
type Config struct {
	// Driver is the database driver, "pg" or "sqlite3". It decides how
	// statement failures are classified; empty treats all of them as
	// driver errors.
	Driver string

	// Keywords that start a statement. Defaults to DefaultKeywords.
	Keywords []string

	// Terminator ends a statement. Defaults to ";".
	Terminator string

	// OnFailure is OnFailureCommit or OnFailureRollback.
	OnFailure string

	// Extractor replaces the regular expression extractor built from
	// Keywords and Terminator.
	Extractor Extractor
}

// DefaultConfig provides default values for configuration.
var DefaultConfig = Config{
	Keywords:   DefaultKeywords,
	Terminator: DefaultTerminator,
	OnFailure:  OnFailureCommit,
}

// withDefaults fills unset fields from DefaultConfig and validates the rest.
func (cfg Config) withDefaults() (Config, error) {
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultConfig.Keywords
	}
	if cfg.Terminator == "" {
		cfg.Terminator = DefaultConfig.Terminator
	}
	cfg.OnFailure = strings.ToLower(strings.TrimSpace(cfg.OnFailure))
	switch cfg.OnFailure {
	case "":
		cfg.OnFailure = DefaultConfig.OnFailure
	case OnFailureCommit, OnFailureRollback:
	default:
		return cfg, fmt.Errorf("on-failure must be one of: %s, %s", OnFailureCommit, OnFailureRollback)
	}
	return cfg, nil
}

// Executor runs the statements of a set of SQL files in one transaction.
//
// An Executor owns its *sql.DB until Close. It is not safe for concurrent use.
type Executor struct {
	cfg     Config
	db      *sql.DB
	dialect dialect
	result  ExtractionResult
}

// NewExecutor extracts the statements of files and returns an Executor that
// will run them on db. Extraction errors are returned before anything touches
// the database.
func NewExecutor(cfg Config, files []string, db *sql.DB) (*Executor, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	ext := cfg.Extractor
	if ext == nil {
		ext, err = NewRegexExtractor(cfg.Keywords, cfg.Terminator)
		if err != nil {
			return nil, err
		}
	}
	result, err := ext.Extract(files)
	if err != nil {
		return nil, err
	}
	if len(result) != len(files) {
		return nil, fmt.Errorf("extractor returned %d entries for %d files", len(result), len(files))
	}
	return NewExecutorFromResult(cfg, result, db)
}

// NewExecutorFromResult returns an Executor for statements that were already
// extracted.
func NewExecutorFromResult(cfg Config, result ExtractionResult, db *sql.DB) (*Executor, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	d, err := newDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	return &Executor{
		cfg:     cfg,
		db:      db,
		dialect: d,
		result:  result.clone(),
	}, nil
}

// Files returns the SQL file paths in execution order.
func (e *Executor) Files() []string {
	return e.result.Files()
}

// Statements returns a copy of the extracted statements.
func (e *Executor) Statements() ExtractionResult {
	return e.result.clone()
}

// Run executes every statement of every file, in order, in one transaction.
//
// The first failing statement stops the run and is returned as a
// *StatementExecutionError. The transaction is then committed or rolled back
// according to Config.OnFailure; if that also fails both errors are
// returned joined. When everything succeeds the transaction is committed
// once.
func (e *Executor) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if e.db == nil {
		return &ConnectionError{Err: errors.New("no database connection")}
	}
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error().Err(err).Msg("failed to begin transaction")
		return &ConnectionError{Err: err}
	}
	// No-op once the transaction is committed or rolled back.
	defer func() { _ = tx.Rollback() }()

	runErr := e.execAll(ctx, tx)
	if runErr == nil {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		logger.Info().Int("files", len(e.result)).Int("statements", e.result.Count()).Msg("SQL committed")
		return nil
	}

	var cleanupErr error
	switch e.cfg.OnFailure {
	case OnFailureRollback:
		if err := tx.Rollback(); err != nil {
			cleanupErr = fmt.Errorf("rollback after failure: %w", err)
		} else {
			logger.Warn().Msg("transaction rolled back")
		}
	default:
		if err := tx.Commit(); err != nil {
			cleanupErr = fmt.Errorf("commit after failure: %w", err)
		} else {
			logger.Warn().Msg("statements before the failure committed")
		}
	}
	if cleanupErr != nil {
		return errors.Join(runErr, cleanupErr)
	}
	return runErr
}

func (e *Executor) execAll(ctx context.Context, tx *sql.Tx) error {
	logger := zerolog.Ctx(ctx)
	for i, fs := range e.result {
		logger.Info().
			Str("file", fs.File.Path).
			Str("md5", fs.File.MD5).
			Int("statements", len(fs.Statements)).
			Msg("executing SQL file")
		for _, stmt := range fs.Statements {
			logger.Debug().Str("sql", string(stmt)).Msg("executing statement")
			if _, err := tx.ExecContext(ctx, string(stmt)); err != nil {
				kind, code := e.dialect.classify(err)
				logger.Error().
					Err(err).
					Str("file", fs.File.Path).
					Str("sql", string(stmt)).
					Stringer("kind", kind).
					Msg("SQL execution error")
				return &StatementExecutionError{
					FileIndex: i,
					File:      fs.File.Path,
					Statement: stmt,
					Kind:      kind,
					Code:      code,
					Err:       err,
				}
			}
		}
	}
	return nil
}

// Close closes the database connection. Nothing is pending between runs, so
// there is nothing left to commit. Close on a nil or already closed
// connection is a no-op.
func (e *Executor) Close() error {
	if e == nil || e.db == nil {
		return nil
	}
	db := e.db
	e.db = nil
	return db.Close()
}
