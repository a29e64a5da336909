// Package cli implements the command shared by the fsqlexec binaries.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bcomnes/fsqlexec"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 1
	ExitMissingFile = 2
	ExitFailure     = 3
)

// Options describe one binary.
type Options struct {
	// Name is the command name shown in help and version output.
	Name string

	// Driver fixes the database driver. When empty the command gets a
	// --driver flag.
	Driver string

	// ConnEnv names the environment variable holding a connection URL.
	ConnEnv string

	// IniFile and Profile are the defaults of --ini-file and --profile.
	IniFile string
	Profile string

	// Provider opens connections from --ini-file/--profile. Defaults to an
	// fsqlexec.IniProvider.
	Provider fsqlexec.ConnectionProvider
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "fsqlexec"
	}
	if o.IniFile == "" {
		o.IniFile = fsqlexec.DefaultIniFile
	}
	if o.Profile == "" {
		o.Profile = fsqlexec.DefaultProfile
	}
	return o
}

// usageError marks errors caused by bad command-line input.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// ExitCode maps an error returned by the command to a process exit status.
func ExitCode(err error) int {
	var ue usageError
	var fae *fsqlexec.FileAccessError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ue):
		return ExitUsage
	case errors.As(err, &fae):
		return ExitMissingFile
	default:
		return ExitFailure
	}
}

// Main runs the command with os.Args and returns the exit status.
func Main(opts Options) int {
	cmd := NewRootCmd(opts)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitCode(err)
	}
	return ExitOK
}

type flags struct {
	excludeFile string
	iniFile     string
	profile     string
	conn        string
	driver      string
	onFailure   string
	dryRun      bool
	timeout     time.Duration
	logLevel    string
	logFormat   string
}

// NewRootCmd creates the command.
func NewRootCmd(opts Options) *cobra.Command {
	opts = opts.withDefaults()
	f := &flags{}

	cmd := &cobra.Command{
		Use:   opts.Name + " [flags] FILE...",
		Short: "Execute the SQL statements of one or more files in a single transaction",
		Long: `Reads the given SQL files, extracts the statements that start with
SELECT, INSERT, DELETE, UPDATE, CREATE, ALTER or DROP and end with ";",
and executes them in file order inside one transaction.

Lines starting with "-" are comments. Files named in --exclude-file are
skipped. Exit status is 2 when a file is missing and 3 on other failures.`,
		Version: fsqlexec.Version,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError{errors.New("at least one SQL file is required")}
			}
			return nil
		},
		PreRunE: func(_ *cobra.Command, _ []string) error {
			switch strings.ToLower(f.onFailure) {
			case fsqlexec.OnFailureCommit, fsqlexec.OnFailureRollback:
			default:
				return usageError{fmt.Errorf("--on-failure must be %s or %s", fsqlexec.OnFailureCommit, fsqlexec.OnFailureRollback)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, f, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} version: {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	bindFlags(cmd.Flags(), opts, f)

	_ = cmd.RegisterFlagCompletionFunc("on-failure", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{fsqlexec.OnFailureCommit, fsqlexec.OnFailureRollback}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// bindFlags registers the command's flags on fl.
func bindFlags(fl *pflag.FlagSet, opts Options, f *flags) {
	connHelp := "Connection URL. Overrides the ini file."
	if opts.ConnEnv != "" {
		connHelp = fmt.Sprintf("Connection URL. Overrides %s and the ini file.", opts.ConnEnv)
	}

	fl.StringVar(&f.excludeFile, "exclude-file", "", "File listing SQL files to skip, one path per line")
	fl.StringVar(&f.iniFile, "ini-file", opts.IniFile, "INI file with database connection settings")
	fl.StringVar(&f.profile, "profile", opts.Profile, "Section of the ini file to use")
	fl.StringVar(&f.conn, "conn", "", connHelp)
	if opts.Driver == "" {
		fl.StringVar(&f.driver, "driver", "pg", "Database driver: pg or sqlite3")
	}
	fl.StringVar(&f.onFailure, "on-failure", fsqlexec.OnFailureCommit, "What to do with the transaction when a statement fails: commit or rollback")
	fl.BoolVar(&f.dryRun, "dry-run", false, "Print the extracted statements without connecting to the database")
	fl.DurationVar(&f.timeout, "timeout", 10*time.Minute, "Maximum duration of the whole run")
	fl.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fl.StringVar(&f.logFormat, "log-format", "auto", "Log format: auto, console or json")
	fl.SortFlags = false
}

func run(cmd *cobra.Command, opts Options, f *flags, args []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), f.logLevel, f.logFormat)
	if err != nil {
		return usageError{err}
	}
	ctx := logger.WithContext(cmd.Context())

	driver := opts.Driver
	if driver == "" {
		driver = f.driver
	}

	files, err := fsqlexec.ResolveFiles(args, f.excludeFile)
	if err != nil {
		return err
	}
	logger.Info().Strs("files", files).Msg("SQL files")

	cfg := fsqlexec.Config{Driver: driver, OnFailure: f.onFailure}
	ext, err := fsqlexec.NewRegexExtractor(cfg.Keywords, cfg.Terminator)
	if err != nil {
		return err
	}
	result, err := ext.Extract(files)
	if err != nil {
		return err
	}

	if f.dryRun {
		printStatements(cmd.OutOrStdout(), result)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	db, err := connect(ctx, opts, f, driver)
	if err != nil {
		return err
	}
	ex, err := fsqlexec.NewExecutorFromResult(cfg, result, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := ex.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close database connection")
		}
	}()

	if err := ex.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Executed %d statements from %d files.\n", result.Count(), len(result))
	return nil
}

// connect opens the database. Precedence: --conn flag > connection env var >
// ini file profile.
func connect(ctx context.Context, opts Options, f *flags, driver string) (*sql.DB, error) {
	url := f.conn
	if url == "" && opts.ConnEnv != "" {
		url = os.Getenv(opts.ConnEnv)
	}
	if url != "" {
		return fsqlexec.Open(ctx, fsqlexec.ConnConfig{Driver: driver, URL: url})
	}

	provider := opts.Provider
	if provider == nil {
		provider = fsqlexec.IniProvider{Driver: driver, EnvPrefix: fsqlexec.DefaultEnvPrefix}
	}
	return provider.Connect(ctx, f.iniFile, f.profile)
}

// printStatements writes the extraction result as runnable SQL.
func printStatements(w io.Writer, result fsqlexec.ExtractionResult) {
	for _, fs := range result {
		fmt.Fprintf(w, "-- %s (%d statements)\n", fs.File.Path, len(fs.Statements))
		for _, stmt := range fs.Statements {
			fmt.Fprintf(w, "%s;\n", stmt)
		}
	}
}

func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}

	out := w
	switch strings.ToLower(format) {
	case "console":
		out = zerolog.ConsoleWriter{Out: w}
	case "json":
	case "auto", "":
		if file, ok := w.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
			out = zerolog.ConsoleWriter{Out: w}
		}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", format)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
