// Package cli implements the admissions command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"admissions-explorer/internal/aggregate"
	"admissions-explorer/internal/config"
	"admissions-explorer/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		if getOutputFormat(rootCmd) == outputJSON {
			errObj := map[string]any{"error": err.Error()}
			if kind := domain.ErrorKind(err); kind != "" {
				errObj["kind"] = kind
			}
			_ = PrintJSON(stdout, errObj)
		} else {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// runtime carries the resolved flags and configuration to subcommands.
type runtime struct {
	rawDir      string
	sourcesFile string
	cleanedDir  string
	dbPath      string
	envFile     string
	logLevel    string
	output      string
	terms       []int
	categories  []string

	cfg    *config.Config
	logger *slog.Logger
}

// selection builds the filter selection from --term and --category. A flag
// that was not given does not filter.
func (rt *runtime) selection(cmd *cobra.Command) aggregate.Selection {
	var sel aggregate.Selection
	if cmd.Flags().Changed("term") {
		sel.Terms = append([]int{}, rt.terms...)
	}
	if cmd.Flags().Changed("category") {
		sel.Categories = append([]string{}, rt.categories...)
	}
	return sel
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:           "admissions",
		Short:         "UC admissions data explorer",
		Long:          "Clean, join, and summarize the UC freshman admissions exports, publish them, or serve the dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(rt.output); err != nil {
				return err
			}
			if err := config.LoadDotEnv(rt.envFile); err != nil {
				return fmt.Errorf("load %s: %w", rt.envFile, err)
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			// Flags win over the environment.
			if cmd.Flags().Changed("raw-dir") {
				cfg.RawDataDir = rt.rawDir
			}
			if cmd.Flags().Changed("sources") {
				cfg.SourcesFile = rt.sourcesFile
			}
			if cmd.Flags().Changed("cleaned-dir") {
				cfg.CleanedDataDir = rt.cleanedDir
			}
			if cmd.Flags().Changed("db") {
				cfg.WarehouseDBPath = rt.dbPath
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = rt.logLevel
			}
			rt.cfg = cfg
			rt.logger = newLogger(cmd.ErrOrStderr(), cfg)
			for _, w := range cfg.Warnings {
				rt.logger.Warn(w)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rt.rawDir, "raw-dir", "", "Directory holding the raw exports (default $RAW_DATA_DIR or data/raw)")
	pf.StringVar(&rt.sourcesFile, "sources", "", "YAML file overriding individual export paths (default $SOURCES_FILE)")
	pf.StringVar(&rt.cleanedDir, "cleaned-dir", "", "Directory for cleaned CSV output (default $CLEANED_DATA_DIR or data/cleaned)")
	pf.StringVar(&rt.dbPath, "db", "", "Warehouse SQLite path (default $WAREHOUSE_DB_PATH or admissions.sqlite)")
	pf.StringVar(&rt.envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
	pf.StringVar(&rt.logLevel, "log-level", "", "Log level: debug, info, warn, error (default $LOG_LEVEL or info)")
	pf.StringVarP(&rt.output, "output", "o", "", "Output format (table, json, csv); default is table on a terminal, csv otherwise")
	pf.IntSliceVar(&rt.terms, "term", nil, "Keep only these fall terms (repeatable)")
	pf.StringArrayVar(&rt.categories, "category", nil, "Keep only these categories (repeatable)")

	rootCmd.AddCommand(newCleanCmd(rt))
	rootCmd.AddCommand(newJoinCmd(rt))
	rootCmd.AddCommand(newPercentagesCmd(rt))
	rootCmd.AddCommand(newAcceptanceRateCmd(rt))
	rootCmd.AddCommand(newPublishCmd(rt))
	rootCmd.AddCommand(newServeCmd(rt))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// newLogger logs to w so command output on stdout stays clean.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
