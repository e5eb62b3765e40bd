// Package cli is the todoboard command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idilsaglam/todoboard/internal/auth"
	"github.com/idilsaglam/todoboard/internal/board"
	"github.com/idilsaglam/todoboard/internal/config"
	"github.com/idilsaglam/todoboard/internal/logging"
	"github.com/idilsaglam/todoboard/internal/remote"
	"github.com/idilsaglam/todoboard/internal/ui"
)

// flagKeys maps flag names to the viper keys they override.
var flagKeys = map[string]string{
	"config":       "config",
	"base-url":     "api.base_url",
	"theme":        "tui.theme",
	"log-level":    "logging.level",
	"log-file":     "logging.file",
	"metrics-addr": "metrics.addr",
	"page-size":    "board.page_size",
	"addr":         "server.addr",
	"store":        "server.store",
	"file":         "server.file",
	"redis-addr":   "server.redis_addr",
	"seed":         "server.seed",
}

// app is the state shared by every command once configuration is loaded.
type app struct {
	version string
	cfg     *config.Config
	logger  zerolog.Logger
	logFile io.Closer
}

// Execute runs the command tree against os.Args and returns the process exit
// code: 0 ok, 1 runtime error, 2 usage error.
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a := &app{version: version}
	return run(ctx, a, a.rootCmd(), os.Args[1:])
}

// run executes root and releases the app's resources whether or not the
// command succeeded.
func run(ctx context.Context, a *app, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	a.close()
	if err != nil {
		ui.Fail(root.ErrOrStderr(), err.Error())
		if exitCode(err) == ExitUsage {
			ui.Hint(root.ErrOrStderr(), "Run `todoboard --help` for usage.")
		}
	}
	return exitCode(err)
}

// NewRootCmd builds the command tree. Running it without a subcommand opens
// the interactive board.
func NewRootCmd(version string) *cobra.Command {
	return (&app{version: version}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "todoboard",
		Short:   "A paginated todo board for a JSONPlaceholder-style endpoint",
		Version: a.version,
		Long: `todoboard lists todo items from a remote REST endpoint one page at a time
and lets you add, edit, complete and delete them, either in an interactive
terminal board or with one-shot commands.`,
		Args:              usageArgs(cobra.NoArgs),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runBoard,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usagef(err) })

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/todoboard/config.yaml)")
	pf.String("base-url", "", "base URL of the todo endpoint")
	pf.String("theme", "", "color theme: "+strings.Join(config.ValidThemes(), ", "))
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-file", "", "log file path")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address")
	root.Flags().Int("page-size", 0, "initial page size")

	root.AddCommand(
		a.boardCmd(),
		a.lsCmd(),
		a.addCmd(),
		a.editCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.authCmd(),
		a.serveCmd(),
	)
	return root
}

// setup binds flags, loads configuration and starts logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := bindFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := initConfig(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	ui.SetTheme(cfg.TUI.Theme)

	w, err := logging.OpenFile(cfg.Logging.File)
	if err != nil {
		return err
	}
	a.logFile = w
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(cfg.Logging.Level)
	logCfg.Pretty = cfg.Logging.Pretty
	logCfg.Output = w
	logging.Setup(logCfg)
	a.logger = logging.NewLogger("cli")
	a.logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("config", viper.ConfigFileUsed()).
		Msg("Command started")
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func bindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

func initConfig() error {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	cfgFile := viper.GetString("config")
	explicit := cfgFile != ""
	if !explicit {
		cfgFile = config.ConfigFile()
	}
	viper.SetConfigFile(cfgFile)

	// TODOBOARD_BOARD_PAGE_SIZE for board.page_size
	viper.SetEnvPrefix("TODOBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func (a *app) tokens() *auth.Store { return auth.NewStore(config.ConfigDir()) }

func (a *app) remote() (*remote.Client, error) {
	ep := a.cfg.API.Endpoints()
	return remote.New(remote.Config{
		Endpoints: remote.Endpoints{
			List:   ep.ListURL,
			Create: ep.CreateURL,
			Update: ep.UpdateURL,
			Delete: ep.DeleteURL,
		},
		UserAgent: "todoboard/" + a.version,
		Token:     a.tokens().Token,
	})
}

func (a *app) board(r board.Remote) (*board.Board, error) {
	return board.New(r, board.Options{
		PageSize:        a.cfg.Board.PageSize,
		PageSizeOptions: a.cfg.Board.PageSizeOptions,
		TotalEstimate:   a.cfg.Board.TotalEstimate,
	})
}

// lastError returns the newest error notice as an error.
func lastError(b *board.Board) error {
	n, ok := b.LastNotice()
	if !ok || n.Kind != board.NoticeError {
		return nil
	}
	return errors.New(n.Text)
}
