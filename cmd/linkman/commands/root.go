// Package commands implements the CLI commands for linkman.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.trai.ch/linkman/internal/adapters/telemetry"
	"go.trai.ch/linkman/internal/app"
	"go.trai.ch/linkman/internal/build"
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/zerr"
)

// ErrCancelled is returned when an action finished as cancelled. Its report has
// already been logged.
var ErrCancelled = zerr.New("action cancelled")

// skipOpen marks commands that run without a scene document.
const skipOpen = "linkman/skip-open"

// Application represents the application logic interface.
type Application interface {
	Open(ctx context.Context, cfg domain.Config) domain.Report
	Save(ctx context.Context) domain.Report
	ToggleExpand(ctx context.Context, path string) domain.Report
	ToggleLoad(ctx context.Context, path string) domain.Report
	Unload(ctx context.Context, path string) domain.Report
	Reload(ctx context.Context, path string) domain.Report
	Relocate(ctx context.Context, path, newPath string) domain.Report
	Delete(ctx context.Context, path string) domain.Report
	SwitchResolution(ctx context.Context, path, replacement string) domain.Report
	ToggleRenderResolution(ctx context.Context, path string) domain.Report
	Prefetch(ctx context.Context, path string) domain.Report
	AddLink(ctx context.Context, path string, req app.LinkRequest) domain.Report
	Render(ctx context.Context, cancel bool) domain.Report
	Snapshot(ctx context.Context, path string) (domain.LinkSnapshot, domain.Report)
	List(ctx context.Context, w io.Writer) domain.Report
	Watch(ctx context.Context) domain.Report
	SetPrompter(p ports.PathPrompter)
}

var _ Application = (*app.App)(nil)

type jsonSwitch interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for linkman.
type CLI struct {
	app     Application
	config  ports.ConfigLoader
	logger  ports.Logger
	rootCmd *cobra.Command

	configPath string
	scenePath  string
	jsonLogs   bool
	trace      bool

	// opened is set once the scene document is open; shell commands reuse it.
	opened   bool
	noSave   bool
	inShell  bool
	shutdown func(context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application, config ports.ConfigLoader, logger ports.Logger) *CLI {
	c := &CLI{app: a, config: config, logger: logger}
	c.rootCmd = c.newRootCmd()
	return c
}

func (c *CLI) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "linkman",
		Short:             "Manage linked libraries of a scene document",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           build.Version,
		PersistentPreRunE: c.open,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if c.shutdown == nil {
				return nil
			}
			err := c.shutdown(context.WithoutCancel(cmd.Context()))
			c.shutdown = nil
			return err
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Config file or directory to discover "+domain.ConfigFileName+" from")
	flags.StringVar(&c.scenePath, "scene", "", "Scene document to open (overrides the config)")
	flags.BoolVar(&c.jsonLogs, "json", false, "Log JSON records instead of pretty lines")
	flags.BoolVar(&c.trace, "trace", false, "Log a timing line for every action")
	flags.BoolVar(&c.noSave, "no-save", false, "Do not write the scene back after a change")

	rootCmd.AddCommand(
		c.newListCmd(),
		c.newExpandCmd(),
		c.newToggleCmd(),
		c.newUnloadCmd(),
		c.newReloadCmd(),
		c.newRelocateCmd(),
		c.newDeleteCmd(),
		c.newSwitchCmd(),
		c.newRenderResCmd(),
		c.newPrefetchCmd(),
		c.newLinkCmd(),
		c.newRenderCmd(),
		c.newSnapshotCmd(),
		c.newSaveCmd(),
		c.newWatchCmd(),
		c.newVersionCmd(),
	)
	if !c.inShell {
		rootCmd.AddCommand(c.newShellCmd())
	}
	return rootCmd
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the input stream read by the shell. Used for testing.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}

// open resolves the configuration and opens the scene document once.
func (c *CLI) open(cmd *cobra.Command, _ []string) error {
	if c.opened || cmd.Annotations[skipOpen] != "" {
		return nil
	}
	if js, ok := c.logger.(jsonSwitch); ok && c.jsonLogs {
		js.SetJSON(true)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.JSONLogs {
		if js, ok := c.logger.(jsonSwitch); ok {
			js.SetJSON(true)
		}
	}
	if c.trace {
		c.shutdown = telemetry.Install(c.logger)
	}

	if r := c.app.Open(cmd.Context(), cfg); !r.OK() {
		return ErrCancelled
	}
	c.opened = true
	return nil
}

func (c *CLI) loadConfig() (domain.Config, error) {
	start := c.configPath
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return domain.Config{}, zerr.Wrap(err, "failed to get working directory")
		}
		start = cwd
	} else if filepath.Base(start) == domain.ConfigFileName {
		start = filepath.Dir(start)
	}

	cfg, err := c.config.Load(start)
	if err != nil {
		return domain.Config{}, err
	}
	if c.scenePath != "" {
		abs, err := filepath.Abs(c.scenePath)
		if err != nil {
			return domain.Config{}, zerr.With(zerr.Wrap(err, "invalid scene path"), "path", c.scenePath)
		}
		cfg.ScenePath = abs
	}
	return cfg, nil
}

// result turns a report into the command's error. Finished mutating actions
// are saved unless disabled or running inside the shell.
func (c *CLI) result(cmd *cobra.Command, r domain.Report, mutates bool) error {
	if !r.OK() {
		return ErrCancelled
	}
	if mutates && !c.noSave && !c.inShell {
		if saved := c.app.Save(cmd.Context()); !saved.OK() {
			return ErrCancelled
		}
	}
	return nil
}
