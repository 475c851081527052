package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"go.trai.ch/linkman/internal/adapters/detector"
	"go.trai.ch/linkman/internal/adapters/prompt"
)

const shellPrompt = "linkman> "

func (c *CLI) newShellCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run commands against one open scene until exit",
		Long: "Reads one command per line and runs it against the scene opened at start.\n" +
			"Changes are kept in memory until \"save\" is run. Type \"exit\" to leave.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			c.app.SetPrompter(prompt.New(in, cmd.ErrOrStderr()))
			interactive := detector.ResolveMode(detector.Detect(cmd.InOrStdin()), mode) == detector.ModeInteractive
			return c.repl(cmd, in, interactive)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "auto", "Prompt style: auto, interactive or linear")
	return cmd
}

func (c *CLI) repl(cmd *cobra.Command, in *bufio.Reader, interactive bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	for ctx.Err() == nil {
		if interactive {
			_, _ = fmt.Fprint(out, shellPrompt)
		}
		line, readErr := in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if done := c.runLine(cmd, line); done {
				return nil
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
	return nil
}

// runLine executes one shell line and reports whether the shell should exit.
func (c *CLI) runLine(cmd *cobra.Command, line string) bool {
	args, err := shellwords.Parse(line)
	if err != nil {
		c.logger.Error(err)
		return false
	}
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "exit", "quit":
		return true
	case "shell":
		c.logger.Warn("Already in a shell")
		return false
	}

	child := &CLI{app: c.app, config: c.config, logger: c.logger, opened: true, inShell: true}
	child.rootCmd = child.newRootCmd()
	child.SetArgs(args)
	child.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	child.SetInput(cmd.InOrStdin())

	if err := child.Execute(cmd.Context()); err != nil && !errors.Is(err, ErrCancelled) {
		c.logger.Error(err)
	}
	return false
}
