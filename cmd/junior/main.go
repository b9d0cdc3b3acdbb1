package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sameehj/junior/pkg/agent"
	"github.com/sameehj/junior/pkg/agent/llm"
	"github.com/sameehj/junior/pkg/config"
	"github.com/sameehj/junior/pkg/env"
	"github.com/sameehj/junior/pkg/logging"
	"github.com/sameehj/junior/pkg/render"
	"github.com/sameehj/junior/pkg/session"
	"github.com/sameehj/junior/pkg/tool"
	"github.com/sameehj/junior/pkg/version"
	"github.com/sameehj/junior/pkg/workspace"
)

const (
	exitOK           = 0
	exitError        = 1
	exitActionFailed = 2
)

// exitCodeError carries a process exit code out of a cobra RunE.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error { return e.err }

type app struct {
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer

	cfgFile     string
	contextFile string
	policy      string
	workspace   string
	dryRun      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: bufio.NewReader(stdin), stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitOK
	}
	var ec *exitCodeError
	if errors.As(err, &ec) {
		if ec.err != nil {
			fmt.Fprintf(stderr, "error: %v\n", ec.err)
		}
		return ec.code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return exitError
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "junior [prompt]",
		Short:         "Ask a model to edit files in the current directory",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ask(cmd.Context(), strings.Join(args, " "))
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ~/.junior.toml or ~/.junior/config.yaml)")
	root.Flags().StringVarP(&a.contextFile, "file", "f", "", "file whose contents are sent along with the prompt")
	root.Flags().StringVar(&a.policy, "policy", "", "confirmation policy: always, trust-hint or never")
	root.Flags().StringVar(&a.workspace, "workspace", "", "directory the model may modify (default: current directory)")
	root.Flags().BoolVar(&a.dryRun, "dry-run", false, "parse and validate the plan without touching files")

	root.AddCommand(a.toolsCmd())
	root.AddCommand(a.historyCmd())
	root.AddCommand(a.versionCmd())
	return root
}

func (a *app) loadConfig() (*config.Config, error) {
	if pwd, err := os.Getwd(); err == nil {
		if err := env.LoadFromDir(pwd); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	if err := env.LoadFromDir(workspace.HomeDir()); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return config.LoadConfig(a.cfgFile)
}

func (a *app) ask(ctx context.Context, prompt string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	policy := cfg.ConfirmPolicy
	if a.policy != "" {
		if policy, err = tool.ParsePolicy(a.policy); err != nil {
			return err
		}
	}

	actions, err := cfg.ActionPolicy()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, a.stderr)
	defer func() { _ = logger.Sync() }()

	client := llm.NewOpenAIClient(cfg.APIKey, cfg.Model,
		llm.WithEndpoint(cfg.Endpoint),
		llm.WithTimeout(cfg.Timeout.Duration),
		llm.WithLogger(logger),
	)
	rt, err := agent.NewRuntime(&agent.Config{
		Workspace:    a.workspace,
		HistoryDir:   cfg.HistoryDir,
		Model:        client.Model(),
		LLM:          client,
		Policy:       policy,
		Actions:      actions,
		Confirmer:    a.confirmer(),
		Logger:       logger,
		MaxReadBytes: cfg.MaxReadBytes,
		MaxTokens:    cfg.MaxTokens,
		Timeout:      cfg.Timeout.Duration,
	})
	if err != nil {
		return err
	}
	logger.Debug("starting session",
		zap.String("workspace", rt.Workspace()),
		zap.String("policy", string(policy)),
		zap.Bool("dry_run", a.dryRun))

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := rt.Run(ctx, agent.Request{
		Prompt:      prompt,
		ContextFile: a.contextFile,
		DryRun:      a.dryRun,
	})
	printer := render.NewPrinter(a.stdout)
	if err != nil {
		if out == nil {
			return &exitCodeError{code: exitError, err: err}
		}
		printer.ParseFailure(err)
		a.reportTranscript(printer, out)
		return &exitCodeError{code: exitError}
	}

	printer.Summary(out.Plan, out.Results)
	a.reportTranscript(printer, out)
	if out.Failed() {
		return &exitCodeError{code: exitActionFailed}
	}
	return nil
}

func (a *app) reportTranscript(printer *render.Printer, out *agent.Outcome) {
	if out.RecordErr != nil {
		fmt.Fprintf(a.stderr, "warning: %v\n", out.RecordErr)
		return
	}
	printer.Notice("session saved to %s", out.TranscriptPath)
}

// confirmer asks on stdout and reads y/yes from stdin.
func (a *app) confirmer() tool.Confirmer {
	return tool.ConfirmFunc(func(question string) bool {
		fmt.Fprintf(a.stdout, "%s [y/N] ", question)
		line, err := a.stdin.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(a.stdout)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}

func (a *app) toolsCmd() *cobra.Command {
	var schema bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the file actions offered to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schema {
				fmt.Fprint(a.stdout, tool.Schema())
				return nil
			}
			render.NewPrinter(a.stdout).Definitions(tool.Definitions())
			return nil
		},
	}
	cmd.Flags().BoolVar(&schema, "schema", false, "print the JSON schema of every action")
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			entries, err := store.List()
			if err != nil {
				return err
			}
			render.NewPrinter(a.stdout).History(entries)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Print one session transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			tr, err := store.Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(tr)
		},
	})
	return cmd
}

func (a *app) store() (*session.Store, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return session.NewStore(cfg.HistoryDir), nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "junior %s\n", version.String())
		},
	}
}
