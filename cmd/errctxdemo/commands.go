package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpyw/errctxguard/internal/config"
	"github.com/mpyw/errctxguard/internal/host"
)

// errFailedCalls is returned when at least one call ended with an error.
var errFailedCalls = errors.New("some calls failed")

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	backtrace  bool
	guard      bool

	// set by subcommands that override parallel
	parallel int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "errctxdemo",
		Short:        "Demonstrate error context stack corruption and its detection",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log_level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "override log_format (text, json)")
	flags.BoolVar(&opts.backtrace, "backtrace", false, "attach call stacks to leak reports")
	flags.BoolVar(&opts.guard, "guard", false, "attach a guard to every variant that pushes an entry")

	cmd.AddCommand(
		newCallCmd(opts),
		newBatchCmd(opts),
		newVariantsCmd(),
	)

	return cmd
}

// newHost loads configuration, applies flag overrides and builds a host
// that logs to stderr.
func (o *rootOptions) newHost(cmd *cobra.Command) (*host.Host, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if flags.Changed("backtrace") {
		cfg.Backtrace = o.backtrace
	}
	if flags.Changed("guard") {
		cfg.Guard = o.guard
	}
	if o.parallel != 0 {
		cfg.Parallel = o.parallel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return host.New(cfg, logger), nil
}

func newCallCmd(root *rootOptions) *cobra.Command {
	var doIt bool

	cmd := &cobra.Command{
		Use:   "call VARIANT",
		Short: "Run one variant as a unit of work",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := root.newHost(cmd)
			if err != nil {
				return err
			}

			res, err := h.Call(cmd.Context(), doIt, args[0])
			printResult(cmd.OutOrStdout(), res)

			return err
		},
	}
	cmd.Flags().BoolVar(&doIt, "do-it", false, "take the branch that does the thing")

	return cmd
}

func newBatchCmd(root *rootOptions) *cobra.Command {
	var (
		doIt     bool
		repeat   int
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "batch VARIANT...",
		Short: "Run variants as independent concurrent units of work",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if repeat < 1 {
				return fmt.Errorf("--repeat must be positive, got %d", repeat)
			}
			if cmd.Flags().Changed("parallel") {
				root.parallel = parallel
			}

			h, err := root.newHost(cmd)
			if err != nil {
				return err
			}

			var reqs []host.Request
			for range repeat {
				for _, variant := range args {
					reqs = append(reqs, host.Request{DoIt: doIt, Variant: variant})
				}
			}

			results, err := h.RunMany(cmd.Context(), reqs)
			if err != nil {
				return err
			}

			failed := 0
			for _, res := range results {
				printResult(cmd.OutOrStdout(), res)
				if res.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errFailedCalls, failed, len(results))
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&doIt, "do-it", false, "take the branch that does the thing")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "run the variant list this many times")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "override parallel")

	return cmd
}

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the variant selectors",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(host.Variants(), "\n"))
		},
	}
}

func printResult(w io.Writer, res *host.Result) {
	status := "ok"
	if res.Err != nil {
		status = res.Err.Error()
	}

	fmt.Fprintf(w, "variant=%s do_it=%t depth=%d dangling=%t leaks=%d status=%q\n",
		res.Variant, res.DoIt, res.Depth, res.Dangling, res.Leaks(), status)
}
