package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/textswap/cmd/textswap/opts"
	"github.com/walteh/textswap/pkg/feedback"
	"github.com/walteh/textswap/pkg/field/browser"
	"github.com/walteh/textswap/pkg/field/clipboard"
	"github.com/walteh/textswap/pkg/operation"
	"github.com/walteh/textswap/pkg/rules"
	"github.com/walteh/textswap/pkg/status"
	"github.com/walteh/textswap/pkg/text"
	"gitlab.com/tozd/go/errors"
)

type runFlags struct {
	browser   browser.Config
	files     []string
	backup    bool
	async     bool
	clipboard bool
	stdin     bool
}

func NewRunCmd(opts *opts.RootOpts) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:     "perform-single-action",
		Aliases: []string{"run"},
		Short:   "Apply the replacement rules to the active target",
		Long: `perform-single-action applies the rules in the store to every editable
field of one target and reports how many replacements were made.

Targets:
  (default)      the active tab of a browser (--debugger-url attaches, otherwise one is launched)
  --file GLOB    HTML documents on disk, written back only when changed
  --clipboard    the system clipboard
  --stdin        standard input, the result is printed to standard output`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "perform-single-action").Logger().WithContext(ctx)

			modes := 0
			for _, set := range []bool{len(flags.files) > 0, flags.clipboard, flags.stdin} {
				if set {
					modes++
				}
			}
			if modes > 1 {
				return errors.New("--file, --clipboard and --stdin are mutually exclusive")
			}

			switch {
			case flags.stdin:
				return runStdin(ctx, cmd, opts)
			case len(flags.files) > 0:
				return runFiles(ctx, cmd, opts, flags)
			case flags.clipboard:
				return runSingle(ctx, opts, operation.ClipboardResolver(clipboard.System), feedback.NewConsoleBanner(os.Stderr, "clipboard"))
			default:
				return runPage(ctx, opts, flags.browser)
			}
		},
	}

	cmd.Flags().StringVar(&flags.browser.DebuggerURL, "debugger-url", "", "DevTools websocket URL of a running browser")
	cmd.Flags().StringVar(&flags.browser.Bin, "browser-bin", "", "browser binary to launch")
	cmd.Flags().BoolVar(&flags.browser.Headless, "headless", false, "launch the browser without a window")
	cmd.Flags().StringVar(&flags.browser.URL, "url", "", "page to open after launching the browser")
	cmd.Flags().IntVar(&flags.browser.TimeoutMs, "timeout", 0, "DevTools call timeout in milliseconds (default 30000)")
	cmd.Flags().StringSliceVarP(&flags.files, "file", "f", nil, "HTML documents to rewrite (doublestar globs)")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a .bak copy of every rewritten document")
	cmd.Flags().BoolVar(&flags.async, "async", false, "process documents concurrently")
	cmd.Flags().BoolVar(&flags.clipboard, "clipboard", false, "rewrite the system clipboard")
	cmd.Flags().BoolVar(&flags.stdin, "stdin", false, "rewrite standard input")

	return cmd
}

func runSingle(ctx context.Context, opts *opts.RootOpts, resolver operation.Resolver, banner feedback.Banner) error {
	_, err := operation.PerformSingleAction(ctx, operation.Options{
		Resolver: resolver,
		Store:    opts.Store,
		Notifier: opts.Notifier,
		Banner:   banner,
		Console:  opts.Console,
	})
	if err != nil {
		return errors.Errorf("performing action: %w", err)
	}
	return nil
}

func runPage(ctx context.Context, opts *opts.RootOpts, cfg browser.Config) error {
	session, err := browser.Connect(ctx, cfg)
	if err != nil {
		if nerr := opts.Notifier.Notify(ctx, feedback.NoTarget()); nerr != nil {
			zerolog.Ctx(ctx).Error().Err(nerr).Msg("failed to send notification")
		}
		return errors.Errorf("%w: %s", operation.ErrNoActiveTarget, err.Error())
	}
	defer session.Close()

	return runSingle(ctx, opts, operation.PageResolver(session), nil)
}

func runFiles(ctx context.Context, cmd *cobra.Command, opts *opts.RootOpts, flags *runFlags) error {
	paths, err := expandGlobs(flags.files)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		if nerr := opts.Notifier.Notify(ctx, feedback.NoTarget()); nerr != nil {
			zerolog.Ctx(ctx).Error().Err(nerr).Msg("failed to send notification")
		}
		return errors.Errorf("%w: no documents match %v", operation.ErrNoActiveTarget, flags.files)
	}

	logger := zerolog.Ctx(ctx)
	mgr := status.New(".", logger)

	opts.Console.Header(fmt.Sprintf("rewriting %d document(s)", len(paths)))

	jobs := make([]operation.Job, 0, len(paths))
	for _, path := range paths {
		jobOpts := operation.Options{
			Resolver: operation.DocumentResolver(mgr, path, flags.backup),
			Store:    opts.Store,
			Notifier: opts.Notifier,
			Banner:   feedback.NewConsoleBanner(cmd.ErrOrStderr(), path),
		}
		// console lines of concurrent jobs would interleave
		if !flags.async {
			jobOpts.Console = opts.Console
		}
		jobs = append(jobs, operation.Job{Path: path, Options: jobOpts})
	}

	_, runErr := operation.NewRunner(logger, mgr, flags.async).Run(ctx, jobs)

	counts, total := mgr.Summary(ctx)
	opts.Console.LogNewline()
	formatter := status.NewDefaultFormatter()
	for _, info := range mgr.ListDocuments(ctx) {
		if info.Status == status.StatusFailed {
			opts.Console.Warning(formatter.FormatDocument(info))
		}
	}
	opts.Console.Successf("%d replacement(s) in %d modified document(s), %d unchanged",
		total, counts[status.StatusModified], counts[status.StatusUnchanged])

	if runErr != nil {
		return errors.Errorf("rewriting documents: %w", runErr)
	}
	return nil
}

func runStdin(ctx context.Context, cmd *cobra.Command, opts *opts.RootOpts) error {
	set := rules.FromSource(ctx, opts.Store)
	if !set.HasActive() {
		opts.Console.Warning(feedback.NoActiveRules().Normal)
	}

	res, err := text.NewSimpleTextReplacer().ReplaceText(ctx, cmd.InOrStdin(), set)
	if err != nil {
		return errors.Errorf("replacing stdin: %w", err)
	}

	if _, err := cmd.OutOrStdout().Write(res.ModifiedContent); err != nil {
		return errors.Errorf("writing stdout: %w", err)
	}

	if set.HasActive() {
		if res.WasModified {
			opts.Console.Info(feedback.Replaced(res.ReplacementCount).Normal)
		} else {
			opts.Console.Info(feedback.NoChanges().Normal)
		}
	}
	return nil
}

// expandGlobs resolves doublestar patterns into a sorted, deduplicated list of files
func expandGlobs(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}
