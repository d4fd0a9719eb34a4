// Package main implements a CLI that bumps a repository's version, pushes
// the bump, and walks the operator through merging and tagging the release.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	rollover "github.com/bcomnes/rollover/pkg"
)

type options struct {
	configPath string
	dir        string
	dryRun     bool
	verbose    bool
	overrides  rollover.Config
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().
		Logger()
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Bump, push and tag a release of the current repository.",
		Long: `Releases the repository in the current directory:

  1. asks for the branch to release from (default: develop), fetches,
     checks it out and rebases it onto the remote
  2. optionally adds packages with the package manager
  3. bumps the manifest version (patch and minor roll over at 10:
     1.2.9 -> 1.3.0, 1.9.9 -> 2.0.0), commits ":bookmark: v<version>"
     and pushes
  4. opens https://github.com/<owner>/<repo>/compare/main...<branch>
  5. once the branch is merged, checks out main and pulls
  6. tags v<version> and pushes the tag, or prints the commands to do it

Any failing command stops the run with exit code 1. Declining the merge or
choosing manual tagging exits 0.

Settings are read from .rollover.yaml in the repository when present;
flags override the file.`,
		Example: `  rollover
  rollover --manifest app/package.json --package-manager pnpm
  rollover --bump-file README.md --dry`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd.Context(), opts, stdin, stdout, stderr)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Path to the config file (default: <dir>/"+rollover.DefaultConfigFile+")")
	f.StringVar(&opts.dir, "dir", ".", "Repository working directory")
	f.BoolVar(&opts.dryRun, "dry", false, "Print commands instead of running them and leave files untouched")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	f.StringVar(&opts.overrides.Manifest, "manifest", "", "Manifest holding the version field (default: package.json)")
	f.StringVar(&opts.overrides.BaseBranch, "base", "", "Branch releases are merged into and tagged on (default: main)")
	f.StringVar(&opts.overrides.DefaultBranch, "branch", "", "Branch offered at the first prompt (default: develop)")
	f.StringVar(&opts.overrides.Remote, "remote", "", "Git remote to fetch from and push to (default: origin)")
	f.StringVar(&opts.overrides.PackageManager, "package-manager", "", "Package manager used to add dependencies (default: yarn)")
	f.StringVar(&opts.overrides.OpenCommand, "open-command", "", "Command used to open the compare URL (default: platform opener)")
	f.StringArrayVar(&opts.overrides.BumpFiles, "bump-file", nil, "Extra file whose version string is bumped too. May be repeated.")

	return cmd
}

func runRelease(ctx context.Context, opts *options, stdin io.Reader, stdout, stderr io.Writer) error {
	log := newLogger(stderr, opts.verbose)

	if err := rollover.CheckGit(); err != nil {
		return err
	}

	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", opts.dir, err)
	}
	configPath := opts.configPath
	if configPath == "" {
		configPath = filepath.Join(dir, rollover.DefaultConfigFile)
	}
	cfg, err := rollover.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.Merge(opts.overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Debug().
		Str("dir", dir).
		Str("config", configPath).
		Str("manifest", cfg.Manifest).
		Str("base", cfg.BaseBranch).
		Str("remote", cfg.Remote).
		Bool("dry", opts.dryRun).
		Msg("configuration resolved")

	console := rollover.NewConsole(stdout)
	releaseOpts := []rollover.Option{
		rollover.WithConsole(console),
		rollover.WithLogger(log),
		rollover.WithPrompter(rollover.NewLinePrompter(stdin, console)),
		rollover.WithDryRun(opts.dryRun),
	}
	if opts.dryRun {
		releaseOpts = append(releaseOpts, rollover.WithExecutor(&rollover.DryRunExecutor{Out: stdout}))
	} else {
		releaseOpts = append(releaseOpts, rollover.WithExecutor(newExecutor(log, stdin, stdout, stderr)))
	}

	res, err := rollover.NewRelease(dir, cfg, releaseOpts...).Run(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Str("from", res.OldVersion.String()).
		Str("to", res.NewVersion.String()).
		Str("outcome", string(res.Outcome)).
		Msg("release finished")
	return nil
}

// newExecutor streams command output to stdout and stderr. Commands inherit
// stdin only when it is a file (a terminal or pipe), so a package manager or
// credential helper can ask questions. Any other reader stays with the
// prompter, which may already have buffered the answers that follow.
func newExecutor(log zerolog.Logger, stdin io.Reader, stdout, stderr io.Writer) *rollover.ShellExecutor {
	executor := rollover.NewShellExecutor(log)
	executor.Stdout = stdout
	executor.Stderr = stderr
	if f, ok := stdin.(*os.File); ok {
		executor.Stdin = f
	}
	return executor
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		// Command and repository failures are already on the console.
		var cmdErr *rollover.CommandError
		if !errors.As(err, &cmdErr) && !errors.Is(err, rollover.ErrRepoInfo) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
