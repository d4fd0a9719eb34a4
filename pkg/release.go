package rollover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Outcome is how a release run ended.
type Outcome string

const (
	OutcomeTagged    Outcome = "tagged"
	OutcomeManualTag Outcome = "manual-tag"
	OutcomeCancelled Outcome = "cancelled"
)

// Result holds what a release run did.
type Result struct {
	Branch     string
	OldVersion Version
	NewVersion Version
	CompareURL string
	BumpFiles  []BumpFileResult
	Outcome    Outcome
}

// CommitMessage is the message of the version bump commit.
func CommitMessage(v Version) string {
	return ":bookmark: " + v.Tag()
}

// ManualTagInstructions are the lines printed when the operator tags by hand.
func ManualTagInstructions(remote string, v Version) []string {
	return []string{
		"Tag the release manually with:",
		"  git tag " + v.Tag(),
		"  git push " + remote + " " + v.Tag(),
	}
}

// Option customizes a Release.
type Option func(*Release)

// WithExecutor replaces the command runner (tests, dry runs).
func WithExecutor(e Executor) Option {
	return func(r *Release) { r.exec = e }
}

// WithPrompter replaces the operator input source.
func WithPrompter(p Prompter) Option {
	return func(r *Release) { r.prompt = p }
}

// WithInspector replaces the repository inspector.
func WithInspector(i RepoInspector) Option {
	return func(r *Release) { r.repo = i }
}

// WithConsole sets where status lines go.
func WithConsole(c *Console) Option {
	return func(r *Release) { r.console = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Release) { r.log = l }
}

// WithDryRun leaves the manifest and bump files untouched. Pair it with a
// DryRunExecutor so no command runs either.
func WithDryRun(dry bool) Option {
	return func(r *Release) { r.dryRun = dry }
}

// Release walks one repository through branch selection, dependency update,
// version bump, compare link, merge confirmation and tagging.
type Release struct {
	dir     string
	cfg     Config
	exec    Executor
	prompt  Prompter
	repo    RepoInspector
	console *Console
	log     zerolog.Logger
	dryRun  bool
}

// NewRelease prepares a release of the working tree at dir.
func NewRelease(dir string, cfg Config, opts ...Option) *Release {
	r := &Release{dir: dir, cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.console == nil {
		r.console = NewConsole(os.Stdout)
	}
	if r.exec == nil {
		r.exec = NewShellExecutor(r.log)
	}
	if r.prompt == nil {
		r.prompt = NewLinePrompter(os.Stdin, r.console)
	}
	if r.repo == nil {
		r.repo = GitInspector{}
	}
	return r
}

type state struct {
	result Result
	done   bool
}

type step struct {
	title string
	run   func(ctx context.Context, st *state) error
}

func (r *Release) steps() []step {
	return []step{
		{"Select branch", r.selectBranch},
		{"Update dependencies", r.updateDependencies},
		{"Bump version", r.bumpVersion},
		{"Open pull request", r.openCompare},
		{"Confirm merge", r.confirmMerge},
		{"Tag release", r.tagRelease},
	}
}

// Run executes every step in order and stops at the first error. A declined
// merge is not an error: the Result carries OutcomeCancelled.
func (r *Release) Run(ctx context.Context) (Result, error) {
	info, err := r.repo.Inspect(r.dir, r.cfg.Remote)
	if err != nil {
		r.console.Error("%v", err)
		return Result{}, err
	}
	r.log.Debug().Str("branch", info.Branch).Str("remote", info.RemoteURL).Msg("repository info")

	st := &state{}
	for _, s := range r.steps() {
		r.console.Heading(s.title)
		r.log.Debug().Str("step", s.title).Msg("starting step")
		if err := s.run(ctx, st); err != nil {
			r.log.Debug().Str("step", s.title).Err(err).Msg("step failed")
			return st.result, err
		}
		if st.done {
			break
		}
	}
	return st.result, nil
}

func (r *Release) selectBranch(ctx context.Context, st *state) error {
	branch, err := r.prompt.Ask("Branch to release from", r.cfg.DefaultBranch)
	if err != nil {
		return err
	}
	if branch == "" {
		r.console.Error("No branch given")
		return errors.New("no branch given")
	}
	st.result.Branch = branch

	if err := r.git(ctx, "fetch", r.cfg.Remote); err != nil {
		return err
	}
	if err := r.git(ctx, "checkout", branch); err != nil {
		return err
	}
	return r.git(ctx, "pull", "--rebase", r.cfg.Remote, branch)
}

func (r *Release) updateDependencies(ctx context.Context, _ *state) error {
	answer, err := r.prompt.Ask("Packages to add (space separated, empty to skip)", "")
	if err != nil {
		return err
	}
	specs := strings.Fields(answer)
	if len(specs) == 0 {
		r.console.Line("No packages to add")
		return nil
	}
	_, err = r.run(ctx, r.cfg.PackageManager, append([]string{"add"}, specs...)...)
	return err
}

func (r *Release) bumpVersion(ctx context.Context, st *state) error {
	manifest := r.path(r.cfg.Manifest)
	current, err := ReadManifestVersion(manifest)
	if err != nil {
		r.console.Error("%v", err)
		return err
	}
	next := current.Next()
	st.result.OldVersion = current
	st.result.NewVersion = next

	if r.dryRun {
		r.console.Notice("[dry] %s would change %s -> %s", r.cfg.Manifest, current, next)
	} else {
		if err := WriteManifestVersion(manifest, next); err != nil {
			r.console.Error("%v", err)
			return err
		}
		r.console.Success("%s: %s -> %s", r.cfg.Manifest, current, next)
		if err := r.bumpExtraFiles(st, current, next); err != nil {
			return err
		}
	}

	if err := r.git(ctx, "add", "-A"); err != nil {
		return err
	}
	if err := r.git(ctx, "commit", "--no-verify", "-m", CommitMessage(next)); err != nil {
		return err
	}
	return r.git(ctx, "push", r.cfg.Remote, st.result.Branch)
}

func (r *Release) bumpExtraFiles(st *state, current, next Version) error {
	for _, f := range r.cfg.BumpFiles {
		res, err := BumpVersionInFile(r.path(f), current, next)
		if err != nil {
			r.console.Error("%v", err)
			return err
		}
		res.Path = f
		st.result.BumpFiles = append(st.result.BumpFiles, res)
		if !res.Changed {
			r.console.Notice("Warning: no version found in %s", f)
			continue
		}
		r.console.Success("%s:%d (%s) -> %s", f, res.Line, res.Pattern, next)
	}
	return nil
}

func (r *Release) openCompare(ctx context.Context, st *state) error {
	info, err := r.repo.Inspect(r.dir, r.cfg.Remote)
	if err != nil {
		r.console.Error("%v", err)
		return err
	}
	if r.dryRun && st.result.Branch != "" {
		// Nothing was checked out, so HEAD still names the starting branch.
		info.Branch = st.result.Branch
	}
	url := info.CompareURL(r.cfg.BaseBranch)
	st.result.CompareURL = url
	r.console.Line("Compare: %s", url)

	name, args := r.cfg.Opener()
	_, err = r.run(ctx, name, append(args, url)...)
	return err
}

func (r *Release) confirmMerge(ctx context.Context, st *state) error {
	question := fmt.Sprintf("Has %s been merged into %s? (y/n)", st.result.Branch, r.cfg.BaseBranch)
	answer, err := r.prompt.Ask(question, "")
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		r.console.Notice("Release cancelled. %s is pushed to %s but not tagged.", st.result.NewVersion.Tag(), st.result.Branch)
		st.result.Outcome = OutcomeCancelled
		st.done = true
		return nil
	}

	if err := r.git(ctx, "checkout", r.cfg.BaseBranch); err != nil {
		return err
	}
	return r.git(ctx, "pull", "--rebase", r.cfg.Remote, r.cfg.BaseBranch)
}

func (r *Release) tagRelease(ctx context.Context, st *state) error {
	answer, err := r.prompt.Ask("Create the tag automatically or manually? (a/m)", "")
	if err != nil {
		return err
	}
	v := st.result.NewVersion

	if !strings.EqualFold(answer, "a") {
		for _, line := range ManualTagInstructions(r.cfg.Remote, v) {
			r.console.Line("%s", line)
		}
		st.result.Outcome = OutcomeManualTag
		st.done = true
		return nil
	}

	if err := r.git(ctx, "tag", v.Tag()); err != nil {
		return err
	}
	if err := r.git(ctx, "push", r.cfg.Remote, v.Tag()); err != nil {
		return err
	}
	r.console.Success("Released %s", v.Tag())
	st.result.Outcome = OutcomeTagged
	st.done = true
	return nil
}

func (r *Release) git(ctx context.Context, args ...string) error {
	_, err := r.run(ctx, "git", args...)
	return err
}

// run executes one command and reports it on the console. Failures also
// print the captured stderr and, for duplicate tags, how to clear them.
func (r *Release) run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := NewCommand(r.dir, name, args...)
	r.console.Line("$ %s", cmd)
	r.log.Debug().Str("cmd", cmd.String()).Msg("exec")

	out, err := r.exec.Run(ctx, cmd)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && strings.TrimSpace(cmdErr.Stderr) != "" {
			r.console.Error("%s", strings.TrimSpace(cmdErr.Stderr))
		} else {
			r.console.Error("%v", err)
		}
		r.console.Error("Command failed: %s", cmd)
		if tag, ok := ExistingTag(err); ok {
			r.console.Notice("Tag %s already exists. Delete it with `git tag -d %s` (and `git push %s :refs/tags/%s` if it was pushed), then rerun.",
				tag, tag, r.cfg.Remote, tag)
		}
		return out, err
	}
	r.console.Success("%s", cmd)
	return out, nil
}

func (r *Release) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.dir, p)
}
