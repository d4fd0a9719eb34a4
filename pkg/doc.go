// Package rollover drives an interactive release of a single repository.
//
// It provides:
//   - Parsing and incrementing versions under rollover numbering, where patch
//     and minor wrap at 10 (1.2.9 → 1.3.0, 1.9.9 → 2.0.0).
//   - Rewriting the "version" field of a JSON manifest (package.json) while
//     keeping every other field and its position.
//   - Bumping the version string in extra files such as README.md.
//   - Running git and package-manager commands with streamed, captured output.
//   - Reading the current branch and origin URL with go-git and building a
//     hosted compare URL from them.
//   - The release procedure itself: select branch, add packages, bump,
//     commit, push, open the compare URL, confirm the merge, tag.
//
// Every external effect goes through an interface (Executor, Prompter,
// RepoInspector) so the procedure can be driven by fakes.
//
// Usage Example:
//
//	cfg, err := rollover.LoadConfig(".rollover.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := rollover.NewRelease(".", cfg).Run(context.Background())
//	if err != nil {
//	    os.Exit(1)
//	}
//	fmt.Println(res.NewVersion.Tag(), res.Outcome)
package rollover
