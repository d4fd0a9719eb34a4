// Package main implements the rollover CLI tool.
//
// The rollover tool releases the repository it is run in. It reads the version
// from a JSON manifest (default "./package.json"), increments it with rollover
// numbering, commits the bump with the message ":bookmark: v<version>", pushes
// it, opens a compare URL for the pull request, and after the operator confirms
// the merge, tags the release on the base branch.
//
// Rollover numbering wraps patch and minor at 10:
//
//	1.2.3 → 1.2.4
//	1.2.9 → 1.3.0
//	1.9.9 → 2.0.0
//
// Command Usage:
//
//	rollover [flags]
//
// The run is interactive. The prompts, in order:
//
//	Branch to release from (develop):       branch to fetch, check out and rebase
//	Packages to add:                        space separated specs for "<pm> add", empty to skip
//	Has <branch> been merged into main?:    "y" continues, anything else exits 0
//	Create the tag automatically or manually? "a" tags and pushes, anything else prints the commands
//
// Flags:
//
//	--config:          Config file. Defaults to ".rollover.yaml" in --dir.
//	--dir:             Repository working directory. Defaults to ".".
//	--manifest:        JSON manifest holding the version. Defaults to "package.json".
//	--base:            Branch releases are merged into and tagged on. Defaults to "main".
//	--branch:          Branch offered at the first prompt. Defaults to "develop".
//	--remote:          Git remote. Defaults to "origin".
//	--package-manager: Program used as "<pm> add <specs>". Defaults to "yarn".
//	--open-command:    Program that opens the compare URL. Defaults to open, xdg-open or rundll32.
//	--bump-file:       Extra file whose version string is bumped as well. May be repeated.
//	--dry:             Print every command instead of running it; files are left untouched.
//	--verbose, -v:     Debug logging on stderr.
//	--version:         Displays the version of the rollover CLI tool and exits.
//
// Config file:
//
//	manifest: package.json
//	base_branch: main
//	default_branch: develop
//	remote: origin
//	package_manager: yarn
//	open_command: ""
//	bump_files:
//	  - README.md
//
// Exit codes:
//
//	0  release tagged, tagging left to the operator, or merge declined
//	1  a command failed, the repository info could not be read, or the config is invalid
//
// If tagging fails because the tag already exists, delete it with
// "git tag -d v<version>" (and "git push origin :refs/tags/v<version>" if it was
// pushed) and rerun. Reruns are not idempotent: the version advances again.
//
// For the library API, see the documentation in the "pkg" package.
package main
