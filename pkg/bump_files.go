package rollover

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// versionPattern locates a version declaration inside a line. Group 1 is
// the text before the version, group 2 the version itself.
type versionPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// mainVersionPatterns match declarations that are most likely the project's
// own version rather than a dependency pin.
var mainVersionPatterns = []versionPattern{
	{
		Name:    "root JSON version field",
		Pattern: regexp.MustCompile(`^(\s{0,2}"version"\s*:\s*"v?)(\d+\.\d+\.\d+)"`),
	},
	{
		Name:    "root TOML version field",
		Pattern: regexp.MustCompile(`^(\s*version\s*=\s*"v?)(\d+\.\d+\.\d+)"`),
	},
	{
		Name:    "VERSION assignment",
		Pattern: regexp.MustCompile(`(?i)^(\s*(?:export\s+)?VERSION\s*[:=]\s*["']?v?)(\d+\.\d+\.\d+)`),
	},
}

// BumpFileResult reports what happened to one extra bump file.
type BumpFileResult struct {
	Path    string
	Line    int
	Pattern string
	Changed bool
}

// BumpVersionInFile replaces the main version string in path with next.
// Declarations matching mainVersionPatterns win; otherwise the first
// standalone occurrence of prev is replaced. A file without either is left
// untouched and reported with Changed false.
func BumpVersionInFile(path string, prev, next Version) (BumpFileResult, error) {
	res := BumpFileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	lines := strings.Split(string(data), "\n")

	idx, start, end, name := findMainVersion(lines)
	if idx < 0 {
		idx, start, end = findLiteralVersion(lines, prev.String())
		name = "literal " + prev.String()
	}
	if idx < 0 {
		return res, nil
	}

	line := lines[idx]
	lines[idx] = line[:start] + next.String() + line[end:]

	info, err := os.Stat(path)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("writing %s: %w", path, err)
	}

	res.Line = idx + 1
	res.Pattern = name
	res.Changed = true
	return res, nil
}

// findMainVersion returns the line index and byte range of the first version
// matched by mainVersionPatterns, or -1.
func findMainVersion(lines []string) (int, int, int, string) {
	for i, line := range lines {
		for _, vp := range mainVersionPatterns {
			m := vp.Pattern.FindStringSubmatchIndex(line)
			if m == nil {
				continue
			}
			return i, m[4], m[5], vp.Name
		}
	}
	return -1, 0, 0, ""
}

// findLiteralVersion finds the first occurrence of version that is not part
// of a longer dotted number, or -1.
func findLiteralVersion(lines []string, version string) (int, int, int) {
	re := regexp.MustCompile(`(^|[^\d.])(` + regexp.QuoteMeta(version) + `)($|[^\d.]|\.$|\.[^\d])`)
	for i, line := range lines {
		if m := re.FindStringSubmatchIndex(line); m != nil {
			return i, m[4], m[5]
		}
	}
	return -1, 0, 0
}
