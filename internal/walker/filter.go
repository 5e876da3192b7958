package walker

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names Walk never enters, compared without
// regard to case.
var DefaultExcludes = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	".idea",
	".vscode",
}

func skipDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// MatchesInclude reports whether rel matches one of patterns. An empty
// pattern list includes everything.
func MatchesInclude(rel string, patterns []string) bool {
	return len(patterns) == 0 || matchAny(patterns, filepath.ToSlash(rel))
}

// MatchesExclude reports whether rel, or its base name, matches one of
// patterns, so "Thumbs.db" excludes the file at any depth.
func MatchesExclude(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	return matchAny(patterns, rel) || matchAny(patterns, path.Base(rel))
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(filepath.ToSlash(p), name); ok {
			return true
		}
	}
	return false
}
