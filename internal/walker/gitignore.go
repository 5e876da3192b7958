package walker

import (
	"bufio"
	"bytes"
	"io/fs"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreRules is a .gitignore translated to doublestar patterns. Negated
// patterns are dropped.
type ignoreRules struct {
	files []string
	dirs  []string
}

func readIgnoreFile(fsys fs.FS, name string) ignoreRules {
	var r ignoreRules
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return r
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		r.add(sc.Text())
	}
	return r
}

func (r *ignoreRules) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' || line[0] == '!' {
		return
	}
	dirOnly := strings.HasSuffix(line, "/")
	line = strings.TrimSuffix(line, "/")

	// A slash anywhere but the end anchors the pattern to the root.
	if strings.Contains(line, "/") {
		line = strings.TrimPrefix(line, "/")
	} else {
		line = "**/" + line
	}
	if line == "" || !doublestar.ValidatePattern(line) {
		return
	}

	r.dirs = append(r.dirs, line)
	if !dirOnly {
		r.files = append(r.files, line)
	}
}

func (r ignoreRules) dir(rel string) bool  { return matchAny(r.dirs, rel) }
func (r ignoreRules) file(rel string) bool { return matchAny(r.files, rel) }
