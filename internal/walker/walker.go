// Package walker lists the files a site build reads from disk: static assets
// to copy into the output and extra page templates to render.
package walker

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileInfo describes one file found by Walk.
type FileInfo struct {
	Path        string // absolute
	RelPath     string // relative to the walk root, slash separated
	Size        int64
	Kind        string // see DetectKind
	ContentHash string // hex sha256
}

// WalkerConfig selects the files Walk returns.
type WalkerConfig struct {
	RootDir string
	Include []string // doublestar globs; empty includes everything
	Exclude []string // doublestar globs, also tried against the base name
}

// Walk returns every regular file under config.RootDir in lexical order,
// minus version control and editor directories, anything the root
// .gitignore names, and the configured excludes. A missing root yields no
// files.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", root)
	}

	fsys := os.DirFS(root)
	ignore := readIgnoreFile(fsys, ".gitignore")

	var files []FileInfo
	err = fs.WalkDir(fsys, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if skipDir(d.Name()) || ignore.dir(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || rel == ".gitignore" || ignore.file(rel) {
			return nil
		}
		if !MatchesInclude(rel, config.Include) || MatchesExclude(rel, config.Exclude) {
			return nil
		}

		f, err := describe(fsys, rel)
		if err != nil {
			return err
		}
		f.Path = filepath.Join(root, filepath.FromSlash(rel))
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}
	return files, nil
}

// describe hashes rel and counts its bytes in one read.
func describe(fsys fs.FS, rel string) (FileInfo, error) {
	fh, err := fsys.Open(rel)
	if err != nil {
		return FileInfo{}, err
	}
	defer fh.Close()

	h := sha256.New()
	n, err := io.Copy(h, fh)
	if err != nil {
		return FileInfo{}, fmt.Errorf("hashing %s: %w", rel, err)
	}
	return FileInfo{
		RelPath:     rel,
		Size:        n,
		Kind:        DetectKind(rel),
		ContentHash: hex.EncodeToString(h.Sum(nil)),
	}, nil
}
