// Copyright (C) 2026  Lukas Dietrich <lukas@lukasdietrich.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package notes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/lukasdietrich/notemail/internal/config"
	"github.com/lukasdietrich/notemail/internal/log"
)

// Options configure where the resolver looks for notes.
type Options struct {
	// Root is the directory searched recursively.
	Root string
	// Pattern is a doublestar pattern matched against slash separated paths relative to Root.
	Pattern string
}

// OptionsFromConfig extracts the resolver options from the run configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Root:    cfg.Notes.Root,
		Pattern: cfg.Notes.Pattern,
	}
}

// NewFilesystem creates a read-only view of the operating system filesystem.
func NewFilesystem() afero.Fs {
	return afero.NewReadOnlyFs(afero.NewOsFs())
}

const maxRootLinks = 40

var errTooManyLinks = errors.New("too many levels of symbolic links")

// Resolver finds the most recently modified note below a directory.
type Resolver struct {
	fs      afero.Fs
	root    string
	pattern string
}

// NewResolver creates a new resolver on fs.
func NewResolver(fs afero.Fs, opts Options) *Resolver {
	return &Resolver{
		fs:      fs,
		root:    filepath.Clean(opts.Root),
		pattern: opts.Pattern,
	}
}

// Latest selects the candidate with the newest modification time and reads its content. The
// content must be valid utf-8 and is returned unchanged.
func (r *Resolver) Latest(ctx context.Context) (*Note, error) {
	ctx = log.WithStage(ctx, "resolve")

	candidates, err := r.Candidates(ctx)
	if err != nil {
		return nil, err
	}

	selected, ok := newest(candidates)
	if !ok {
		return nil, fmt.Errorf("%w in %q matching %q", ErrNoNotes, r.root, r.pattern)
	}

	log.InfoContext(log.WithNote(ctx, selected.Path)).
		Int("candidates", len(candidates)).
		Time("modTime", selected.ModTime).
		Msg("selected newest note")

	content, err := r.read(selected.Path)
	if err != nil {
		return nil, &UnreadableError{Path: selected.Path, Err: err}
	}

	return &Note{
		Candidate: selected,
		Content:   content,
	}, nil
}

// Candidates lists all files below the root matching the pattern, ordered by path. Hidden files
// and directories are skipped. A root that is a symlink is followed, as are linked files. Linked
// directories below the root are not.
func (r *Resolver) Candidates(ctx context.Context) ([]Candidate, error) {
	if err := r.checkRoot(); err != nil {
		return nil, err
	}

	walkRoot, err := r.resolveRoot()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrDirectoryMissing, r.root, err)
	}

	var candidates []Candidate

	walkFn := func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == walkRoot {
				return err
			}

			log.WarnContext(ctx).
				Str("path", path).
				Err(err).
				Msg("skipping unreadable path")

			return nil
		}

		if path == walkRoot {
			return nil
		}

		if strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}

		// candidates are reported below the configured root, even if it is a link
		path = filepath.Join(r.root, rel)

		if info.Mode()&os.ModeSymlink != 0 {
			if info, err = r.fs.Stat(path); err != nil {
				log.WarnContext(ctx).
					Str("path", path).
					Err(err).
					Msg("skipping broken link")

				return nil
			}
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		ok, err := doublestar.Match(r.pattern, filepath.ToSlash(rel))
		if err != nil || !ok {
			return err
		}

		log.TraceContext(ctx).
			Str("path", path).
			Time("modTime", info.ModTime()).
			Msg("found candidate")

		candidates = append(candidates, Candidate{
			Path:    path,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})

		return nil
	}

	if err := afero.Walk(r.fs, walkRoot, walkFn); err != nil {
		return nil, err
	}

	log.DebugContext(ctx).
		Str("root", r.root).
		Str("walkRoot", walkRoot).
		Int("candidates", len(candidates)).
		Msg("scanned notes directory")

	return candidates, nil
}

func (r *Resolver) checkRoot() error {
	info, err := r.fs.Stat(r.root)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrDirectoryMissing, r.root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", ErrDirectoryMissing, r.root)
	}

	return nil
}

// resolveRoot follows links at the root itself, because the walk does not descend into them.
func (r *Resolver) resolveRoot() (string, error) {
	lstater, ok := r.fs.(afero.Lstater)
	if !ok {
		return r.root, nil
	}

	linkReader, ok := r.fs.(afero.LinkReader)
	if !ok {
		return r.root, nil
	}

	root := r.root

	for i := 0; i < maxRootLinks; i++ {
		info, _, err := lstater.LstatIfPossible(root)
		if err != nil {
			return "", err
		}

		if info.Mode()&os.ModeSymlink == 0 {
			return root, nil
		}

		target, err := linkReader.ReadlinkIfPossible(root)
		if err != nil {
			return "", err
		}

		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(root), target)
		}

		root = filepath.Clean(target)
	}

	return "", errTooManyLinks
}

func (r *Resolver) read(path string) (string, error) {
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(content) {
		return "", ErrInvalidEncoding
	}

	if len(content) == 0 {
		return "", ErrEmpty
	}

	return string(content), nil
}
