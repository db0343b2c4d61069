// Package scanner discovers training run directories under a tree.
//
// A run directory is recognized the same way the loader recognizes one:
// it contains a trainer state file or a keras fit history. The scan
// never descends into a discovered run, so checkpoint subdirectories do
// not show up as runs of their own.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/runcard-dev/runcard/internal/harness"
)

// Source is the harness family that produced a run.
type Source string

const (
	SourceTrainer Source = "trainer"
	SourceKeras   Source = "keras"
)

// Discovery is one run directory found during a scan.
type Discovery struct {
	Path     string
	Name     string
	Source   Source
	Evidence string // state file that identified the run
}

// skipNames are directory names never worth descending into.
var skipNames = map[string]struct{}{
	"venv":          {},
	"node_modules":  {},
	"__pycache__":   {},
	"site-packages": {},
}

// Scan walks root and returns the run directories underneath it, in
// lexical walk order. Hidden directories and virtualenvs are skipped.
func Scan(root string) ([]Discovery, error) {
	var found []Discovery

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldSkipDir(path, d.Name()) {
			return filepath.SkipDir
		}

		disc, ok := probeRunDir(path)
		if !ok {
			return nil
		}
		found = append(found, disc)
		logf(disc.Name, "discovered %s run at %s", disc.Source, path)

		// Subdirectories of a run hold checkpoints, not further runs.
		if path != root {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// probeRunDir checks for the state files that identify a run. When both
// families left state behind, the trainer state wins, matching how the
// loader picks the card source.
func probeRunDir(dir string) (Discovery, bool) {
	for _, probe := range []struct {
		file   string
		source Source
	}{
		{harness.StateFile, SourceTrainer},
		{harness.KerasHistoryFile, SourceKeras},
	} {
		if _, err := os.Stat(filepath.Join(dir, probe.file)); err == nil {
			return Discovery{
				Path:     dir,
				Name:     filepath.Base(dir),
				Source:   probe.source,
				Evidence: probe.file,
			}, true
		}
	}
	return Discovery{}, false
}

// shouldSkipDir filters hidden directories, well-known dependency dirs
// and virtualenvs (anything carrying a pyvenv.cfg).
func shouldSkipDir(path, name string) bool {
	if len(name) > 1 && name[0] == '.' {
		return true
	}
	if _, ok := skipNames[name]; ok {
		return true
	}
	if _, err := os.Stat(filepath.Join(path, "pyvenv.cfg")); err == nil {
		return true
	}
	return false
}
