package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runcard-dev/runcard/internal/harness"
)

// mkRun creates dir with the given state file so Scan recognizes it.
func mkRun(t *testing.T, dir, stateFile string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, stateFile), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write %s: %v", stateFile, err)
	}
}

func TestScanFindsRuns(t *testing.T) {
	root := t.TempDir()
	mkRun(t, filepath.Join(root, "runs", "bert-cola"), harness.StateFile)
	mkRun(t, filepath.Join(root, "runs", "keras-mnist"), harness.KerasHistoryFile)
	mkRun(t, filepath.Join(root, "deep", "nested", "gpt2-wiki"), harness.StateFile)

	found, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 3 {
		t.Fatalf("found %d runs, want 3: %+v", len(found), found)
	}

	// Walk order is lexical: deep/ before runs/.
	if found[0].Name != "gpt2-wiki" || found[0].Source != SourceTrainer {
		t.Errorf("found[0] = %+v", found[0])
	}
	if found[1].Name != "bert-cola" || found[1].Evidence != harness.StateFile {
		t.Errorf("found[1] = %+v", found[1])
	}
	if found[2].Name != "keras-mnist" || found[2].Source != SourceKeras || found[2].Evidence != harness.KerasHistoryFile {
		t.Errorf("found[2] = %+v", found[2])
	}
	if found[2].Path != filepath.Join(root, "runs", "keras-mnist") {
		t.Errorf("Path = %q", found[2].Path)
	}
}

func TestScanRootIsRunDir(t *testing.T) {
	root := t.TempDir()
	mkRun(t, root, harness.StateFile)

	found, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found %d runs, want 1", len(found))
	}
	if found[0].Path != root || found[0].Name != filepath.Base(root) {
		t.Errorf("found[0] = %+v", found[0])
	}
}

func TestScanSkipsHiddenAndVirtualenvDirs(t *testing.T) {
	root := t.TempDir()
	mkRun(t, filepath.Join(root, ".cache", "run"), harness.StateFile)
	mkRun(t, filepath.Join(root, "venv", "run"), harness.StateFile)
	mkRun(t, filepath.Join(root, "__pycache__", "run"), harness.StateFile)

	// A virtualenv with a custom name is recognized by its pyvenv.cfg.
	env := filepath.Join(root, "my-env")
	mkRun(t, filepath.Join(env, "run"), harness.StateFile)
	if err := os.WriteFile(filepath.Join(env, "pyvenv.cfg"), []byte("home = /usr\n"), 0o644); err != nil {
		t.Fatalf("write pyvenv.cfg: %v", err)
	}

	mkRun(t, filepath.Join(root, "real-run"), harness.StateFile)

	found, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 1 || found[0].Name != "real-run" {
		t.Fatalf("found = %+v, want only real-run", found)
	}
}

func TestScanDoesNotDescendIntoRuns(t *testing.T) {
	root := t.TempDir()
	run := filepath.Join(root, "bert-cola")
	mkRun(t, run, harness.StateFile)
	mkRun(t, filepath.Join(run, "checkpoint-500"), harness.StateFile)
	mkRun(t, filepath.Join(run, "checkpoint-1000"), harness.StateFile)

	found, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 1 || found[0].Path != run {
		t.Fatalf("found = %+v, want only the run root", found)
	}
}

func TestScanPrefersTrainerState(t *testing.T) {
	root := t.TempDir()
	run := filepath.Join(root, "mixed")
	mkRun(t, run, harness.StateFile)
	if err := os.WriteFile(filepath.Join(run, harness.KerasHistoryFile), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write keras history: %v", err)
	}

	found, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("found %d runs, want 1", len(found))
	}
	if found[0].Source != SourceTrainer || found[0].Evidence != harness.StateFile {
		t.Errorf("found[0] = %+v, want trainer evidence", found[0])
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected an error for a missing root")
	}
}
