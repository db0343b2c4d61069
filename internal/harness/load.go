package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/runcard-dev/runcard/internal/card"
	"github.com/runcard-dev/runcard/internal/pyenv"
	"github.com/runcard-dev/runcard/internal/trainlog"
)

// File names a harness writes into a run directory. A run is recognized by
// StateFile or KerasHistoryFile; everything else is optional.
const (
	StateFile         = "trainer_state.json"
	ArgsFile          = "training_args.json"
	ConfigFile        = "config.json"
	DatasetFile       = "dataset_info.json"
	KerasHistoryFile  = "keras_history.json"
	KerasMetadataFile = "keras_metadata.json"
	EnvFile           = "environment.json"
)

// IsRunDir reports whether dir looks like a run directory.
func IsRunDir(dir string) bool {
	for _, name := range []string{StateFile, KerasHistoryFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// LoadRun reads a run directory. Missing optional files leave their field
// nil; files that exist but cannot be parsed fail the load. The state files
// are JSON, decoded through the YAML parser so log records keep their key
// order.
func LoadRun(dir string) (*Run, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	run := &Run{Dir: dir, Env: pyenv.None}

	if data, err := readOptional(filepath.Join(dir, StateFile)); err != nil {
		return nil, err
	} else if data != nil {
		var state TrainerState
		if err := yaml.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("parse %s: %w", StateFile, err)
		}
		run.State = &state
	}

	if data, err := readOptional(filepath.Join(dir, ArgsFile)); err != nil {
		return nil, err
	} else if data != nil {
		args := DefaultTrainingArgs()
		if err := yaml.Unmarshal(data, &args); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ArgsFile, err)
		}
		run.Args = &args
	}

	if data, err := readOptional(filepath.Join(dir, ConfigFile)); err != nil {
		return nil, err
	} else if data != nil {
		var model ModelInfo
		if err := yaml.Unmarshal(data, &model); err != nil {
			return nil, fmt.Errorf("parse %s: %w", ConfigFile, err)
		}
		run.Model = &model
	}

	if data, err := readOptional(filepath.Join(dir, DatasetFile)); err != nil {
		return nil, err
	} else if data != nil {
		var ds DatasetInfo
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("parse %s: %w", DatasetFile, err)
		}
		run.Dataset = &ds
	}

	if data, err := readOptional(filepath.Join(dir, KerasHistoryFile)); err != nil {
		return nil, err
	} else if data != nil {
		logs, err := parseKerasLogs(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", KerasHistoryFile, err)
		}
		run.Keras = logs
	}

	if data, err := readOptional(filepath.Join(dir, KerasMetadataFile)); err != nil {
		return nil, err
	} else if data != nil {
		var km KerasModelInfo
		if err := yaml.Unmarshal(data, &km); err != nil {
			return nil, fmt.Errorf("parse %s: %w", KerasMetadataFile, err)
		}
		run.KerasModel = &km
	}

	if data, err := readOptional(filepath.Join(dir, EnvFile)); err != nil {
		return nil, err
	} else if data != nil {
		snap, err := pyenv.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvFile, err)
		}
		run.Env = snap
	}

	if run.State == nil && run.Keras == nil {
		return nil, fmt.Errorf("%s has neither %s nor %s", dir, StateFile, KerasHistoryFile)
	}
	return run, nil
}

// parseKerasLogs handles the two shapes a fit history is saved in: a list of
// per-epoch records, or one mapping of metric name to per-epoch sequence
// with the epoch numbers under "epoch".
func parseKerasLogs(data []byte) (*KerasLogs, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []*card.Fields
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return &KerasLogs{Records: records}, nil
	}

	var all card.Fields
	if err := yaml.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	hist := &trainlog.KerasHistory{Metrics: card.NewFields()}
	for _, name := range all.Names() {
		v, _ := all.Get(name)
		if name == "epoch" {
			if seq, ok := v.([]any); ok {
				hist.Epochs = seq
			}
			continue
		}
		hist.Metrics.Set(name, v)
	}
	return &KerasLogs{History: hist}, nil
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
