// Package pyenv reports which ML frameworks were present in the environment
// that produced a training run, and at which versions. The renderer never
// asks "is torch importable here"; it queries a Probe built from the
// environment snapshot the harness saved next to its state files.
package pyenv

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Framework identifies one probeable framework.
type Framework string

const (
	Transformers Framework = "transformers"
	PyTorch      Framework = "pytorch"
	TensorFlow   Framework = "tensorflow"
	Datasets     Framework = "datasets"
	Tokenizers   Framework = "tokenizers"
)

// Probe answers capability queries about a training environment.
type Probe interface {
	// Has reports whether the framework was available.
	Has(f Framework) bool
	// Version returns the framework version, or "" when absent.
	Version(f Framework) string
}

// Snapshot is a Probe backed by a fixed framework -> version map. It is the
// thing an environment.json decodes into, and doubles as the literal-value
// probe used in tests.
type Snapshot struct {
	Versions map[Framework]string
}

func (s Snapshot) Has(f Framework) bool {
	v, ok := s.Versions[f]
	return ok && v != ""
}

func (s Snapshot) Version(f Framework) string {
	return s.Versions[f]
}

// None is a Probe with no frameworks, used when no snapshot is available.
var None = Snapshot{}

// envFile mirrors the JSON the harness writes: either a flat
// {"torch": "2.1.0"} map or nested under a "versions" key.
type envFile struct {
	Versions map[string]string `yaml:"versions"`
}

// aliases maps the spellings harnesses use to Framework names.
var aliases = map[string]Framework{
	"transformers": Transformers,
	"torch":        PyTorch,
	"pytorch":      PyTorch,
	"tensorflow":   TensorFlow,
	"tf":           TensorFlow,
	"datasets":     Datasets,
	"tokenizers":   Tokenizers,
}

// Load reads an environment snapshot file (JSON or YAML).
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return None, err
	}
	return Parse(data)
}

// Parse decodes snapshot content. Unknown framework names are ignored so a
// harness can record more than the card needs.
func Parse(data []byte) (Snapshot, error) {
	var nested envFile
	if err := yaml.Unmarshal(data, &nested); err == nil && len(nested.Versions) > 0 {
		return fromMap(nested.Versions), nil
	}
	var flat map[string]string
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return None, fmt.Errorf("parse environment snapshot: %w", err)
	}
	return fromMap(flat), nil
}

func fromMap(m map[string]string) Snapshot {
	s := Snapshot{Versions: make(map[Framework]string, len(m))}
	for name, version := range m {
		if fw, ok := aliases[name]; ok && version != "" {
			s.Versions[fw] = version
		}
	}
	return s
}
