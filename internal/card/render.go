package card

import (
	"bytes"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/runcard-dev/runcard/internal/pyenv"
)

// AutogeneratedTrainerComment marks cards generated from trainer state.
const AutogeneratedTrainerComment = `
<!-- This model card has been generated automatically according to the information the Trainer had access to. You
should probably proofread and complete it, then remove this comment. -->
`

// AutogeneratedKerasComment marks cards generated from keras history.
const AutogeneratedKerasComment = `
<!-- This model card has been generated automatically according to the information Keras had access to. You should
probably proofread and complete it, then remove this comment. -->
`

// MoreInfoNeeded is the placeholder body for sections the run state cannot
// fill in. Enrichment replaces it; merging treats anything else as
// hand-written.
const MoreInfoNeeded = "More information needed"

// ToMarkdown renders the complete model card: YAML header, auto-generation
// notice, provenance prose, evaluation results, placeholder sections,
// hyperparameters, the training-results table and framework versions.
// env supplies the framework versions; pass pyenv.None when no environment
// snapshot exists.
func (s *TrainingSummary) ToMarkdown(env pyenv.Probe) (string, error) {
	var b strings.Builder

	meta := s.CreateMetadata()
	if !meta.IsEmpty() {
		header, err := marshalMetadata(meta)
		if err != nil {
			return "", fmt.Errorf("serialize card metadata: %w", err)
		}
		b.WriteString("---\n")
		b.WriteString(header)
		b.WriteString("---\n")
	}

	if s.source == SourceKeras {
		b.WriteString(AutogeneratedKerasComment)
	} else {
		b.WriteString(AutogeneratedTrainerComment)
	}

	fmt.Fprintf(&b, "\n# %s\n\n", s.modelName)

	if s.finetunedFrom == "" {
		b.WriteString("This model was trained from scratch on ")
	} else {
		fmt.Fprintf(&b, "This model is a fine-tuned version of [%s](https://huggingface.co/%s) on ", s.finetunedFrom, s.finetunedFrom)
	}

	switch {
	case s.dataset == nil:
		b.WriteString("an unknown dataset.")
	case len(s.dataset) == 1:
		fmt.Fprintf(&b, "the %s dataset.", s.dataset[0])
	default:
		parts := make([]string, len(s.dataset)-1)
		for i, ds := range s.dataset[:len(s.dataset)-1] {
			parts[i] = "the " + ds
		}
		fmt.Fprintf(&b, "%s and the %s datasets.", strings.Join(parts, ", "), s.dataset[len(s.dataset)-1])
	}

	if s.evalResults != nil {
		b.WriteString("\nIt achieves the following results on the evaluation set:\n")
		bullets := make([]string, 0, s.evalResults.Len())
		for _, name := range s.evalResults.Names() {
			v, _ := s.evalResults.Get(name)
			bullets = append(bullets, fmt.Sprintf("- %s: %s", name, maybeRound(v)))
		}
		b.WriteString(strings.Join(bullets, "\n"))
	}
	b.WriteString("\n")

	b.WriteString("\n## Model description\n\n" + MoreInfoNeeded + "\n")
	b.WriteString("\n## Intended uses & limitations\n\n" + MoreInfoNeeded + "\n")
	b.WriteString("\n## Training and evaluation data\n\n" + MoreInfoNeeded + "\n")

	b.WriteString("\n## Training procedure\n")
	b.WriteString("\n### Training hyperparameters\n")
	if s.hyperparameters != nil {
		b.WriteString("\nThe following hyperparameters were used during training:\n")
		bullets := make([]string, 0, s.hyperparameters.Len())
		for _, name := range s.hyperparameters.Names() {
			v, _ := s.hyperparameters.Get(name)
			bullets = append(bullets, fmt.Sprintf("- %s: %s", name, formatValue(v)))
		}
		b.WriteString(strings.Join(bullets, "\n"))
		b.WriteString("\n")
	} else {
		b.WriteString("\n" + MoreInfoNeeded + "\n")
	}

	if s.evalLines != nil {
		b.WriteString("\n### Training results\n\n")
		b.WriteString(MakeMarkdownTable(s.evalLines))
		b.WriteString("\n")
	}

	b.WriteString("\n### Framework versions\n\n")
	if env == nil {
		env = pyenv.None
	}
	if env.Has(pyenv.Transformers) {
		fmt.Fprintf(&b, "- Transformers %s\n", env.Version(pyenv.Transformers))
	}
	if s.source == SourceTrainer && env.Has(pyenv.PyTorch) {
		fmt.Fprintf(&b, "- Pytorch %s\n", env.Version(pyenv.PyTorch))
	} else if s.source == SourceKeras && env.Has(pyenv.TensorFlow) {
		fmt.Fprintf(&b, "- TensorFlow %s\n", env.Version(pyenv.TensorFlow))
	}
	if env.Has(pyenv.Datasets) {
		fmt.Fprintf(&b, "- Datasets %s\n", env.Version(pyenv.Datasets))
	}
	if env.Has(pyenv.Tokenizers) {
		fmt.Fprintf(&b, "- Tokenizers %s\n", env.Version(pyenv.Tokenizers))
	}

	return b.String(), nil
}

// marshalMetadata serializes the header with two-space indentation and keys
// in struct order.
func marshalMetadata(m Metadata) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
