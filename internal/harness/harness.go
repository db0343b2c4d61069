// Package harness models the state a training harness leaves on disk after a
// run: the trainer state with its log history, the training arguments, model
// and dataset descriptors, keras fit histories and the environment snapshot.
// Everything here is plain data; deriving a card from it happens elsewhere.
package harness

import (
	"github.com/runcard-dev/runcard/internal/card"
	"github.com/runcard-dev/runcard/internal/pyenv"
	"github.com/runcard-dev/runcard/internal/trainlog"
)

// ParallelMode is the harness's distributed-training setting.
type ParallelMode string

const (
	NotParallel    ParallelMode = "not_parallel"
	NotDistributed ParallelMode = "not_distributed"
	Distributed    ParallelMode = "distributed"
)

// TrainerState mirrors trainer_state.json. Log records keep their key order;
// the results table depends on it.
type TrainerState struct {
	BestMetric *float64       `yaml:"best_metric"`
	Epoch      float64        `yaml:"epoch"`
	GlobalStep int            `yaml:"global_step"`
	LogHistory []*card.Fields `yaml:"log_history"`
}

// TrainingArgs mirrors the arguments snapshot saved next to the trainer
// state. Field names follow the harness's own spelling.
type TrainingArgs struct {
	LearningRate              float64      `yaml:"learning_rate"`
	TrainBatchSize            int          `yaml:"train_batch_size"`
	EvalBatchSize             int          `yaml:"eval_batch_size"`
	Seed                      int          `yaml:"seed"`
	ParallelMode              ParallelMode `yaml:"parallel_mode"`
	WorldSize                 int          `yaml:"world_size"`
	GradientAccumulationSteps int          `yaml:"gradient_accumulation_steps"`
	Adafactor                 bool         `yaml:"adafactor"`
	AdamBeta1                 float64      `yaml:"adam_beta1"`
	AdamBeta2                 float64      `yaml:"adam_beta2"`
	AdamEpsilon               float64      `yaml:"adam_epsilon"`
	LRSchedulerType           string       `yaml:"lr_scheduler_type"`
	WarmupRatio               float64      `yaml:"warmup_ratio"`
	WarmupSteps               int          `yaml:"warmup_steps"`
	MaxSteps                  int          `yaml:"max_steps"`
	NumTrainEpochs            float64      `yaml:"num_train_epochs"`
	FP16                      bool         `yaml:"fp16"`
	FP16OptLevel              string       `yaml:"fp16_opt_level"`
	UseAMP                    bool         `yaml:"use_amp"`
	UseApex                   bool         `yaml:"use_apex"`
	LabelSmoothingFactor      float64      `yaml:"label_smoothing_factor"`
	OutputDir                 string       `yaml:"output_dir"`
}

// DefaultTrainingArgs returns the harness defaults, so fields missing from
// an args file keep their conventional values (in particular MaxSteps -1,
// which means "train by epochs").
func DefaultTrainingArgs() TrainingArgs {
	return TrainingArgs{
		LearningRate:              5e-05,
		TrainBatchSize:            8,
		EvalBatchSize:             8,
		Seed:                      42,
		ParallelMode:              NotParallel,
		WorldSize:                 1,
		GradientAccumulationSteps: 1,
		AdamBeta1:                 0.9,
		AdamBeta2:                 0.999,
		AdamEpsilon:               1e-08,
		LRSchedulerType:           "linear",
		MaxSteps:                  -1,
		NumTrainEpochs:            3.0,
		FP16OptLevel:              "O1",
	}
}

// ModelInfo mirrors the model's config.json, as far as the card needs it.
type ModelInfo struct {
	NameOrPath    string   `yaml:"_name_or_path"`
	ModelType     string   `yaml:"model_type"`
	Architectures []string `yaml:"architectures"`
}

// DatasetInfo describes the dataset a run trained on.
type DatasetInfo struct {
	Builder    string `yaml:"builder_name"`
	ConfigName string `yaml:"config_name"`
}

// KerasLogs holds a keras fit history in whichever of its two shapes the
// file used: per-metric sequences (History) or per-epoch records.
type KerasLogs struct {
	History *trainlog.KerasHistory
	Records []*card.Fields
}

// KerasModelInfo mirrors keras_metadata.json: the optimizer configuration
// snapshot and the precision policy active during training.
type KerasModelInfo struct {
	Optimizer         *card.Fields `yaml:"optimizer"`
	TrainingPrecision string       `yaml:"training_precision"`
}

// Run is everything loaded from one run directory. Optional files that were
// absent leave their field nil (Env defaults to an empty snapshot).
type Run struct {
	Dir        string
	State      *TrainerState
	Args       *TrainingArgs
	Model      *ModelInfo
	Dataset    *DatasetInfo
	Keras      *KerasLogs
	KerasModel *KerasModelInfo
	Env        pyenv.Snapshot
}

// HasTrainerState reports whether the run carries trainer state.
func (r *Run) HasTrainerState() bool { return r != nil && r.State != nil }

// HasKerasHistory reports whether the run carries a keras fit history.
func (r *Run) HasKerasHistory() bool { return r != nil && r.Keras != nil }
