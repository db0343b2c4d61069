// Package hyperparams derives the "Training hyperparameters" section of a
// card from a run's training arguments. Keys are emitted in a fixed order
// and conditional keys only appear when they differ from the harness
// defaults, which keeps generated cards comparable across runs.
package hyperparams

import (
	"fmt"

	"github.com/runcard-dev/runcard/internal/card"
	"github.com/runcard-dev/runcard/internal/harness"
)

// FromTrainer extracts hyperparameters from a trainer run's arguments.
// A nil args falls back to the harness defaults.
func FromTrainer(args *harness.TrainingArgs) *card.Fields {
	if args == nil {
		def := harness.DefaultTrainingArgs()
		args = &def
	}

	hp := card.NewFields()
	hp.Set("learning_rate", args.LearningRate)
	hp.Set("train_batch_size", args.TrainBatchSize)
	hp.Set("eval_batch_size", args.EvalBatchSize)
	hp.Set("seed", args.Seed)

	if args.ParallelMode != harness.NotParallel && args.ParallelMode != harness.NotDistributed {
		if args.ParallelMode == harness.Distributed {
			hp.Set("distributed_type", "multi-GPU")
		} else {
			hp.Set("distributed_type", string(args.ParallelMode))
		}
	}
	if args.WorldSize > 1 {
		hp.Set("num_devices", args.WorldSize)
	}
	if args.GradientAccumulationSteps > 1 {
		hp.Set("gradient_accumulation_steps", args.GradientAccumulationSteps)
	}

	totalTrain := args.TrainBatchSize * args.WorldSize * args.GradientAccumulationSteps
	if totalTrain != args.TrainBatchSize {
		hp.Set("total_train_batch_size", totalTrain)
	}
	totalEval := args.EvalBatchSize * args.WorldSize
	if totalEval != args.EvalBatchSize {
		hp.Set("total_eval_batch_size", totalEval)
	}

	if args.Adafactor {
		hp.Set("optimizer", "Adafactor")
	} else {
		hp.Set("optimizer", fmt.Sprintf("Adam with betas=(%s,%s) and epsilon=%s",
			card.FormatFloat(args.AdamBeta1), card.FormatFloat(args.AdamBeta2), card.FormatFloat(args.AdamEpsilon)))
	}

	hp.Set("lr_scheduler_type", args.LRSchedulerType)
	if args.WarmupRatio != 0 {
		hp.Set("lr_scheduler_warmup_ratio", args.WarmupRatio)
	}
	if args.WarmupSteps != 0 {
		hp.Set("lr_scheduler_warmup_steps", args.WarmupSteps)
	}
	if args.MaxSteps != -1 {
		hp.Set("training_steps", args.MaxSteps)
	} else {
		hp.Set("num_epochs", args.NumTrainEpochs)
	}

	if args.FP16 {
		if args.UseAMP {
			hp.Set("mixed_precision_training", "Native AMP")
		} else if args.UseApex {
			hp.Set("mixed_precision_training", "Apex, opt level "+args.FP16OptLevel)
		}
	}

	if args.LabelSmoothingFactor != 0 {
		hp.Set("label_smoothing_factor", args.LabelSmoothingFactor)
	}
	return hp
}

// FromKeras extracts hyperparameters from a keras run's model snapshot: the
// optimizer configuration (or None when the model was saved without one) and
// the precision policy active during training.
func FromKeras(model *harness.KerasModelInfo) *card.Fields {
	hp := card.NewFields()
	if model != nil && model.Optimizer != nil {
		hp.Set("optimizer", model.Optimizer)
	} else {
		hp.Set("optimizer", nil)
	}
	precision := "float32"
	if model != nil && model.TrainingPrecision != "" {
		precision = model.TrainingPrecision
	}
	hp.Set("training_precision", precision)
	return hp
}
