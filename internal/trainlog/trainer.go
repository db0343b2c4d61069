// Package trainlog turns raw harness log histories into the ordered rows and
// final evaluation results a model card reports. It understands the two
// shapes out there: trainer state histories (a flat list of log records) and
// keras fit histories (per-metric sequences or per-epoch records).
package trainlog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/runcard-dev/runcard/internal/card"
)

// NoLog is the table cell shown for evaluations that happened before the
// first training loss was recorded.
const NoLog = "No log"

// Keys carried by eval records that are bookkeeping rather than metrics.
var trainerRowSkip = map[string]bool{
	"total_flos":              true,
	"epoch":                   true,
	"step":                    true,
	"eval_runtime":            true,
	"eval_samples_per_second": true,
	"eval_steps_per_second":   true,
}

var finalResultSkip = map[string]bool{
	"runtime":            true,
	"samples_per_second": true,
	"steps_per_second":   true,
	"epoch":              true,
	"step":               true,
}

// ParseTrainer extracts intermediate and final evaluation results from a
// trainer log history.
//
// The first record containing "train_runtime" marks the end of training.
// When no such record exists the history holds no training logs: the last
// record with an "eval_loss" (if any, and not the very first record) is
// returned untouched as the final results, with no table rows.
//
// Otherwise each "eval_loss" record before the training-end marker becomes a
// table row pairing the most recent training loss (or "No log") with the
// epoch, step, validation loss and any extra metrics. The final results come
// from the last "eval_loss" record, with the eval_ prefix stripped and
// bookkeeping fields dropped.
func ParseTrainer(history []*card.Fields) (trainLog *card.Fields, rows []*card.Fields, results *card.Fields) {
	idx := 0
	for idx < len(history) && !history[idx].Has("train_runtime") {
		idx++
	}

	if idx == len(history) {
		idx--
		for idx >= 0 && !history[idx].Has("eval_loss") {
			idx--
		}
		if idx > 0 {
			return nil, nil, history[idx]
		}
		return nil, nil, nil
	}

	trainLog = history[idx]
	rows = []*card.Fields{}
	var trainingLoss any = NoLog
	for i := 0; i < idx; i++ {
		rec := history[i]
		if v, ok := rec.Get("loss"); ok {
			trainingLoss = v
		}
		if !rec.Has("eval_loss") {
			continue
		}
		epoch, _ := rec.Get("epoch")
		step, _ := rec.Get("step")
		row := card.NewFields()
		row.Set("Training Loss", trainingLoss)
		row.Set("Epoch", epoch)
		row.Set("Step", step)
		for _, k := range rec.Names() {
			if trainerRowSkip[k] {
				continue
			}
			v, _ := rec.Get(k)
			if k == "eval_loss" {
				row.Set("Validation Loss", v)
			} else {
				row.Set(titleWordsSkipFirst(k), v)
			}
		}
		rows = append(rows, row)
	}

	idx = len(history) - 1
	for idx >= 0 && !history[idx].Has("eval_loss") {
		idx--
	}
	if idx > 0 {
		results = card.NewFields()
		for _, key := range history[idx].Names() {
			v, _ := history[idx].Get(key)
			name := strings.TrimPrefix(key, "eval_")
			if finalResultSkip[name] {
				continue
			}
			results.Set(titleWords(name), v)
		}
		return trainLog, rows, results
	}
	return trainLog, rows, nil
}

// capitalize upper-cases the first rune and lower-cases the rest, so "f1"
// becomes "F1" and "BLEU" becomes "Bleu".
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// titleWords prettifies an underscore name: "matthews_correlation" becomes
// "Matthews Correlation".
func titleWords(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

// titleWordsSkipFirst prettifies an underscore name dropping its prefix:
// "eval_bleu" becomes "Bleu".
func titleWordsSkipFirst(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) > 0 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}
