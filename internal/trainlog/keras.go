package trainlog

import (
	"strings"

	"github.com/runcard-dev/runcard/internal/card"
)

// KerasHistory is the fit-history form of keras logs: one value sequence per
// metric, plus the epoch numbers. Metrics values are []any, one entry per
// epoch.
type KerasHistory struct {
	Metrics *card.Fields
	Epochs  []any
}

// ParseKeras converts a keras fit history into table rows and final results.
// The epoch sequence is appended after the metrics, matching how fit
// histories print. Validation metrics ("val_*") become "Validation …"
// columns, everything else "Train …"; the last row doubles as the final
// evaluation results. Sequences of unequal length are truncated to the
// shortest.
func ParseKeras(h KerasHistory) (logs *card.Fields, rows []*card.Fields, results *card.Fields) {
	logs = card.NewFields()
	if h.Metrics != nil {
		for _, name := range h.Metrics.Names() {
			v, _ := h.Metrics.Get(name)
			logs.Set(name, v)
		}
	}
	logs.Set("epoch", h.Epochs)
	rows, results = kerasRows(logs)
	return logs, rows, results
}

// ParseKerasRecords converts the per-epoch record form (what a training
// callback accumulates) by inverting it into sequences first. The column
// set comes from the first record.
func ParseKerasRecords(records []*card.Fields) (logs *card.Fields, rows []*card.Fields, results *card.Fields) {
	logs = card.NewFields()
	if len(records) == 0 {
		return logs, []*card.Fields{}, nil
	}
	for _, key := range records[0].Names() {
		seq := make([]any, 0, len(records))
		for _, rec := range records {
			if v, ok := rec.Get(key); ok {
				seq = append(seq, v)
			}
		}
		logs.Set(key, seq)
	}
	rows, results = kerasRows(logs)
	return logs, rows, results
}

func kerasRows(logs *card.Fields) (rows []*card.Fields, results *card.Fields) {
	rows = []*card.Fields{}
	epochsAny, ok := logs.Get("epoch")
	if !ok {
		return rows, nil
	}
	epochs, _ := epochsAny.([]any)
	n := len(epochs)
	for _, name := range logs.Names() {
		if v, ok := logs.Get(name); ok {
			if seq, isSeq := v.([]any); isSeq && len(seq) < n {
				n = len(seq)
			}
		}
	}

	for i := 0; i < n; i++ {
		row := card.NewFields()
		for _, k := range logs.Names() {
			seqAny, _ := logs.Get(k)
			seq, isSeq := seqAny.([]any)
			if !isSeq || i >= len(seq) {
				continue
			}
			name := k
			if strings.HasPrefix(k, "val_") {
				name = "validation_" + k[len("val_"):]
			} else if k != "epoch" {
				name = "train_" + k
			}
			row.Set(titleWords(name), seq[i])
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return rows, nil
	}
	return rows, rows[len(rows)-1]
}
