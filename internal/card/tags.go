package card

import "strings"

// metricTags is the closed set of metric types the model index recognises.
// Anything else stays a display-only column in the results table.
var metricTags = map[string]bool{
	"accuracy":             true,
	"bleu":                 true,
	"f1":                   true,
	"matthews_correlation": true,
	"pearsonr":             true,
	"precision":            true,
	"recall":               true,
	"rouge":                true,
	"sacrebleu":            true,
	"spearmanr":            true,
}

// TaskTagToName maps task tags to the display names used in model-index
// entries. Task tags outside this table are dropped from the index.
var TaskTagToName = map[string]string{
	"fill-mask":                "Masked Language Modeling",
	"image-classification":     "Image Classification",
	"image-segmentation":       "Image Segmentation",
	"multiple-choice":          "Multiple Choice",
	"object-detection":         "Object Detection",
	"question-answering":       "Question Answering",
	"summarization":            "Summarization",
	"table-question-answering": "Table Question Answering",
	"text-classification":      "Text Classification",
	"text-generation":          "Causal Language Modeling",
	"text2text-generation":     "Sequence-to-sequence Language Modeling",
	"token-classification":     "Token Classification",
	"translation":              "Translation",
	"zero-shot-classification": "Zero Shot Classification",
}

// Listify normalises an optional single-or-many value to a slice:
// nil stays nil-safe as an empty slice, everything else is returned as given.
func Listify(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// AppendTagIfMissing appends tag to tags unless it is already present.
func AppendTagIfMissing(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}

// InferMetricTags maps evaluation-result names to metric type tags.
// A name matches when its lowercased, space-to-underscore form is a known
// metric tag; "rouge1" additionally maps to "rouge". The result preserves
// the order of the evaluation results and is keyed tag -> original name.
func InferMetricTags(evalResults *Fields) *Fields {
	mapping := NewFields()
	if evalResults == nil {
		return mapping
	}
	for _, name := range evalResults.Names() {
		norm := strings.ReplaceAll(strings.ToLower(name), " ", "_")
		if metricTags[norm] {
			mapping.Set(norm, name)
		} else if strings.ToLower(name) == "rouge1" {
			mapping.Set("rouge", name)
		}
	}
	return mapping
}
