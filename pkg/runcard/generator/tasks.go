package generator

import "strings"

// taskRules map architecture class-name suffixes to task tags
// ("BertForMaskedLM" -> fill-mask). First match wins.
var taskRules = []struct {
	suffix string
	task   string
}{
	{"ForCausalLM", "text-generation"},
	{"LMHeadModel", "text-generation"},
	{"ForImageClassification", "image-classification"},
	{"ForImageSegmentation", "image-segmentation"},
	{"ForSemanticSegmentation", "image-segmentation"},
	{"ForMaskedLM", "fill-mask"},
	{"ForObjectDetection", "object-detection"},
	{"ForQuestionAnswering", "question-answering"},
	{"ForConditionalGeneration", "text2text-generation"},
	{"ForSequenceClassification", "text-classification"},
	{"ForTokenClassification", "token-classification"},
	{"ForAudioClassification", "audio-classification"},
}

// TaskFromArchitectures infers a task tag from the model's architecture
// class names. Table QA heads reuse the question-answering suffix, so
// they are matched explicitly first. Returns "" when nothing matches.
func TaskFromArchitectures(architectures []string) string {
	for _, arch := range architectures {
		arch = strings.TrimSpace(arch)
		if arch == "" {
			continue
		}
		if strings.HasPrefix(arch, "Tapas") && strings.HasSuffix(arch, "ForQuestionAnswering") {
			return "table-question-answering"
		}
		for _, rule := range taskRules {
			if strings.HasSuffix(arch, rule.suffix) {
				return rule.task
			}
		}
	}
	return ""
}
