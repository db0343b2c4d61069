package card

// IndexEntry is one model-index entry: the model name plus its results.
type IndexEntry struct {
	Name    string        `yaml:"name"`
	Results []IndexResult `yaml:"results"`
}

// IndexResult couples a task, the dataset it was evaluated on and the
// metrics obtained. Entries missing any of the three are never emitted.
type IndexResult struct {
	Task    *IndexTask    `yaml:"task,omitempty"`
	Dataset *IndexDataset `yaml:"dataset,omitempty"`
	Metrics []IndexMetric `yaml:"metrics,omitempty"`
}

type IndexTask struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type IndexDataset struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Args string `yaml:"args,omitempty"`
}

type IndexMetric struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value any    `yaml:"value"`
}

// createModelIndex builds the model-index for the summary: one result per
// task-tag/dataset-tag combination. metricMapping is tag -> result name as
// produced by InferMetricTags. Combinations that lack a task, a dataset or
// metrics are dropped with a log line so a partial index never invalidates
// the card.
func (s *TrainingSummary) createModelIndex(metricMapping *Fields) []IndexEntry {
	entry := IndexEntry{Name: s.modelName, Results: []IndexResult{}}

	datasetNames := Listify(s.dataset)
	datasetTags := Listify(s.datasetTags)
	datasetArgs := Listify(s.datasetArgs)
	for len(datasetArgs) < len(datasetTags) {
		datasetArgs = append(datasetArgs, "")
	}

	datasetMapping := make(map[string]string)
	datasetArgMapping := make(map[string]string)
	var datasetOrder []string
	for i, tag := range datasetTags {
		if i >= len(datasetNames) {
			break
		}
		if _, seen := datasetMapping[tag]; !seen {
			datasetOrder = append(datasetOrder, tag)
		}
		datasetMapping[tag] = datasetNames[i]
		datasetArgMapping[tag] = datasetArgs[i]
	}

	taskMapping := make(map[string]string)
	var taskOrder []string
	for _, task := range Listify(s.tasks) {
		name, known := TaskTagToName[task]
		if !known {
			continue
		}
		if _, seen := taskMapping[task]; !seen {
			taskOrder = append(taskOrder, task)
		}
		taskMapping[task] = name
	}

	if len(taskOrder) == 0 && len(datasetOrder) == 0 {
		return []IndexEntry{entry}
	}
	if len(taskOrder) == 0 {
		taskOrder = []string{""}
	}
	if len(datasetOrder) == 0 {
		datasetOrder = []string{""}
	}

	for _, taskTag := range taskOrder {
		for _, dsTag := range datasetOrder {
			var result IndexResult
			if taskTag != "" {
				result.Task = &IndexTask{Name: taskMapping[taskTag], Type: taskTag}
			}
			if dsTag != "" {
				result.Dataset = &IndexDataset{Name: datasetMapping[dsTag], Type: dsTag, Args: datasetArgMapping[dsTag]}
			}
			if metricMapping.Len() > 0 {
				for _, metricTag := range metricMapping.Names() {
					name, _ := metricMapping.Get(metricTag)
					metricName := name.(string)
					value, _ := s.evalResults.Get(metricName)
					result.Metrics = append(result.Metrics, IndexMetric{
						Name:  metricName,
						Type:  metricTag,
						Value: value,
					})
				}
			}

			if result.Task != nil && result.Dataset != nil && result.Metrics != nil {
				entry.Results = append(entry.Results, result)
			} else {
				logf(s.modelName, "dropping model-index result (task=%v dataset=%v metrics=%d): not all required fields are present",
					result.Task != nil, result.Dataset != nil, len(result.Metrics))
			}
		}
	}

	return []IndexEntry{entry}
}
