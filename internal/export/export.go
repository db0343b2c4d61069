// Package export turns a parsed model card into a CycloneDX BOM.
//
// The metadata component is a machine-learning-model component carrying
// an MLModelCard: the task and datasets go into the model parameters and
// the model-index metrics into the quantitative analysis. Training
// hyperparameters are recorded as component properties. Datasets, the
// base model and the framework stack become components of their own,
// tied to the model through the dependency graph.
package export

import (
	"fmt"
	"regexp"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"

	"github.com/runcard-dev/runcard/internal/cardfile"
	"github.com/runcard-dev/runcard/internal/registry"
)

// Options tweak how the BOM is assembled.
type Options struct {
	// ToolVersion overrides the resolved runcard version in the tool
	// component. Leave empty to use ToolVersion().
	ToolVersion string
}

// Build assembles a CycloneDX BOM from a parsed card.
func Build(f *cardfile.File, opts Options) (*cdx.BOM, error) {
	if f == nil {
		return nil, fmt.Errorf("card is nil")
	}

	name := modelName(f)
	logf(name, "export start")

	comp := modelComponent(f, name)

	extra := datasetComponents(f)
	if base := baseModelComponent(f); base != nil {
		extra = append(extra, *base)
	}
	extra = append(extra, frameworkComponents(f)...)

	// model parameters reference the dataset components by bom-ref
	attachDatasetRefs(comp, extra)

	bom := cdx.NewBOM()
	bom.Metadata = &cdx.Metadata{Component: comp}
	AddSerialNumber(bom)
	AddTimestamp(bom)
	AddTool(bom, opts.ToolVersion)

	if len(extra) > 0 {
		bom.Components = &extra
	}
	AddDependencies(bom)

	logf(name, "export ok (components=%d)", len(extra))
	return bom, nil
}

// modelName picks the component name: the card title, then the
// model-index name, then a generic fallback.
func modelName(f *cardfile.File) string {
	if name := strings.TrimSpace(f.Title()); name != "" {
		return name
	}
	if len(f.Meta.ModelIndex) > 0 {
		if name := strings.TrimSpace(f.Meta.ModelIndex[0].Name); name != "" {
			return name
		}
	}
	return "model"
}

func modelComponent(f *cardfile.File, name string) *cdx.Component {
	comp := &cdx.Component{
		Type:      cdx.ComponentTypeMachineLearningModel,
		Name:      name,
		ModelCard: modelCard(f),
	}

	if lic := strings.TrimSpace(f.Meta.License); lic != "" {
		ls := cdx.Licenses{{License: &cdx.License{Name: lic}}}
		comp.Licenses = &ls
	}
	if len(f.Meta.Tags) > 0 {
		tags := append([]string(nil), f.Meta.Tags...)
		comp.Tags = &tags
	}
	if desc, ok := f.Section(registry.HeadingDescription); ok && !f.IsPlaceholder(registry.HeadingDescription) {
		comp.Description = desc
	}
	if len(f.Meta.Language) > 0 {
		setProperty(comp, "huggingface:language", strings.Join(f.Meta.Language, ", "))
	}
	if content, ok := f.Section(registry.HeadingHyperparameters); ok {
		for _, b := range cardfile.BulletValues(content) {
			setProperty(comp, "runcard:hyperparameter:"+b.Name, b.Value)
		}
	}

	comp.PackageURL = Purl("model", name, "")
	comp.BOMRef = comp.PackageURL
	return comp
}

func modelCard(f *cardfile.File) *cdx.MLModelCard {
	card := &cdx.MLModelCard{}
	mp := &cdx.MLModelParameters{}

	for _, entry := range f.Meta.ModelIndex {
		for _, res := range entry.Results {
			if res.Task != nil && mp.Task == "" {
				mp.Task = res.Task.Type
			}
		}
	}

	if metrics := performanceMetrics(f); len(metrics) > 0 {
		card.QuantitativeAnalysis = &cdx.MLQuantitativeAnalysis{
			PerformanceMetrics: &metrics,
		}
	}

	if mp.Task != "" {
		card.ModelParameters = mp
	}
	return card
}

// performanceMetrics flattens the model-index metrics, keeping the
// first value seen per metric type. The dataset config, when present,
// becomes the metric's slice.
func performanceMetrics(f *cardfile.File) []cdx.MLPerformanceMetric {
	var metrics []cdx.MLPerformanceMetric
	seen := make(map[string]bool)
	for _, entry := range f.Meta.ModelIndex {
		for _, res := range entry.Results {
			for _, m := range res.Metrics {
				mt := strings.TrimSpace(m.Type)
				if mt == "" || seen[mt] {
					continue
				}
				seen[mt] = true
				pm := cdx.MLPerformanceMetric{Type: mt, Value: fmt.Sprintf("%v", m.Value)}
				if res.Dataset != nil && res.Dataset.Args != "" {
					pm.Slice = res.Dataset.Args
				}
				metrics = append(metrics, pm)
			}
		}
	}
	return metrics
}

// datasetComponents builds one data component per distinct dataset in
// the model index, falling back to the bare header tags.
func datasetComponents(f *cardfile.File) []cdx.Component {
	var comps []cdx.Component
	seen := make(map[string]bool)

	add := func(id, humanName, config string) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		comp := cdx.Component{
			Type: cdx.ComponentTypeData,
			Name: id,
		}
		if humanName != "" && humanName != id {
			comp.Description = humanName
		}
		if config != "" {
			setProperty(&comp, "huggingface:datasetConfig", config)
		}
		comp.PackageURL = Purl("dataset", id, "")
		comp.BOMRef = comp.PackageURL
		comps = append(comps, comp)
	}

	for _, entry := range f.Meta.ModelIndex {
		for _, res := range entry.Results {
			if res.Dataset != nil {
				add(res.Dataset.Type, res.Dataset.Name, res.Dataset.Args)
			}
		}
	}
	for _, tag := range f.Meta.Datasets {
		add(tag, "", "")
	}
	return comps
}

var finetunedFromRe = regexp.MustCompile(`fine-tuned version of \[([^\]]+)\]\(https://huggingface\.co/`)

// baseModelComponent returns a component for the model this card was
// fine-tuned from, or nil when the card does not name one. The header
// key wins over the generated intro line.
func baseModelComponent(f *cardfile.File) *cdx.Component {
	id := ""
	if f.Header != nil {
		if v, ok := f.Header.Get("base_model"); ok {
			switch t := v.(type) {
			case string:
				id = t
			case []any:
				if len(t) > 0 {
					id, _ = t[0].(string)
				}
			}
		}
	}
	if id == "" {
		if m := finetunedFromRe.FindStringSubmatch(f.Body); m != nil {
			id = m[1]
		}
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}

	comp := &cdx.Component{
		Type: cdx.ComponentTypeMachineLearningModel,
		Name: id,
	}
	comp.PackageURL = Purl("model", id, "")
	comp.BOMRef = comp.PackageURL
	return comp
}

// pypi package names where the card's display name is not just a
// case variation
var pypiNames = map[string]string{
	"pytorch": "torch",
}

// frameworkComponents turns the "Framework versions" bullets into
// library components with pkg:pypi purls.
func frameworkComponents(f *cardfile.File) []cdx.Component {
	content, ok := f.Section(registry.HeadingVersions)
	if !ok {
		return nil
	}

	var comps []cdx.Component
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		fields := strings.Fields(line[2:])
		if len(fields) != 2 {
			continue
		}
		name := strings.ToLower(fields[0])
		if mapped, ok := pypiNames[name]; ok {
			name = mapped
		}
		version := fields[1]

		comp := cdx.Component{
			Type:    cdx.ComponentTypeLibrary,
			Name:    name,
			Version: version,
		}
		comp.PackageURL = "pkg:pypi/" + name + "@" + strings.ToLower(version)
		comp.BOMRef = comp.PackageURL
		comps = append(comps, comp)
	}
	return comps
}

// attachDatasetRefs points the model parameters at the dataset
// components so the refs resolve inside the document.
func attachDatasetRefs(comp *cdx.Component, extra []cdx.Component) {
	var choices []cdx.MLDatasetChoice
	for _, c := range extra {
		if c.Type == cdx.ComponentTypeData && c.BOMRef != "" {
			choices = append(choices, cdx.MLDatasetChoice{Ref: c.BOMRef})
		}
	}
	if len(choices) == 0 {
		return
	}
	if comp.ModelCard.ModelParameters == nil {
		comp.ModelCard.ModelParameters = &cdx.MLModelParameters{}
	}
	comp.ModelCard.ModelParameters.Datasets = &choices
}

func setProperty(c *cdx.Component, name, value string) {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return
	}
	if c.Properties == nil {
		c.Properties = &[]cdx.Property{}
	}
	*c.Properties = append(*c.Properties, cdx.Property{Name: name, Value: value})
}
