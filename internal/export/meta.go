package export

import (
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"
)

const (
	DefaultToolVendor = "runcard-dev"
	DefaultToolName   = "runcard"
)

// AddSerialNumber sets a urn:uuid serial number if not already set.
func AddSerialNumber(bom *cdx.BOM) {
	if bom.SerialNumber == "" {
		bom.SerialNumber = "urn:uuid:" + uuid.New().String()
	}
}

// AddTimestamp sets the generation timestamp (RFC3339) if not already set.
func AddTimestamp(bom *cdx.BOM) {
	if bom.Metadata == nil {
		bom.Metadata = &cdx.Metadata{}
	}
	if bom.Metadata.Timestamp == "" {
		bom.Metadata.Timestamp = time.Now().Format(time.RFC3339)
	}
}

// AddTool records runcard in bom.metadata.tools.components. An empty
// version is resolved via ToolVersion.
func AddTool(bom *cdx.BOM, version string) {
	if bom.Metadata == nil {
		bom.Metadata = &cdx.Metadata{}
	}
	if bom.Metadata.Tools == nil {
		bom.Metadata.Tools = &cdx.ToolsChoice{}
	}
	if version == "" {
		version = ToolVersion()
	}

	comp := cdx.Component{
		Type: cdx.ComponentTypeApplication,
		Manufacturer: &cdx.OrganizationalEntity{
			Name: DefaultToolVendor,
		},
		Name:    DefaultToolName,
		Version: version,
	}

	if bom.Metadata.Tools.Components == nil {
		bom.Metadata.Tools.Components = &[]cdx.Component{comp}
	} else {
		components := append(*bom.Metadata.Tools.Components, comp)
		bom.Metadata.Tools.Components = &components
	}
}

// AddDependencies builds the dependency graph: the model (metadata
// component) depends on every other component in the BOM, and each of
// those gets an entry of its own with no further dependencies.
func AddDependencies(bom *cdx.BOM) {
	if bom == nil {
		return
	}

	var modelRef string
	if bom.Metadata != nil && bom.Metadata.Component != nil {
		modelRef = bom.Metadata.Component.BOMRef
	}
	if modelRef == "" {
		return
	}

	var refs []string
	if bom.Components != nil {
		for _, comp := range *bom.Components {
			if comp.BOMRef != "" {
				refs = append(refs, comp.BOMRef)
			}
		}
	}

	deps := make([]cdx.Dependency, 0, 1+len(refs))
	modelDep := cdx.Dependency{Ref: modelRef}
	if len(refs) > 0 {
		cp := make([]string, len(refs))
		copy(cp, refs)
		modelDep.Dependencies = &cp
	}
	deps = append(deps, modelDep)

	for _, ref := range refs {
		deps = append(deps, cdx.Dependency{Ref: ref})
	}

	bom.Dependencies = &deps
}

// Purl builds a pkg:huggingface package URL for a model or dataset.
// IDs may be namespaced ("org/name"); each segment is encoded on its
// own so the slash survives. Version, when present, is a revision sha
// and is lowercased per the purl spec.
func Purl(kind, id, version string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		id = "unknown"
	} else {
		parts := strings.Split(id, "/")
		for i, p := range parts {
			parts[i] = encodeSegment(strings.TrimSpace(p))
		}
		id = strings.Join(parts, "/")
	}

	var base string
	switch kind {
	case "model":
		base = "pkg:huggingface/" + id
	case "dataset":
		base = "pkg:huggingface/datasets/" + id
	default:
		base = "pkg:huggingface/unknown/" + id
	}

	version = strings.ToLower(strings.TrimSpace(version))
	if version == "" {
		return base
	}
	return base + "@" + version
}

// encodeSegment escapes the characters purl does not allow bare in a
// name segment.
func encodeSegment(segment string) string {
	var b strings.Builder
	for _, ch := range segment {
		switch ch {
		case '@':
			b.WriteString("%40")
		case ' ':
			b.WriteString("%20")
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}
