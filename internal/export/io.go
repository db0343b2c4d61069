package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
)

// ReadBOM reads a BOM from a file. Format is "json", "xml" or "auto"
// (default); with "auto" the format follows the file extension, JSON
// when in doubt.
func ReadBOM(path string, format string) (*cdx.BOM, error) {
	fileFmt, _, err := resolveFormat(path, format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bom := new(cdx.BOM)
	if err := cdx.NewBOMDecoder(f, fileFmt).Decode(bom); err != nil {
		return nil, err
	}
	return bom, nil
}

// WriteBOM writes a BOM to a file. Format works as in ReadBOM, except
// that an explicit format must match the file extension. A non-empty
// spec pins the CycloneDX spec version, otherwise the encoder default
// is used.
func WriteBOM(bom *cdx.BOM, outputPath string, format string, spec string) error {
	fileFmt, actual, err := resolveFormat(outputPath, format)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(outputPath))
	if want := "." + actual; ext != want {
		return fmt.Errorf("output path extension %q does not match format %q", filepath.Ext(outputPath), actual)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := cdx.NewBOMEncoder(f, fileFmt)
	encoder.SetPretty(true)

	if spec == "" {
		return encoder.Encode(bom)
	}
	sv, ok := ParseSpecVersion(spec)
	if !ok {
		return fmt.Errorf("unsupported CycloneDX spec version: %q", spec)
	}
	return encoder.EncodeVersion(bom, sv)
}

// resolveFormat normalizes a format request against a file path and
// returns the decoder/encoder format plus the resolved name.
func resolveFormat(path string, format string) (cdx.BOMFileFormat, string, error) {
	actual := strings.ToLower(strings.TrimSpace(format))
	switch actual {
	case "", "auto":
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			actual = "xml"
		} else {
			actual = "json"
		}
	case "json", "xml":
	default:
		return cdx.BOMFileFormatJSON, "", fmt.Errorf("unsupported BOM format: %q", format)
	}

	if actual == "xml" {
		return cdx.BOMFileFormatXML, actual, nil
	}
	return cdx.BOMFileFormatJSON, actual, nil
}

// ParseSpecVersion parses a spec version string to a CycloneDX SpecVersion.
func ParseSpecVersion(s string) (cdx.SpecVersion, bool) {
	switch strings.TrimSpace(s) {
	case "1.0":
		return cdx.SpecVersion1_0, true
	case "1.1":
		return cdx.SpecVersion1_1, true
	case "1.2":
		return cdx.SpecVersion1_2, true
	case "1.3":
		return cdx.SpecVersion1_3, true
	case "1.4":
		return cdx.SpecVersion1_4, true
	case "1.5":
		return cdx.SpecVersion1_5, true
	case "1.6":
		return cdx.SpecVersion1_6, true
	default:
		return cdx.SpecVersion1_6, false
	}
}
