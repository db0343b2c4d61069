// Package cardfile reads and writes model card markdown files.
//
// A card file is YAML front matter between --- fences followed by a
// markdown body. Parsing keeps the raw text around: callers that edit a
// card (update, enrich) patch individual sections and leave every other
// byte untouched.
package cardfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/runcard-dev/runcard/internal/card"
)

// DefaultName is the conventional card file name inside a run directory.
const DefaultName = "README.md"

// File is a parsed model card.
type File struct {
	Path   string
	Raw    string        // complete original contents
	Header *card.Fields  // ordered front matter mapping, nil when absent
	Meta   card.Metadata // typed view of the known header keys
	Body   string        // contents after the closing front matter fence
}

// Section is one level-2 heading and its content.
type Section struct {
	Heading string
	Content string
}

// CheckExtension validates that path looks like a markdown card file.
func CheckExtension(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return nil
	default:
		return fmt.Errorf("unsupported card extension: %q (want .md or .markdown)", filepath.Ext(path))
	}
}

// Read loads and parses a card file from disk.
func Read(path string) (*File, error) {
	if err := CheckExtension(path); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse splits raw card contents into front matter and body.
// A file without front matter parses with a nil Header.
func Parse(raw string) (*File, error) {
	f := &File{Raw: raw}

	headerText, body, ok := splitFrontMatter(raw)
	f.Body = body
	if !ok {
		return f, nil
	}

	fields := card.NewFields()
	if err := yaml.Unmarshal([]byte(headerText), fields); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	f.Header = fields

	var meta card.Metadata
	if err := yaml.Unmarshal([]byte(headerText), &meta); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	f.Meta = meta

	return f, nil
}

// splitFrontMatter returns the YAML between the fences and the remaining
// body. Front matter must start at the very beginning of the file.
func splitFrontMatter(raw string) (header, body string, ok bool) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if !strings.HasPrefix(raw, "---\n") {
		return "", raw, false
	}
	rest := strings.TrimPrefix(raw, "---\n")
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		// allow file ending marker
		if strings.HasSuffix(rest, "\n---") {
			return rest[:len(rest)-len("\n---")], "", true
		}
		return "", raw, false
	}
	return rest[:idx], rest[idx+len("\n---\n"):], true
}

// Title returns the text of the first level-1 heading in the body,
// or "" when there is none.
func (f *File) Title() string {
	for _, line := range strings.Split(f.Body, "\n") {
		if rest, found := strings.CutPrefix(line, "# "); found {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// Sections returns the level-2 sections of the body in document order.
func (f *File) Sections() []Section {
	var out []Section
	var current *Section
	var buf []string

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSpace(strings.Join(buf, "\n"))
			out = append(out, *current)
		}
		current = nil
		buf = nil
	}

	for _, line := range strings.Split(f.Body, "\n") {
		if rest, found := strings.CutPrefix(line, "## "); found {
			flush()
			current = &Section{Heading: strings.TrimSpace(rest)}
			continue
		}
		if current != nil {
			buf = append(buf, line)
		}
	}
	flush()
	return out
}

// Section returns the content under the given level-2 or level-3 heading.
func (f *File) Section(heading string) (string, bool) {
	return extractSection(f.Body, heading)
}

// IsPlaceholder reports whether the section exists but still carries the
// generated placeholder text.
func (f *File) IsPlaceholder(heading string) bool {
	content, ok := f.Section(heading)
	return ok && strings.Contains(content, card.MoreInfoNeeded)
}

// Bullet is one "- name: value" line from a section body.
type Bullet struct {
	Name  string
	Value string
}

// BulletValues parses the "- name: value" bullet lines generated cards
// use for hyperparameters and eval results, in order of appearance.
// Lines that are not bullets, or bullets without a colon, are skipped.
func BulletValues(content string) []Bullet {
	var out []Bullet
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		name, value, ok := strings.Cut(line[2:], ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		out = append(out, Bullet{Name: name, Value: value})
	}
	return out
}

// extractSection finds a level-2 or level-3 heading with the requested
// text and returns everything up to the next heading of any level.
func extractSection(markdown string, heading string) (string, bool) {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	lines := strings.Split(markdown, "\n")

	headingRe := regexp.MustCompile(fmt.Sprintf(`^#{2,3}\s+%s\s*$`, regexp.QuoteMeta(heading)))
	nextHeadingRe := regexp.MustCompile(`^#+\s+.+$`)

	found := false
	buf := make([]string, 0)
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !found {
			if headingRe.MatchString(line) {
				found = true
			}
			continue
		}
		// Stop at the next heading (any level)
		if nextHeadingRe.MatchString(line) {
			break
		}
		buf = append(buf, line)
	}
	if !found {
		return "", false
	}
	return strings.TrimSpace(strings.Join(buf, "\n")), true
}

// ReplaceSection swaps the content under a level-2 heading, keeping the
// heading line itself and everything outside the section untouched. The
// boolean reports whether the heading was found.
func ReplaceSection(body, heading, content string) (string, bool) {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(body, "\n")

	headingRe := regexp.MustCompile(fmt.Sprintf(`^##\s+%s\s*$`, regexp.QuoteMeta(heading)))
	nextHeadingRe := regexp.MustCompile(`^##?\s+.+$`)

	start := -1
	for i, line := range lines {
		if headingRe.MatchString(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return body, false
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if nextHeadingRe.MatchString(lines[i]) {
			end = i
			break
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines[:start+1], "\n"))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(content))
	b.WriteString("\n")
	if end < len(lines) {
		b.WriteString("\n")
		b.WriteString(strings.Join(lines[end:], "\n"))
	}
	return b.String(), true
}

// RenderHeader serializes an ordered header mapping between --- fences.
func RenderHeader(header *card.Fields) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(header); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return "---\n" + buf.String() + "---\n", nil
}

// Render reassembles the full card text from the (possibly patched)
// header and body.
func (f *File) Render() (string, error) {
	if f.Header == nil {
		return f.Body, nil
	}
	header, err := RenderHeader(f.Header)
	if err != nil {
		return "", err
	}
	return header + f.Body, nil
}

// Write stores card contents at path, creating parent directories as
// needed.
func Write(path string, contents string) error {
	if err := CheckExtension(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}
