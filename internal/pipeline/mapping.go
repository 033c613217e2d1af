package pipeline

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MappingVersion is the only mapping schema version this build understands.
const MappingVersion = 1

// Source names used in the mapping document.
const (
	SourceSheet    = "sheet"
	SourceIdeation = "ideation"
)

//go:embed mapping.yaml
var defaultMapping []byte

// Rule locates one logical field in a source. Exactly one of the column,
// path or question forms is set.
type Rule struct {
	Column   string   `yaml:"column"`
	Columns  []string `yaml:"columns"`
	Path     string   `yaml:"path"`
	Question string   `yaml:"question"`
}

// QuestionSpec describes where an API object keeps its custom questions.
type QuestionSpec struct {
	List   string `yaml:"list"`
	Text   string `yaml:"text"`
	Answer string `yaml:"answer"`
}

// SourceMapping binds logical fields for a single source.
type SourceMapping struct {
	Questions QuestionSpec   `yaml:"questions"`
	Fields    map[Field]Rule `yaml:"fields"`
}

// Mapping is the versioned field-mapping table.
type Mapping struct {
	Version int                      `yaml:"version"`
	Sources map[string]SourceMapping `yaml:"sources"`
}

// DefaultMapping returns the embedded mapping table.
func DefaultMapping() (*Mapping, error) {
	return ParseMapping(defaultMapping)
}

// LoadMapping reads a mapping override from path, or the embedded default
// when path is empty.
func LoadMapping(path string) (*Mapping, error) {
	if path == "" {
		return DefaultMapping()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field mapping: %w", err)
	}
	return ParseMapping(data)
}

// ParseMapping decodes and validates a mapping document.
func ParseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse field mapping: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Mapping) validate() error {
	if m.Version != MappingVersion {
		return fmt.Errorf("unsupported field mapping version %d (want %d)", m.Version, MappingVersion)
	}
	known := make(map[Field]bool, len(KnownFields))
	for _, f := range KnownFields {
		known[f] = true
	}
	for name, src := range m.Sources {
		if _, ok := src.Fields[FieldID]; !ok {
			return fmt.Errorf("source %q: field %q is required", name, FieldID)
		}
		for f, r := range src.Fields {
			if !known[f] {
				return fmt.Errorf("source %q: unknown field %q", name, f)
			}
			forms := 0
			if r.Column != "" || len(r.Columns) > 0 {
				forms++
			}
			if r.Path != "" {
				forms++
			}
			if r.Question != "" {
				forms++
				if src.Questions.List == "" {
					return fmt.Errorf("source %q: field %q uses a question rule but no question list is configured", name, f)
				}
			}
			if forms != 1 {
				return fmt.Errorf("source %q: field %q must set exactly one of column, path, question", name, f)
			}
		}
	}
	return nil
}

// Source returns the mapping for the named source.
func (m *Mapping) Source(name string) (SourceMapping, error) {
	src, ok := m.Sources[name]
	if !ok {
		return SourceMapping{}, fmt.Errorf("no field mapping for source %q", name)
	}
	return src, nil
}

// FromRecord projects a header-keyed tabular record.
func (s SourceMapping) FromRecord(rec map[string]string) Fields {
	out := make(Fields, len(s.Fields))
	for f, r := range s.Fields {
		for _, col := range r.columns() {
			if v := rec[col]; strings.TrimSpace(v) != "" {
				out[f] = v
				break
			}
		}
	}
	return out
}

// FromJSON projects a decoded JSON object.
func (s SourceMapping) FromJSON(obj map[string]any) Fields {
	out := make(Fields, len(s.Fields))
	for f, r := range s.Fields {
		var v string
		switch {
		case r.Path != "":
			v = stringify(lookupPath(obj, r.Path))
		case r.Question != "":
			v = s.answer(obj, r.Question)
		}
		if strings.TrimSpace(v) != "" {
			out[f] = v
		}
	}
	return out
}

func (r Rule) columns() []string {
	if r.Column != "" {
		return append([]string{r.Column}, r.Columns...)
	}
	return r.Columns
}

func (s SourceMapping) answer(obj map[string]any, question string) string {
	list, _ := obj[s.Questions.List].([]any)
	needle := strings.ToLower(question)
	for _, item := range list {
		q, ok := item.(map[string]any)
		if !ok {
			continue
		}
		text, _ := q[s.Questions.Text].(string)
		if strings.Contains(strings.ToLower(text), needle) {
			return stringify(q[s.Questions.Answer])
		}
	}
	return ""
}

func lookupPath(obj map[string]any, path string) any {
	var cur any = obj
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := stringify(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}
