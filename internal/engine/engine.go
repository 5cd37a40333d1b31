package engine

import "strings"

// Default record boundary fields.
const (
	DefaultStartField = "NAME"
	DefaultEndField   = "SEX"
)

// Config carries everything the pipeline needs: the output schema and
// the record boundary fields. The zero value is usable; empty fields
// fall back to the defaults.
type Config struct {
	Columns    []string
	StartField string
	EndField   string
}

// DefaultConfig returns the default roster configuration.
func DefaultConfig() Config {
	return Config{
		Columns:    DefaultColumns,
		StartField: DefaultStartField,
		EndField:   DefaultEndField,
	}
}

// Result is the pipeline output: column headers and rows of equal width.
// Headers are empty exactly when no records were extracted.
type Result struct {
	Headers []string
	Rows    [][]string
}

// Pipeline wires the extraction stages together. Construct once, call
// Process per text blob; a Pipeline is stateless across calls.
type Pipeline struct {
	schema  *Schema
	cls     *Classifier
	seg     *Segmenter
	builder *Builder
}

// NewPipeline builds a pipeline from the given configuration. An invalid
// column schema is a configuration error and is reported here, never
// from Process.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if len(cfg.Columns) == 0 {
		cfg.Columns = DefaultColumns
	}
	if strings.TrimSpace(cfg.StartField) == "" {
		cfg.StartField = DefaultStartField
	}
	if strings.TrimSpace(cfg.EndField) == "" {
		cfg.EndField = DefaultEndField
	}
	schema, err := NewSchema(cfg.Columns)
	if err != nil {
		return nil, err
	}
	cls := &Classifier{}
	return &Pipeline{
		schema:  schema,
		cls:     cls,
		seg:     NewSegmenter(cfg.StartField, cfg.EndField, cls),
		builder: NewBuilder(cls),
	}, nil
}

// Schema exposes the pipeline's column schema.
func (p *Pipeline) Schema() *Schema { return p.schema }

// GroupColumnIndex returns the index of the organization-name column in
// the output rows, or -1 when the schema has none.
func (p *Pipeline) GroupColumnIndex() int { return p.schema.GroupColumnIndex() }

// Process runs the full extraction pipeline over one text blob. It never
// fails: unusable input yields an empty Result.
func (p *Pipeline) Process(text string) Result {
	lines := p.filterLines(text)
	blocks := p.seg.Segment(lines)

	var rows [][]string
	for _, block := range blocks {
		fields := p.builder.Build(block)
		if fields == nil {
			continue
		}
		rows = append(rows, p.schema.MapRow(fields, len(rows)+1))
	}

	if len(rows) == 0 {
		return Result{}
	}
	return Result{Headers: p.schema.Names(), Rows: rows}
}

// filterLines trims the input into lines and drops noise, keeping
// key/value and orphan lines for segmentation.
func (p *Pipeline) filterLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		if p.cls.Classify(line) == LineNoise {
			continue
		}
		out = append(out, line)
	}
	return out
}
