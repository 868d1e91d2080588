// Package ingest parses graph descriptions into a graph.Graph. Nodes and
// links carry a Style in their Data so renderers can colour them.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TFMV/echograph3d/graph"
	"github.com/TFMV/echograph3d/render"
)

var (
	// ErrMissingColumns is returned for CSV input without source and target columns
	ErrMissingColumns = errors.New("ingest: CSV must contain source and target columns")
	// ErrUnknownNode is returned when an edge references a node that was not declared
	ErrUnknownNode = errors.New("ingest: edge references non-existent node")
)

// Node sizes are kept within these bounds
const (
	baseSize = 12.0
	minSize  = 8.0
	maxSize  = 24.0
)

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns a populated graph
	ProcessData(data []byte) (*graph.Graph, error)

	// GetName returns the name of the processor
	GetName() string
}

// Style is stored in the Data of every node and link created by a processor
type Style struct {
	Color uint32         `json:"color"`
	Size  float64        `json:"size,omitempty"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// StyleOf returns the style attached to an entity's data, if any
func StyleOf(data any) (*Style, bool) {
	s, ok := data.(*Style)
	return s, ok
}

// Palette provides color schemes for graph visualization
type Palette struct {
	NodeColors []string
	EdgeColors []string
	Background string
}

// DefaultPalette returns a default color palette with vibrant colors
func DefaultPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#4285F4", // Google Blue
			"#EA4335", // Google Red
			"#FBBC05", // Google Yellow
			"#34A853", // Google Green
			"#673AB7", // Purple
			"#3F51B5", // Indigo
			"#00BCD4", // Cyan
			"#009688", // Teal
			"#FF5722", // Deep Orange
		},
		EdgeColors: []string{
			"#666666",
			"#888888",
			"#AAAAAA",
		},
		Background: "#f8f8f8",
	}
}

// SurrealPalette returns a high contrast palette for dark backgrounds
func SurrealPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#FF6D00", // Amber
			"#2979FF", // Blue
			"#00E676", // Green
			"#F50057", // Pink
			"#651FFF", // Deep Purple
			"#C6FF00", // Lime
			"#FF3D00", // Deep Orange
			"#00B0FF", // Light Blue
			"#76FF03", // Light Green
		},
		EdgeColors: []string{
			"#333333",
			"#9C27B0",
			"#00BFA5",
		},
		Background: "#212121",
	}
}

// CategoryPalette returns the twenty category colours used by the dynamic
// demo
func CategoryPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
			"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
			"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
			"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
		},
		EdgeColors: []string{"#7f7f7f", "#c7c7c7"},
		Background: "#000000",
	}
}

// NodeColor returns the i-th node colour, cycling through the palette
func (p *Palette) NodeColor(i int) uint32 {
	return render.ParseColor(p.NodeColors[i%len(p.NodeColors)])
}

// EdgeColor returns the i-th edge colour, cycling through the palette
func (p *Palette) EdgeColor(i int) uint32 {
	return render.ParseColor(p.EdgeColors[i%len(p.EdgeColors)])
}

// builder accumulates nodes and links before they are handed out, so a
// failed parse never returns a partial graph
type builder struct {
	palette *Palette
	graph   *graph.Graph
	styles  map[string]*Style
	links   int
}

func newBuilder(p *Palette) *builder {
	return &builder{palette: p, graph: graph.New(), styles: make(map[string]*Style)}
}

func (b *builder) node(id, label string, attrs map[string]any) error {
	if _, exists := b.styles[id]; exists {
		return nil
	}
	style := &Style{
		Color: b.palette.NodeColor(len(b.styles)),
		Size:  baseSize,
		Attrs: attrs,
	}
	node, err := b.graph.AddNode(id, style)
	if err != nil {
		return fmt.Errorf("failed to add node %q: %w", id, err)
	}
	if label != "" {
		node.Label = label
	}
	b.styles[id] = style
	return nil
}

func (b *builder) link(from, to string, weight float64) error {
	if weight <= 0 {
		weight = 1
	}
	style := &Style{Color: b.palette.EdgeColor(b.links)}
	if _, err := b.graph.AddLink(from, to, style, graph.WithWeight(weight)); err != nil {
		return fmt.Errorf("failed to add link %s -> %s: %w", from, to, err)
	}
	b.links++

	// Increase node size based on number of connections
	b.styles[from].Size++
	b.styles[to].Size++
	return nil
}

func (b *builder) finish() *graph.Graph {
	for _, s := range b.styles {
		s.Size = min(max(s.Size, minSize), maxSize)
	}
	return b.graph
}

// JSONProcessor handles JSON data of the form
// {"nodes":[{"id","label","data"}],"edges":[{"source","target","weight"}]}
type JSONProcessor struct {
	palette *Palette
}

// NewJSONProcessor creates a new JSON processor with the specified palette
func NewJSONProcessor(palette *Palette) *JSONProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &JSONProcessor{palette: palette}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data
func (p *JSONProcessor) ProcessData(data []byte) (*graph.Graph, error) {
	var graphData struct {
		Nodes []struct {
			ID    string         `json:"id"`
			Label string         `json:"label"`
			Data  map[string]any `json:"data,omitempty"`
		} `json:"nodes"`
		Edges []struct {
			Source string  `json:"source"`
			Target string  `json:"target"`
			Weight float64 `json:"weight"`
		} `json:"edges"`
	}

	if err := json.Unmarshal(data, &graphData); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	b := newBuilder(p.palette)
	for _, n := range graphData.Nodes {
		if err := b.node(n.ID, n.Label, n.Data); err != nil {
			return nil, err
		}
	}
	for _, e := range graphData.Edges {
		_, sourceExists := b.styles[e.Source]
		_, targetExists := b.styles[e.Target]
		if !sourceExists || !targetExists {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownNode, e.Source, e.Target)
		}
		if err := b.link(e.Source, e.Target, e.Weight); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

// CSVProcessor handles CSV edge lists with a header row
type CSVProcessor struct {
	palette *Palette
}

// NewCSVProcessor creates a new CSV processor with the specified palette
func NewCSVProcessor(palette *Palette) *CSVProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &CSVProcessor{palette: palette}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data. Source and target columns are required;
// weight and label columns are optional.
func (p *CSVProcessor) ProcessData(data []byte) (*graph.Graph, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	sourceIdx, targetIdx, weightIdx, labelIdx := -1, -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		case "weight", "value", "strength":
			weightIdx = i
		case "label", "name", "title":
			labelIdx = i
		}
	}
	if sourceIdx == -1 || targetIdx == -1 {
		return nil, ErrMissingColumns
	}

	b := newBuilder(p.palette)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}
		if sourceIdx >= len(row) || targetIdx >= len(row) {
			return nil, fmt.Errorf("error reading CSV row: %d fields, want at least %d", len(row), max(sourceIdx, targetIdx)+1)
		}

		sourceID := strings.TrimSpace(row[sourceIdx])
		targetID := strings.TrimSpace(row[targetIdx])

		// the label column names the source node
		label := ""
		if labelIdx >= 0 && labelIdx < len(row) {
			label = row[labelIdx]
		}
		if err := b.node(sourceID, label, nil); err != nil {
			return nil, err
		}
		if err := b.node(targetID, "", nil); err != nil {
			return nil, err
		}

		weight := 1.0
		if weightIdx >= 0 && weightIdx < len(row) {
			if w, err := strconv.ParseFloat(strings.TrimSpace(row[weightIdx]), 64); err == nil {
				weight = w
			}
		}
		if err := b.link(sourceID, targetID, weight); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

// LogProcessor handles plain text where each line states a relationship,
// e.g. "A -> B" or "X connected to Y".
type LogProcessor struct {
	palette *Palette
}

// NewLogProcessor creates a new log processor with the specified palette
func NewLogProcessor(palette *Palette) *LogProcessor {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &LogProcessor{palette: palette}
}

// GetName returns the name of the processor
func (p *LogProcessor) GetName() string {
	return "Log Processor"
}

// Common log patterns for connections
var logSeparators = []string{
	" -> ",
	" => ",
	" connected to ",
	" connects to ",
	" links to ",
	" linked to ",
	" - ",
}

// ProcessData processes log data. Lines matching no pattern are skipped.
func (p *LogProcessor) ProcessData(data []byte) (*graph.Graph, error) {
	b := newBuilder(p.palette)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var sourceID, targetID string
		found := false
		for _, sep := range logSeparators {
			parts := strings.Split(line, sep)
			if len(parts) == 2 {
				sourceID = strings.TrimSpace(parts[0])
				targetID = strings.TrimSpace(parts[1])
				found = sourceID != "" && targetID != ""
				break
			}
		}
		if !found {
			continue
		}

		if err := b.node(sourceID, "", nil); err != nil {
			return nil, err
		}
		if err := b.node(targetID, "", nil); err != nil {
			return nil, err
		}
		if err := b.link(sourceID, targetID, 1); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONProcessor(DefaultPalette()), nil
	case "csv":
		return NewCSVProcessor(DefaultPalette()), nil
	case "log":
		return NewLogProcessor(DefaultPalette()), nil
	case "surreal-json":
		return NewJSONProcessor(SurrealPalette()), nil
	case "surreal-csv":
		return NewCSVProcessor(SurrealPalette()), nil
	case "surreal-log":
		return NewLogProcessor(SurrealPalette()), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
