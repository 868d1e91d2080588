package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/echograph3d/graph"
	"github.com/TFMV/echograph3d/models"
)

func styleOf(t *testing.T, g *graph.Graph, id string) *Style {
	t.Helper()
	node, ok := g.GetNode(id)
	require.True(t, ok, id)
	style, ok := StyleOf(node.Data)
	require.True(t, ok, id)
	return style
}

func TestJSONProcessor(t *testing.T) {
	data := []byte(`{
		"nodes": [
			{"id": "1", "label": "Dreams", "data": {"kind": "idea"}},
			{"id": "2", "label": "Illusions"},
			{"id": "3"}
		],
		"edges": [
			{"source": "1", "target": "2", "weight": 2.5},
			{"source": "2", "target": "3"}
		]
	}`)

	g, err := NewJSONProcessor(nil).ProcessData(data)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.LinkCount())

	node, _ := g.GetNode("1")
	assert.Equal(t, "Dreams", node.Label)
	node, _ = g.GetNode("3")
	assert.Equal(t, "3", node.Label, "label defaults to the id")

	s1 := styleOf(t, g, "1")
	assert.Equal(t, uint32(0x4285f4), s1.Color)
	assert.Equal(t, "idea", s1.Attrs["kind"])
	assert.Equal(t, 13.0, s1.Size)
	assert.Equal(t, 14.0, styleOf(t, g, "2").Size)

	links := g.FindLinks("1", "2")
	require.Len(t, links, 1)
	assert.Equal(t, 2.5, links[0].Weight)
	assert.Equal(t, 1.0, g.FindLinks("2", "3")[0].Weight, "missing weights default to 1")
}

func TestJSONProcessorErrors(t *testing.T) {
	_, err := NewJSONProcessor(nil).ProcessData([]byte(`{not json`))
	assert.Error(t, err)

	_, err = NewJSONProcessor(nil).ProcessData([]byte(`{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"b"}]}`))
	assert.ErrorIs(t, err, ErrUnknownNode)

	_, err = NewJSONProcessor(nil).ProcessData([]byte(`{"nodes":[{"id":""}]}`))
	assert.ErrorIs(t, err, graph.ErrEmptyID)
}

func TestNodeSizeIsClamped(t *testing.T) {
	data := []byte("from,to\n")
	for range 20 {
		data = append(data, "hub,leaf\n"...)
	}
	g, err := NewCSVProcessor(nil).ProcessData(data)
	require.NoError(t, err)
	assert.Equal(t, maxSize, styleOf(t, g, "hub").Size)
}

func TestCSVProcessor(t *testing.T) {
	data := []byte("Source,Target,Weight,Name\na,b,3,Alpha\nb,c,oops,\n")

	g, err := NewCSVProcessor(SurrealPalette()).ProcessData(data)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.LinkCount())

	node, _ := g.GetNode("a")
	assert.Equal(t, "Alpha", node.Label)
	assert.Equal(t, uint32(0xff6d00), styleOf(t, g, "a").Color)
	assert.Equal(t, 3.0, g.FindLinks("a", "b")[0].Weight)
	assert.Equal(t, 1.0, g.FindLinks("b", "c")[0].Weight)

	link := g.FindLinks("a", "b")[0]
	style, ok := StyleOf(link.Data)
	require.True(t, ok)
	assert.Equal(t, uint32(0x333333), style.Color)
}

func TestCSVProcessorErrors(t *testing.T) {
	_, err := NewCSVProcessor(nil).ProcessData([]byte("a,b\n1,2\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)

	_, err = NewCSVProcessor(nil).ProcessData(nil)
	assert.Error(t, err)

	_, err = NewCSVProcessor(nil).ProcessData([]byte("foo,source,target\nx\n"))
	assert.Error(t, err)
}

func TestLogProcessor(t *testing.T) {
	data := []byte(`
A -> B
B connected to C
noise line
 -> D
C => A
`)
	g, err := NewLogProcessor(nil).ProcessData(data)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.LinkCount())
	assert.Len(t, g.FindLinks("C", "A"), 1)
}

func TestGetProcessor(t *testing.T) {
	for _, format := range []string{"json", "CSV", "log", "surreal-json", "surreal-csv", "surreal-log"} {
		p, err := GetProcessor(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, p.GetName())
	}
	_, err := GetProcessor("sql")
	assert.Error(t, err)
}

func TestPaletteCycles(t *testing.T) {
	p := CategoryPalette()
	assert.Equal(t, p.NodeColor(0), p.NodeColor(len(p.NodeColors)))
	assert.Equal(t, uint32(0x1f77b4), p.NodeColor(0))
	assert.Equal(t, uint32(0xc7c7c7), p.EdgeColor(1))
}

func TestStyleOfForeignData(t *testing.T) {
	_, ok := StyleOf(&models.Node{})
	assert.False(t, ok)
	_, ok = StyleOf(nil)
	assert.False(t, ok)
}
