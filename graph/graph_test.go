package graph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/echograph3d/graph"
	"github.com/TFMV/echograph3d/models"
)

// recorder collects every batch delivered to a listener
type recorder struct {
	batches [][]models.Change
}

func (r *recorder) listen(changes []models.Change) error {
	r.batches = append(r.batches, changes)
	return nil
}

func describe(changes []models.Change) []string {
	var out []string
	for _, c := range changes {
		switch {
		case c.Node != nil:
			out = append(out, c.Type.String()+" node "+c.Node.ID)
		case c.Link != nil:
			out = append(out, c.Type.String()+" link "+c.Link.ID)
		}
	}
	return out
}

func TestAddNode(t *testing.T) {
	g := graph.New()
	rec := &recorder{}
	g.On(rec.listen)

	node, err := g.AddNode("a", 42)
	require.NoError(t, err)
	assert.Equal(t, "a", node.ID)
	assert.Equal(t, "a", node.Label)
	assert.Equal(t, 42, node.Data)
	assert.Equal(t, 1, g.NodeCount())

	got, ok := g.GetNode("a")
	require.True(t, ok)
	assert.Same(t, node, got)

	require.Len(t, rec.batches, 1)
	assert.Equal(t, []string{"add node a"}, describe(rec.batches[0]))
}

func TestAddNodeEmptyID(t *testing.T) {
	g := graph.New()
	_, err := g.AddNode("", nil)
	assert.ErrorIs(t, err, graph.ErrEmptyID)

	_, err = g.AddLink("a", "", nil)
	assert.ErrorIs(t, err, graph.ErrEmptyID)
	assert.Zero(t, g.NodeCount())
}

func TestAddExistingNode(t *testing.T) {
	g := graph.New()
	first, err := g.AddNode("a", "v1")
	require.NoError(t, err)

	rec := &recorder{}
	g.On(rec.listen)

	// nil data leaves the node untouched and silent
	again, err := g.AddNode("a", nil)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Empty(t, rec.batches)

	_, err = g.AddNode("a", "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", first.Data)
	require.Len(t, rec.batches, 1)
	assert.Equal(t, []string{"update node a"}, describe(rec.batches[0]))
}

func TestAddLinkCreatesEndpoints(t *testing.T) {
	g := graph.New()
	rec := &recorder{}
	g.On(rec.listen)

	link, err := g.AddLink("a", "b", nil, graph.WithLinkID("ab"), graph.WithWeight(3))
	require.NoError(t, err)
	assert.Equal(t, "ab", link.ID)
	assert.Equal(t, 3.0, link.Weight)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.LinkCount())

	require.Len(t, rec.batches, 1)
	assert.Equal(t, []string{"add node a", "add node b", "add link ab"}, describe(rec.batches[0]))
}

func TestAddLinkGeneratesIDs(t *testing.T) {
	g := graph.New()
	l1, err := g.AddLink("a", "b", nil)
	require.NoError(t, err)
	l2, err := g.AddLink("a", "b", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, l1.ID)
	assert.NotEqual(t, l1.ID, l2.ID)
	assert.Equal(t, 1.0, l1.Weight)
	assert.Len(t, g.FindLinks("a", "b"), 2)
	assert.Empty(t, g.FindLinks("b", "a"))
}

func TestAddLinkReplacesSameID(t *testing.T) {
	g := graph.New()
	_, err := g.AddLink("a", "b", nil, graph.WithLinkID("x"))
	require.NoError(t, err)

	rec := &recorder{}
	g.On(rec.listen)
	_, err = g.AddLink("b", "c", nil, graph.WithLinkID("x"))
	require.NoError(t, err)

	assert.Equal(t, 1, g.LinkCount())
	assert.Empty(t, g.LinksOf("a"))
	require.Len(t, rec.batches, 1)
	assert.Equal(t, []string{"add node c", "remove link x", "add link x"}, describe(rec.batches[0]))
}

func TestRemoveNodeRemovesLinksFirst(t *testing.T) {
	g := graph.New()
	_, err := g.AddLink("a", "b", nil, graph.WithLinkID("ab"))
	require.NoError(t, err)
	_, err = g.AddLink("c", "a", nil, graph.WithLinkID("ca"))
	require.NoError(t, err)

	rec := &recorder{}
	g.On(rec.listen)

	removed, err := g.RemoveNode("a")
	require.NoError(t, err)
	assert.True(t, removed)
	require.Len(t, rec.batches, 1)
	assert.Equal(t, []string{"remove link ab", "remove link ca", "remove node a"}, describe(rec.batches[0]))
	assert.Zero(t, g.LinkCount())
	assert.Empty(t, g.LinksOf("b"))

	removed, err = g.RemoveNode("a")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, rec.batches, 1, "missing nodes emit nothing")
}

func TestRemoveLink(t *testing.T) {
	g := graph.New()
	_, err := g.AddLink("a", "b", nil, graph.WithLinkID("ab"))
	require.NoError(t, err)

	removed, err := g.RemoveLink("ab")
	require.NoError(t, err)
	assert.True(t, removed)
	_, ok := g.GetLink("ab")
	assert.False(t, ok)
	assert.Equal(t, 2, g.NodeCount(), "endpoints stay")

	removed, err = g.RemoveLink("ab")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestBatching(t *testing.T) {
	g := graph.New()
	rec := &recorder{}
	g.On(rec.listen)

	g.BeginUpdate()
	g.BeginUpdate()
	_, err := g.AddNode("a", nil)
	require.NoError(t, err)
	_, err = g.AddNode("b", nil)
	require.NoError(t, err)
	require.NoError(t, g.EndUpdate())
	assert.Empty(t, rec.batches, "inner EndUpdate keeps buffering")
	require.NoError(t, g.EndUpdate())

	require.Len(t, rec.batches, 1)
	assert.Equal(t, []string{"add node a", "add node b"}, describe(rec.batches[0]))

	assert.ErrorIs(t, g.EndUpdate(), graph.ErrUpdateNotStarted)
}

func TestUnsubscribe(t *testing.T) {
	g := graph.New()
	rec := &recorder{}
	unsubscribe := g.On(rec.listen)

	_, err := g.AddNode("a", nil)
	require.NoError(t, err)
	unsubscribe()
	unsubscribe()
	_, err = g.AddNode("b", nil)
	require.NoError(t, err)

	assert.Len(t, rec.batches, 1)
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	g := graph.New()
	second := &recorder{}
	var unsubscribeSecond func()
	g.On(func([]models.Change) error {
		unsubscribeSecond()
		return nil
	})
	unsubscribeSecond = g.On(second.listen)

	_, err := g.AddNode("a", nil)
	require.NoError(t, err)
	assert.Empty(t, second.batches)
}

func TestListenerErrorsAreJoined(t *testing.T) {
	g := graph.New()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	g.On(func([]models.Change) error { return errA })
	g.On(func([]models.Change) error { return errB })

	node, err := g.AddNode("a", nil)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	require.NotNil(t, node, "the mutation itself succeeds")
	assert.Equal(t, 1, g.NodeCount())
}

func TestListenerMayQueryGraph(t *testing.T) {
	g := graph.New()
	var seen int
	g.On(func([]models.Change) error {
		seen = g.NodeCount()
		return nil
	})
	_, err := g.AddLink("a", "b", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}

func TestClear(t *testing.T) {
	g := graph.New()
	_, err := g.AddLink("a", "b", nil, graph.WithLinkID("ab"))
	require.NoError(t, err)

	rec := &recorder{}
	g.On(rec.listen)
	require.NoError(t, g.Clear())

	assert.Zero(t, g.NodeCount())
	assert.Zero(t, g.LinkCount())
	require.Len(t, rec.batches, 1)
	assert.Equal(t, []string{"remove link ab", "remove node a", "remove node b"}, describe(rec.batches[0]))
}

func TestForEachOrderAndStop(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"c", "a", "b"} {
		_, err := g.AddNode(id, nil)
		require.NoError(t, err)
	}

	var ids []string
	g.ForEachNode(func(n *models.Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	ids = ids[:0]
	g.ForEachNode(func(n *models.Node) bool {
		ids = append(ids, n.ID)
		return n.ID != "a"
	})
	assert.Equal(t, []string{"c", "a"}, ids)
}

func TestNeighbors(t *testing.T) {
	g := graph.New()
	_, err := g.AddLink("a", "b", nil)
	require.NoError(t, err)
	_, err = g.AddLink("c", "a", nil)
	require.NoError(t, err)
	_, err = g.AddLink("a", "b", nil)
	require.NoError(t, err)
	_, err = g.AddLink("a", "a", nil)
	require.NoError(t, err)

	neighbors, err := g.Neighbors("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, neighbors)

	_, err = g.Neighbors("zzz")
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestFilterNodes(t *testing.T) {
	g := graph.New()
	for i, id := range []string{"a", "b", "c", "d"} {
		_, err := g.AddNode(id, i)
		require.NoError(t, err)
	}

	even := g.FilterNodes(func(n *models.Node) bool { return n.Data.(int)%2 == 0 })
	require.Len(t, even, 2)
	assert.Equal(t, "a", even[0].ID)
	assert.Equal(t, "c", even[1].ID)
}
