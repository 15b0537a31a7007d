package dom_test

import (
	"strings"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeldb/go-xmlstore/dom"
	"github.com/keeldb/go-xmlstore/gid"
	"github.com/keeldb/go-xmlstore/sax"
	"github.com/keeldb/go-xmlstore/store"
)

// storedDocument ingests a small library document and returns it for
// navigation tests.
//
//	library
//	├── shelf label="sf"
//	│   ├── book ── "Dune"
//	│   └── book ── "Solaris"
//	└── shelf label="poetry"
//	    └── book ── "Ariel"
func storedDocument(t *testing.T) *dom.Document {
	t.Helper()
	const text = `<library><shelf label="sf"><book>Dune</book><book>Solaris</book></shelf><shelf label="poetry"><book>Ariel</book></shelf></library>`

	log := logger.Sugar.WithServiceName("domtest")
	s := store.NewMemStore(log)
	b := store.NewDocumentBuilder(log, s, uuid.New(), "/db/library")
	require.NoError(t, sax.NewDriver(b, b).Parse(strings.NewReader(text)))
	return b.Document()
}

func TestDocumentNavigation(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	doc := storedDocument(t)

	root, err := doc.Root()
	require.NoError(t, err)
	assert.Equal(t, "library", root.LocalName())

	parent, err := root.ParentNode()
	require.NoError(t, err)
	assert.Nil(t, parent)

	sf, err := root.FirstChild()
	require.NoError(t, err)
	poetry, err := sf.NextSibling()
	require.NoError(t, err)
	assert.Equal(t, "shelf", poetry.LocalName())

	end, err := poetry.NextSibling()
	require.NoError(t, err)
	assert.Nil(t, end)

	back, err := poetry.PreviousSibling()
	require.NoError(t, err)
	assert.True(t, dom.SameNode(sf, back))

	up, err := poetry.ParentNode()
	require.NoError(t, err)
	assert.True(t, dom.SameNode(root, up))

	dune, err := sf.FirstChild()
	require.NoError(t, err)
	solaris, err := sf.LastChild()
	require.NoError(t, err)
	assert.False(t, dom.SameNode(dune, solaris))
	duneText, err := dune.FirstChild()
	require.NoError(t, err)
	assert.Equal(t, "Dune", duneText.NodeValue())
	solarisText, err := solaris.FirstChild()
	require.NoError(t, err)
	assert.Equal(t, "Solaris", solarisText.NodeValue())
}

func TestDocumentPaths(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	doc := storedDocument(t)

	root, err := doc.Root()
	require.NoError(t, err)
	path, err := root.Path()
	require.NoError(t, err)
	assert.Equal(t, "/library", path)

	shelf, err := root.FirstChild()
	require.NoError(t, err)
	book, err := shelf.FirstChild()
	require.NoError(t, err)
	path, err = book.Path()
	require.NoError(t, err)
	assert.Equal(t, "/library/shelf/book", path)

	// text and attribute nodes report the path of their element
	text, err := book.FirstChild()
	require.NoError(t, err)
	path, err = text.Path()
	require.NoError(t, err)
	assert.Equal(t, "/library/shelf/book", path)

	label, err := shelf.(*dom.Element).AttributeByName("", "label")
	require.NoError(t, err)
	require.NotNil(t, label)
	path, err = label.Path()
	require.NoError(t, err)
	assert.Equal(t, "/library/shelf", path)
}

func TestAttributePathThreeLevelsDeep(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	const text = `<root><child><grandchild id="g1"/></child></root>`

	log := logger.Sugar.WithServiceName("domtest")
	s := store.NewMemStore(log)
	b := store.NewDocumentBuilder(log, s, uuid.New(), "/db/paths")
	require.NoError(t, sax.NewDriver(b, b).Parse(strings.NewReader(text)))
	doc := b.Document()

	root, err := doc.Root()
	require.NoError(t, err)
	child, err := root.FirstChild()
	require.NoError(t, err)
	grandchild, err := child.FirstChild()
	require.NoError(t, err)

	id, err := grandchild.(*dom.Element).AttributeByName("", "id")
	require.NoError(t, err)
	require.NotNil(t, id)
	path, err := id.Path()
	require.NoError(t, err)
	assert.Equal(t, "/root/child/grandchild", path)
}

func TestLastNodeOf(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	doc := storedDocument(t)

	root, err := doc.Root()
	require.NoError(t, err)
	last, err := doc.LastNodeOf(root)
	require.NoError(t, err)
	// the rightmost deepest descendant is the text of the last book
	assert.Equal(t, dom.TextNode, last.NodeType())
	assert.Equal(t, "Ariel", last.NodeValue())

	shelf, err := root.FirstChild()
	require.NoError(t, err)
	last, err = doc.LastNodeOf(shelf)
	require.NoError(t, err)
	assert.Equal(t, "Solaris", last.NodeValue())

	// a leaf is its own last node
	text, err := doc.LastNodeOf(last)
	require.NoError(t, err)
	assert.True(t, dom.SameNode(last, text))
}

type scriptedIterator struct {
	nodes []dom.Node
}

func (it *scriptedIterator) Next() (dom.Node, bool) {
	if len(it.nodes) == 0 {
		return nil, false
	}
	n := it.nodes[0]
	it.nodes = it.nodes[1:]
	return n, true
}

func (it *scriptedIterator) SeekGID(id uint64) bool { return false }

func TestGetLastNodeTruncatedSubtree(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	grid, err := gid.NewGrid([]uint64{1, 4})
	require.NoError(t, err)
	log := logger.Sugar.WithServiceName("domtest")
	doc := dom.NewDocument(log, nil, uuid.New(), "", grid)

	parent := dom.NewElement(dom.NewQName("", "parent", ""))
	parent.SetOwnerDocument(doc)
	parent.SetGID(gid.Root)
	parent.SetChildCount(2)

	only := dom.NewText([]byte("lonely"))
	only.SetOwnerDocument(doc)

	_, err = dom.GetLastNode(&scriptedIterator{nodes: []dom.Node{only}}, parent)
	assert.ErrorIs(t, err, dom.ErrTruncatedSubtree)
}

func TestStoredNodesRefuseMutation(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	doc := storedDocument(t)
	root, err := doc.Root()
	require.NoError(t, err)

	m, ok := root.(dom.Mutator)
	require.True(t, ok)
	assert.ErrorIs(t, m.AppendChild(dom.NewText([]byte("x"))), dom.ErrNotSupported)
	assert.ErrorIs(t, m.RemoveChild(nil), dom.ErrNotSupported)
	assert.ErrorIs(t, m.InsertBefore(nil, nil), dom.ErrNotSupported)
	assert.ErrorIs(t, m.ReplaceChild(nil, nil), dom.ErrNotSupported)
	assert.ErrorIs(t, m.UpdateChild(nil, nil), dom.ErrNotSupported)
}

func TestNodePoolRecycles(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	pool := dom.NewNodePool()

	text := pool.Get(dom.TextNode)
	require.NotNil(t, text)
	text.SetGID(9)

	pool.Put(text)
	again := pool.Get(dom.TextNode)
	// the pooled record comes back cleared
	assert.Equal(t, gid.None, again.GID())
	assert.Equal(t, dom.NoAddress, again.InternalAddress())
	assert.Equal(t, dom.TextNode, again.NodeType())

	// distinct types are shelved separately
	elem := pool.Get(dom.ElementNode)
	assert.Equal(t, dom.ElementNode, elem.NodeType())
}

func TestDocumentToSAXRoundTrip(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	doc := storedDocument(t)
	root, err := doc.Root()
	require.NoError(t, err)

	var out strings.Builder
	w := sax.NewWriter(&out)
	require.NoError(t, root.ToSAX(w, w, true, nil))
	assert.Equal(t,
		`<library><shelf label="sf"><book>Dune</book><book>Solaris</book></shelf><shelf label="poetry"><book>Ariel</book></shelf></library>`,
		out.String())
}

func TestGetNodeUnknownGID(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	doc := storedDocument(t)
	_, err := doc.GetNode(9999)
	assert.ErrorIs(t, err, dom.ErrNoSuchNode)
}
