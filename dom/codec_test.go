package dom_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeldb/go-xmlstore/dom"
)

// codecDocument provides a document whose symbol table backs name
// resolution; the broker is never touched by the codec.
func codecDocument(t *testing.T) *dom.Document {
	t.Helper()
	log := logger.Sugar.WithServiceName("codec")
	return dom.NewDocument(log, nil, uuid.New(), "", nil)
}

func TestTextRecordBytes(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	// one signature byte, a 1-byte length, then the payload
	data, err := dom.NewText([]byte("hello")).Serialize()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x30, 0x05, 'h', 'e', 'l', 'l', 'o'}, data)
}

func TestTextRecordWideLength(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	payload := bytes.Repeat([]byte{'x'}, 300)
	data, err := dom.NewText(payload).Serialize()
	require.NoError(t, err)
	// 300 does not fit a 1-byte length, so the width class steps up
	assert.Equal(t, byte(0x31), data[0])
	assert.Equal(t, []byte{0x01, 0x2c}, data[1:3])

	n, err := dom.Deserialize(data, 0, len(data), nil)
	require.NoError(t, err)
	assert.Equal(t, string(payload), n.NodeValue())
}

func TestTextRecordPayloads(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	type args struct {
		payload string
	}
	tests := []struct {
		name string
		args args
	}{
		{name: "empty", args: args{payload: ""}},
		{name: "multibyte runes", args: args{payload: "prix: 5,99 €"}},
		{name: "astral plane", args: args{payload: "\U0001F600\U0001F680"}},
		{name: "mixed widths past one byte", args: args{payload: strings.Repeat("é", 200)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := dom.NewText([]byte(tt.args.payload)).Serialize()
			require.NoError(t, err)

			n, err := dom.Deserialize(data, 0, len(data), nil)
			require.NoError(t, err)
			assert.Equal(t, dom.TextNode, n.NodeType())
			assert.Equal(t, tt.args.payload, n.NodeValue())
		})
	}
}

func TestElementRecordBytes(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	doc := codecDocument(t)
	e := dom.NewElement(dom.NewQName("urn:books", "book", ""))
	e.SetOwnerDocument(doc)
	e.SetAttributeCount(2)
	e.SetChildCount(5)

	data, err := e.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x11,                   // element, has attributes
		0x00, 0x00, 0x00, 0x00, // first interned name
		0x02,                   // attribute count
		0x00, 0x00, 0x00, 0x05, // child count
		0x00, // flags
	}, data)

	n, err := dom.Deserialize(data, 0, len(data), doc)
	require.NoError(t, err)
	decoded, ok := n.(*dom.Element)
	require.True(t, ok)
	assert.Equal(t, "book", decoded.LocalName())
	assert.Equal(t, "urn:books", decoded.NamespaceURI())
	assert.Equal(t, uint8(2), decoded.AttributeCount())
	assert.Equal(t, uint32(5), decoded.ChildCount())
}

func TestAttrRecordRoundTrip(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	doc := codecDocument(t)
	a := dom.NewAttr(dom.NewQName("", "id", ""), "b1", dom.AttrID)
	a.SetOwnerDocument(doc)

	data, err := a.Serialize()
	require.NoError(t, err)

	n, err := dom.Deserialize(data, 0, len(data), doc)
	require.NoError(t, err)
	decoded, ok := n.(*dom.Attr)
	require.True(t, ok)
	assert.Equal(t, "id", decoded.LocalName())
	assert.Equal(t, "b1", decoded.Value())
	assert.Equal(t, dom.AttrID, decoded.AttrType())
}

func TestProcessingInstructionRoundTrip(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	data, err := dom.NewProcessingInstruction("app", "mode=fast").Serialize()
	require.NoError(t, err)

	n, err := dom.Deserialize(data, 0, len(data), nil)
	require.NoError(t, err)
	decoded, ok := n.(*dom.ProcessingInstruction)
	require.True(t, ok)
	assert.Equal(t, "app", decoded.Target())
	assert.Equal(t, "mode=fast", decoded.Data())
}

func TestCommentRoundTrip(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	data, err := dom.NewComment([]byte(" note ")).Serialize()
	require.NoError(t, err)

	n, err := dom.Deserialize(data, 0, len(data), nil)
	require.NoError(t, err)
	assert.Equal(t, dom.CommentNode, n.NodeType())
	assert.Equal(t, " note ", n.NodeValue())
}

func TestDeserializeRejectsBadRecords(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	type args struct {
		data   []byte
		start  int
		length int
	}
	tests := []struct {
		name    string
		args    args
		wantErr error
	}{
		{
			name:    "empty span",
			args:    args{data: nil, start: 0, length: 0},
			wantErr: dom.ErrTruncatedRecord,
		},
		{
			name:    "span past end",
			args:    args{data: []byte{0x30, 0x01}, start: 0, length: 5},
			wantErr: dom.ErrTruncatedRecord,
		},
		{
			name:    "unknown signature",
			args:    args{data: []byte{0xf0, 0x00}, start: 0, length: 2},
			wantErr: dom.ErrCorruptNodeRecord,
		},
		{
			name:    "text payload shorter than its length",
			args:    args{data: []byte{0x30, 0x05, 'h'}, start: 0, length: 3},
			wantErr: dom.ErrTruncatedRecord,
		},
		{
			name:    "element payload too short",
			args:    args{data: []byte{0x10, 0x00, 0x00}, start: 0, length: 3},
			wantErr: dom.ErrTruncatedRecord,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dom.Deserialize(tt.args.data, tt.args.start, tt.args.length, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSerializeDoesNotEncodeIdentity(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	a := dom.NewText([]byte("same"))
	b := dom.NewText([]byte("same"))
	b.SetGID(42)
	b.SetInternalAddress(7)

	dataA, err := a.Serialize()
	require.NoError(t, err)
	dataB, err := b.Serialize()
	require.NoError(t, err)
	assert.Equal(t, dataA, dataB)
}

func TestSerializeElementWithoutDocumentFails(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()

	e := dom.NewElement(dom.NewQName("", "orphan", ""))
	_, err := e.Serialize()
	assert.ErrorIs(t, err, dom.ErrUnresolvedName)
}
