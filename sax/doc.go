// Package sax defines the event contracts between the XML parsing front end
// and the storage ingest path. The interfaces mirror the classic SAX split
// between content events and lexical events, rendered as plain Go methods
// with explicit error returns so that a downstream consumer can abort the
// stream.
//
// Driver adapts an encoding/xml Decoder to the handler contracts; everything
// downstream of it (trigger filters, the storage builder, serializers) only
// ever sees handler callbacks.
package sax
