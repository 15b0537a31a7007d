package sax

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Driver walks an encoding/xml token stream and fires handler events in
// document order. It is the parsing front end for the ingest path: triggers
// and the storage builder are ContentHandlers chained behind it.
type Driver struct {
	content ContentHandler
	lexical LexicalHandler
}

// NewDriver wires the driver to its downstream handlers. lexical may be nil,
// in which case comments are dropped.
func NewDriver(content ContentHandler, lexical LexicalHandler) *Driver {
	return &Driver{content: content, lexical: lexical}
}

// Parse reads one complete document from r and emits it as handler events.
func (d *Driver) Parse(r io.Reader) error {
	return d.ParseDecoder(xml.NewDecoder(r))
}

// ParseDecoder drives the handlers from an existing decoder. The decoder is
// consumed to EOF; the document events bracket the token stream.
func (d *Driver) ParseDecoder(dec *xml.Decoder) error {
	if err := d.content.StartDocument(); err != nil {
		return err
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading xml token: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			atts := make(AttributeList, 0, len(t.Attr))
			for _, a := range t.Attr {
				// xmlns declarations are namespace machinery, not
				// document content
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				atts = append(atts, Attribute{
					URI:       a.Name.Space,
					LocalName: a.Name.Local,
					QName:     a.Name.Local,
					Type:      "CDATA",
					Value:     a.Value,
				})
			}
			if err = d.content.StartElement(t.Name.Space, t.Name.Local, t.Name.Local, atts); err != nil {
				return err
			}
		case xml.EndElement:
			if err = d.content.EndElement(t.Name.Space, t.Name.Local, t.Name.Local); err != nil {
				return err
			}
		case xml.CharData:
			data := make([]byte, len(t))
			copy(data, t)
			if err = d.content.Characters(data); err != nil {
				return err
			}
		case xml.Comment:
			if d.lexical == nil {
				continue
			}
			data := make([]byte, len(t))
			copy(data, t)
			if err = d.lexical.Comment(data); err != nil {
				return err
			}
		case xml.ProcInst:
			// the xml declaration arrives as a processing instruction
			// but is not part of the document content
			if t.Target == "xml" {
				continue
			}
			if err = d.content.ProcessingInstruction(t.Target, string(t.Inst)); err != nil {
				return err
			}
		}
	}
	return d.content.EndDocument()
}
