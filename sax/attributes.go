package sax

// Attribute is one entry of an AttributeList.
type Attribute struct {
	URI       string
	LocalName string
	QName     string
	Type      string
	Value     string
}

// AttributeList is the plain slice implementation of Attributes used by the
// driver and by filters that synthesize elements.
type AttributeList []Attribute

// EmptyAttributes is handed to StartElement when an element has no
// attributes, or when a filter emits a synthesized element.
var EmptyAttributes = AttributeList(nil)

func (a AttributeList) Length() int { return len(a) }

func (a AttributeList) URI(index int) string { return a[index].URI }

func (a AttributeList) LocalName(index int) string { return a[index].LocalName }

func (a AttributeList) QName(index int) string { return a[index].QName }

func (a AttributeList) Type(index int) string {
	if a[index].Type == "" {
		return "CDATA"
	}
	return a[index].Type
}

func (a AttributeList) Value(index int) string { return a[index].Value }

func (a AttributeList) ValueByName(uri, localName string) (string, bool) {
	for _, attr := range a {
		if attr.URI == uri && attr.LocalName == localName {
			return attr.Value, true
		}
	}
	return "", false
}
