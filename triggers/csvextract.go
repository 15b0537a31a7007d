package triggers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/keeldb/go-xmlstore/sax"
)

// CSVExtractingTrigger splits separated character data into child elements
// while a document is being stored. Each configured path names an element
// whose text is a separator-joined list; on the element's end event the text
// is replaced by one new child element per configured (index, name) pair
// whose index falls inside the split; pairs past its end emit nothing.
//
// An element that opens inside a capture zone aborts the capture, so running
// the trigger over an already extracted document changes nothing.
type CSVExtractingTrigger struct {
	FilteringTrigger

	log       logger.Logger
	separator *regexp.Regexp

	// extractions is keyed by the /-joined local name path of the
	// configured xpath.
	extractions map[string]*extraction

	currentPath nodePath
	capture     bool
	charBuf     []byte
}

var _ Trigger = (*CSVExtractingTrigger)(nil)
var _ sax.ContentHandler = (*CSVExtractingTrigger)(nil)
var _ sax.LexicalHandler = (*CSVExtractingTrigger)(nil)

type extraction struct {
	matchAttrName  string
	matchAttrValue string
	entries        []ExtractParam
}

func (e *extraction) mustMatchAttribute() bool {
	return e.matchAttrName != "" && e.matchAttrValue != ""
}

func (e *extraction) matchesAttribute(name, value string) bool {
	if !e.mustMatchAttribute() {
		return true
	}
	return e.matchAttrName == name && e.matchAttrValue == value
}

// Configure validates the parameter block: exactly one separator string and
// any number of path parameters. Extraction entries are sorted by index here
// so the emission order is fixed before the first document arrives.
func (t *CSVExtractingTrigger) Configure(log logger.Logger, collection string, parameters Parameters) error {
	t.log = log
	t.extractions = make(map[string]*extraction)

	separators := parameters["separator"]
	if len(separators) != 1 {
		return fmt.Errorf("collection %s: a single separator parameter is required: %w",
			collection, ErrInvalidTriggerConfig)
	}
	separator, ok := separators[0].(string)
	if !ok || separator == "" {
		return fmt.Errorf("collection %s: the separator must be a non-empty string: %w",
			collection, ErrInvalidTriggerConfig)
	}
	t.separator = regexp.MustCompile(regexp.QuoteMeta(separator))

	for _, raw := range parameters["path"] {
		path, ok := raw.(PathParam)
		if !ok {
			return fmt.Errorf("collection %s: path parameter is a %T: %w",
				collection, raw, ErrInvalidTriggerConfig)
		}
		pathExpr, ex, err := parseXPath(path.XPath)
		if err != nil {
			return fmt.Errorf("collection %s: %w", collection, err)
		}
		for _, entry := range path.Extracts {
			if entry.Index < 0 || entry.ElementName == "" {
				return fmt.Errorf("collection %s: extract (%d, %q): %w",
					collection, entry.Index, entry.ElementName, ErrInvalidTriggerConfig)
			}
			ex.entries = append(ex.entries, entry)
		}
		sort.SliceStable(ex.entries, func(i, j int) bool {
			return ex.entries[i].Index < ex.entries[j].Index
		})
		t.extractions[pathExpr] = ex
	}
	return nil
}

// parseXPath splits the configured expression into the local name path and
// the optional [@name eq "value"] attribute predicate. Only that predicate
// form is supported.
func parseXPath(xpath string) (string, *extraction, error) {
	ex := &extraction{}
	open := strings.IndexByte(xpath, '[')
	if open < 0 {
		return xpath, ex, nil
	}

	pathExpr := xpath[:open]
	end := strings.IndexByte(xpath, ']')
	if end < open || !strings.HasPrefix(xpath[open:], "[@") {
		return "", nil, fmt.Errorf("xpath %q: unsupported predicate: %w", xpath, ErrInvalidTriggerConfig)
	}
	predicate := xpath[open+2 : end]
	name, value, found := strings.Cut(predicate, " eq ")
	if !found {
		return "", nil, fmt.Errorf("xpath %q: unsupported predicate: %w", xpath, ErrInvalidTriggerConfig)
	}
	ex.matchAttrName = strings.TrimSpace(name)
	ex.matchAttrValue = strings.TrimSpace(strings.ReplaceAll(value, "\"", ""))
	if ex.matchAttrName == "" || ex.matchAttrValue == "" {
		return "", nil, fmt.Errorf("xpath %q: unsupported predicate: %w", xpath, ErrInvalidTriggerConfig)
	}
	return pathExpr, ex, nil
}

func (t *CSVExtractingTrigger) Prepare(event Event, documentPath string) error { return nil }

func (t *CSVExtractingTrigger) Finish(event Event, documentPath string) {}

func (t *CSVExtractingTrigger) StartDocument() error {
	t.currentPath = t.currentPath[:0]
	t.capture = false
	t.charBuf = t.charBuf[:0]
	return t.FilteringTrigger.StartDocument()
}

func (t *CSVExtractingTrigger) StartElement(uri, localName, qname string, atts sax.Attributes) error {
	// an element opening inside a capture zone aborts the capture; this
	// also skips values that were already extracted by an earlier store
	if t.capture {
		t.capture = false
		t.charBuf = t.charBuf[:0]
	}

	if err := t.FilteringTrigger.StartElement(uri, localName, qname, atts); err != nil {
		return err
	}
	t.currentPath.add(uri, localName)

	ex, ok := t.extractions[t.currentPath.toLocalPath()]
	if !ok {
		return nil
	}
	if !ex.mustMatchAttribute() {
		t.capture = true
		return nil
	}
	for i := 0; i < atts.Length(); i++ {
		if ex.matchesAttribute(atts.LocalName(i), atts.Value(i)) {
			t.capture = true
			break
		}
	}
	return nil
}

func (t *CSVExtractingTrigger) Characters(data []byte) error {
	if t.capture {
		t.charBuf = append(t.charBuf, data...)
		return nil
	}
	return t.FilteringTrigger.Characters(data)
}

func (t *CSVExtractingTrigger) EndElement(uri, localName, qname string) error {
	if t.capture {
		if err := t.extractValues(); err != nil {
			return err
		}
		t.capture = false
		t.charBuf = t.charBuf[:0]
	}

	if err := t.FilteringTrigger.EndElement(uri, localName, qname); err != nil {
		return err
	}
	t.currentPath.removeLast()
	return nil
}

// extractValues splits the captured text and emits one child element per
// configured entry, in index order. Entries whose index lies past the end of
// the split are skipped.
func (t *CSVExtractingTrigger) extractValues() error {
	values := t.separator.Split(string(t.charBuf), -1)

	ex := t.extractions[t.currentPath.toLocalPath()]
	for _, entry := range ex.entries {
		if entry.Index >= len(values) {
			continue
		}
		name := entry.ElementName
		if err := t.FilteringTrigger.StartElement("", name, name, sax.EmptyAttributes); err != nil {
			return err
		}
		if err := t.FilteringTrigger.Characters([]byte(values[entry.Index])); err != nil {
			return err
		}
		if err := t.FilteringTrigger.EndElement("", name, name); err != nil {
			return err
		}
	}
	return nil
}

// nodePath tracks the element stack of the event stream. Matching is by
// local name only; the namespace is kept for a future qname path syntax.
type nodePath []pathSegment

type pathSegment struct {
	uri       string
	localName string
}

func (p *nodePath) add(uri, localName string) {
	*p = append(*p, pathSegment{uri: uri, localName: localName})
}

func (p *nodePath) removeLast() {
	*p = (*p)[:len(*p)-1]
}

func (p nodePath) toLocalPath() string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(seg.localName)
	}
	return b.String()
}
