package dom

import "hash/fnv"

// QName is an immutable (namespace uri, local name, prefix) triple. It is a
// plain comparable value; share and copy it freely. Equality and hashing
// ignore the prefix, which is presentation only.
type QName struct {
	namespaceURI string
	localName    string
	prefix       string
}

// TextQName and CommentQName stand in for the node kinds that carry no XML
// name of their own.
var (
	TextQName    = QName{localName: "#text"}
	CommentQName = QName{localName: "#comment"}
)

func NewQName(namespaceURI, localName, prefix string) QName {
	return QName{namespaceURI: namespaceURI, localName: localName, prefix: prefix}
}

func (q QName) NamespaceURI() string { return q.namespaceURI }

func (q QName) LocalName() string { return q.localName }

func (q QName) Prefix() string { return q.prefix }

// WithPrefix returns a copy of the name carrying the given prefix. The
// receiver is unchanged; callers replace their whole QName value.
func (q QName) WithPrefix(prefix string) QName {
	q.prefix = prefix
	return q
}

// Equal reports whether two names address the same (uri, local) pair. The
// prefix is deliberately excluded.
func (q QName) Equal(other QName) bool {
	return q.namespaceURI == other.namespaceURI && q.localName == other.localName
}

// Hash combines the namespace uri and local name. Names that are Equal hash
// identically regardless of prefix.
func (q QName) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(q.namespaceURI))
	h.Write([]byte{0})
	h.Write([]byte(q.localName))
	return h.Sum64()
}

func (q QName) String() string {
	if q.prefix == "" {
		return q.localName
	}
	return q.prefix + ":" + q.localName
}
