package store

import "errors"

var (
	ErrAddressUnknown      = errors.New("no record is stored at the requested address")
	ErrRecordTooLarge      = errors.New("the node record does not fit in a page")
	ErrDocumentUnknown     = errors.New("the document is not registered with this store")
	ErrIterationSeek       = errors.New("the requested start node is not in the document's record sequence")
	ErrMisplacedCharacters = errors.New("character data arrived outside the root element")
	ErrMultipleRoots       = errors.New("the document stream carried more than one root element")
	ErrNoRootElement       = errors.New("the document stream ended without a root element")
)
