// Package triggers implements the ingest trigger pipeline: SAX filters that
// sit between the parser and the storage builder and rewrite the event
// stream as a document is stored. Triggers are configured per collection and
// validated eagerly; a trigger that cannot be configured aborts the
// collection configuration.
package triggers
