package parse

import "errors"

// Sentinel errors for document-level failures. Row-level problems are never
// errors: malformed rows are dropped and counted on the result.
var (
	// ErrEmptyDocument means extraction produced zero lines; there is
	// nothing to parse and the document is a terminal failure.
	ErrEmptyDocument = errors.New("empty document: no text lines extracted")
)
