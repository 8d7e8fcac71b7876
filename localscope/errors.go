package localscope

import "fmt"

// MalformedQueryError is returned when a match's capture names don't
// conform to the scope/definition/reference classification protocol —
// a match mixing categories, carrying more than one capture of the same
// category, or setting a "scope" property to an unrecognized value
// (spec.md §4.1, §7). It is fatal for the document being indexed.
type MalformedQueryError struct {
	PatternIndex uint
	Reason       string
}

func (e *MalformedQueryError) Error() string {
	return fmt.Sprintf("malformed query at pattern %d: %s", e.PatternIndex, e.Reason)
}

// InvalidSourceError is returned when a captured node's byte range does
// not decode as valid UTF-8 (spec.md §4.1, §7). It is fatal for the
// document being indexed.
type InvalidSourceError struct {
	Range ByteRange
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid source: byte range %s is not valid UTF-8", e.Range)
}

// InvariantViolationError signals an internal contradiction that should be
// unreachable given a well-formed match stream (spec.md §7) — for example,
// a match whose capture set classifies to none of scope, definition, or
// reference.
type InvariantViolationError struct {
	PatternIndex uint
	Reason       string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation at pattern %d: %s", e.PatternIndex, e.Reason)
}
