package model

import (
	"fmt"
	"strings"
)

// ErrorType is the taxonomy of failures raised by the data model, the path
// utilities, the flattener, the XML codec and the editing engine. It is
// re-exported by the engine package as engine.ErrorType so callers never
// need to import model directly just to inspect an error.
type ErrorType int

const (
	ErrorSchema        ErrorType = iota + 1 // element missing/ill-typed field, unsupported type, duplicate ID, arity violation, empty label
	ErrorLookup                             // a referenced ID does not exist
	ErrorStructure                          // XML has no process element, the wrong number of start events, or an unjoined parallel gateway
	ErrorProposal                           // an edit-proposal JSON body has the wrong shape
	ErrorTransport                          // the LLM collaborator call failed or returned non-JSON
	ErrorEditExhausted                      // an editing session exceeded its retry or iteration budget
)

func (t ErrorType) String() string {
	switch t {
	case ErrorSchema:
		return "SCHEMA"
	case ErrorLookup:
		return "LOOKUP"
	case ErrorStructure:
		return "STRUCTURE"
	case ErrorProposal:
		return "PROPOSAL"
	case ErrorTransport:
		return "TRANSPORT"
	case ErrorEditExhausted:
		return "EDIT_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// Error is raised synchronously by every model, path, flatten, XML and edit
// operation. It never collects more than one violation at a time.
type Error struct {
	Type   ErrorType
	Title  string
	Detail string
	Causes []ErrorCause
}

func (e Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s: %s", e.Type, e.Title, e.Detail))
	for _, cause := range e.Causes {
		sb.WriteRune('\n')
		sb.WriteString(cause.String())
	}
	return sb.String()
}

// ErrorCause names one offending element or branch inside a multi-part
// failure, such as an edit-proposal body that is wrong in more than one way.
type ErrorCause struct {
	Pointer string // path-like pointer locating the offending element or branch
	Type    string // short type indicator, e.g. "duplicate_id"
	Detail  string
}

func (c ErrorCause) String() string {
	return fmt.Sprintf("%s: %s: %s", c.Type, c.Pointer, c.Detail)
}
