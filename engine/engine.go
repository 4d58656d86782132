// Package engine assembles the BPMN process authoring kernel: the
// hierarchical/flat/XML conversions, the five structural edit operations
// and the LLM-driven editing session, behind one Engine interface.
//
// The engine itself is pure and synchronous - every method below runs to
// completion without yielding. Only EditSession (session.go) suspends,
// and only at its LLMClient.Complete calls.
package engine

import (
	"fmt"
	"strings"

	"github.com/bpmnauthor/bpmn-author/model"
)

// Re-exported so callers never need to import model directly.
type (
	Error           = model.Error
	ErrorType       = model.ErrorType
	ErrorCause      = model.ErrorCause
	Process         = model.Process
	Element         = model.Element
	ElementType     = model.ElementType
	ExclusiveBranch = model.ExclusiveBranch
	ParallelBranch  = model.ParallelBranch
	FlatProcess     = model.FlatProcess
	FlatElement     = model.FlatElement
	SequenceFlow    = model.SequenceFlow
	Prompt          = model.Prompt
	Completion      = model.Completion
	FunctionSchema  = model.FunctionSchema
)

const (
	ErrorSchema        = model.ErrorSchema
	ErrorLookup        = model.ErrorLookup
	ErrorStructure     = model.ErrorStructure
	ErrorProposal      = model.ErrorProposal
	ErrorTransport     = model.ErrorTransport
	ErrorEditExhausted = model.ErrorEditExhausted
)

const (
	Task             = model.Task
	UserTask         = model.UserTask
	ServiceTask      = model.ServiceTask
	StartEvent       = model.StartEvent
	EndEvent         = model.EndEvent
	ExclusiveGateway = model.ExclusiveGateway
	ParallelGateway  = model.ParallelGateway
)

// Options are tunables shared across the engine's components, following the
// teacher's Options{...}.Validate() pattern.
type Options struct {
	// ProcessId is the BPMN process ID the XML Emitter assigns.
	ProcessId string
	// RetryLimit is the number of attempts (the first try included) allowed
	// per editing session step, before the step fails.
	RetryLimit int
	// IterationLimit is the number of iterative steps an editing session
	// may take after its initial edit before it must stop.
	IterationLimit int
}

// NewOptions returns the default Options.
func NewOptions() Options {
	return Options{
		ProcessId:      "Process_1",
		RetryLimit:     4,
		IterationLimit: 15,
	}
}

func (o Options) Validate() error {
	if strings.TrimSpace(o.ProcessId) == "" {
		return fmt.Errorf("process ID must not be empty or blank")
	}
	if o.RetryLimit < 1 {
		return fmt.Errorf("retry limit must be greater than or equal to 1")
	}
	if o.IterationLimit < 1 {
		return fmt.Errorf("iteration limit must be greater than or equal to 1")
	}
	return nil
}

// An Engine converts between the hierarchical and flat/XML representations
// of a BPMN process and applies structured edits to the hierarchical form.
//
// All methods are pure: none of them mutate their Process argument, and
// none of them perform I/O.
type Engine interface {
	// Validate checks a hierarchical process against the schema invariants
	// of spec §3.3.
	Validate(Process) error

	// Flatten converts a hierarchical process into its flat representation.
	Flatten(Process) (FlatProcess, error)

	// Emit serialises a flat process as BPMN 2.0 XML.
	Emit(FlatProcess) (string, error)

	// Parse decodes a BPMN 2.0 XML document into its flat representation.
	Parse(bpmnXml string) (FlatProcess, error)

	// Unflatten reconstructs a hierarchical process from its flat
	// representation by tracing reconvergence (spec §4.5, §4.5.1).
	Unflatten(FlatProcess) (Process, error)

	// Edit applies one structural edit operation to a hierarchical process
	// and returns a new process; the input is left untouched.
	Edit(Process, EditProposal) (Process, error)

	// ValidateProposal schema-checks a raw proposal's "arguments" bag against
	// its named function and narrows it into a typed EditProposal. isFirst
	// marks the first proposal of an editing session, where a stop proposal
	// is rejected.
	ValidateProposal(raw RawProposal, isFirst bool) (EditProposal, error)
}

// New returns the default Engine implementation.
func New(options Options) (Engine, error) {
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %v", err)
	}
	return &engine{options: options}, nil
}
