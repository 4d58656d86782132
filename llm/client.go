// Package llm is the one component allowed to perform network I/O on
// behalf of the engine: an LLMClient implementation driving an
// OpenAI-compatible chat completions endpoint, injected into the editing
// session as an external collaborator per spec §4.8/§4.9.
package llm

import (
	"github.com/bpmnauthor/bpmn-author/engine"
)

// FunctionSchema, Prompt and Completion are re-exported from engine so this
// package's openaiClient satisfies engine.LLMClient without a local,
// structurally-distinct copy of the same shapes.
type (
	FunctionSchema = engine.FunctionSchema
	Prompt         = engine.Prompt
	Completion     = engine.Completion
)

// LLMClient is the sole boundary the Editing Session depends on; it is
// implemented by openaiClient in this package for production use, and can
// be faked or mocked in tests without any network access.
type LLMClient = engine.LLMClient

// EditFunctionSchemas returns the five edit-operation function schemas
// offered to the LLM on every prompt; it is a thin re-export of the
// canonical list the editing session itself sends.
func EditFunctionSchemas() []FunctionSchema {
	return engine.EditFunctionSchemas()
}
