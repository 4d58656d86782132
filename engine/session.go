package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/bpmnauthor/bpmn-author/engine/internal"
)

// LLMClient is the external collaborator the Editing Session depends on; it
// is deliberately the only dependency of EditSession, mirroring the
// teacher's pattern of injecting repository interfaces rather than reaching
// for a concrete database.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (Completion, error)
}

// StepRecord records one retry attempt of a session step, for rendering a
// "which phase failed and why" message per spec §7.
type StepRecord struct {
	Iteration int // 0 for the initial edit
	Attempt   int
	Error     string
}

// SessionResult is the outcome of a full editing session.
type SessionResult struct {
	Process    Process
	Stopped    bool // true if the session ended via a stop proposal
	Iterations int
	Steps      []StepRecord
}

// EditSession orchestrates one editing session against an injected
// LLMClient, per spec §4.8: an initial edit with retries, followed by an
// iterative phase bounded by Options.IterationLimit, each iteration with
// its own Options.RetryLimit retry budget.
type EditSession struct {
	llm     LLMClient
	options Options
}

// NewEditSession returns an EditSession using llm as its LLM collaborator.
func NewEditSession(llm LLMClient, options Options) *EditSession {
	return &EditSession{llm: llm, options: options}
}

// Run executes one full editing session starting from process, driven by
// changeRequest, per spec §4.8.
func (s *EditSession) Run(ctx context.Context, process Process, changeRequest string) (SessionResult, error) {
	result := SessionResult{Process: process}

	current, err := s.runInitialEdit(ctx, &result, process, changeRequest)
	if err != nil {
		return result, err
	}
	result.Process = current

	for iteration := 1; iteration <= s.options.IterationLimit; iteration++ {
		result.Iterations = iteration

		next, stopped, err := s.runIteration(ctx, &result, iteration, result.Process, changeRequest)
		if err != nil {
			return result, err
		}
		result.Process = next

		if stopped {
			result.Stopped = true
			return result, nil
		}
	}

	return result, Error{
		Type:   ErrorEditExhausted,
		Title:  "editing session exhausted",
		Detail: fmt.Sprintf("iteration limit of %d exceeded without a stop proposal", s.options.IterationLimit),
	}
}

func (s *EditSession) runInitialEdit(ctx context.Context, result *SessionResult, process Process, changeRequest string) (Process, error) {
	var priorError string

	for attempt := 1; attempt <= s.options.RetryLimit; attempt++ {
		prompt := Prompt{
			SystemInstructions: initialSystemInstructions,
			ProcessJSON:        process.String(),
			ChangeRequest:      changeRequest,
			Functions:          EditFunctionSchemas(),
			PriorError:         priorError,
		}

		completion, err := s.llm.Complete(ctx, prompt)
		if err != nil {
			priorError = err.Error()
			log.Printf("editing session: initial edit attempt %d/%d LLM call failed: %v", attempt, s.options.RetryLimit, priorError)
			result.Steps = append(result.Steps, StepRecord{Attempt: attempt, Error: priorError})
			continue
		}

		proposal, err := internal.ValidateProposal(completion.Proposal, true)
		if err != nil {
			priorError = err.Error()
			log.Printf("editing session: initial edit attempt %d/%d proposal invalid: %v", attempt, s.options.RetryLimit, priorError)
			result.Steps = append(result.Steps, StepRecord{Attempt: attempt, Error: priorError})
			continue
		}

		next, err := internal.Edit(process, proposal)
		if err != nil {
			priorError = err.Error()
			log.Printf("editing session: initial edit attempt %d/%d application failed: %v", attempt, s.options.RetryLimit, priorError)
			result.Steps = append(result.Steps, StepRecord{Attempt: attempt, Error: priorError})
			continue
		}

		return next, nil
	}

	return Process{}, Error{
		Type:   ErrorEditExhausted,
		Title:  "editing session exhausted",
		Detail: fmt.Sprintf("initial edit failed after %d attempts: %s", s.options.RetryLimit, priorError),
	}
}

func (s *EditSession) runIteration(ctx context.Context, result *SessionResult, iteration int, process Process, changeRequest string) (Process, bool, error) {
	var priorError string

	for attempt := 1; attempt <= s.options.RetryLimit; attempt++ {
		prompt := Prompt{
			SystemInstructions: iterationSystemInstructions,
			ProcessJSON:        process.String(),
			ChangeRequest:      changeRequest,
			Functions:          EditFunctionSchemas(),
			PriorError:         priorError,
		}

		completion, err := s.llm.Complete(ctx, prompt)
		if err != nil {
			priorError = err.Error()
			log.Printf("editing session: iteration %d attempt %d/%d LLM call failed: %v", iteration, attempt, s.options.RetryLimit, priorError)
			result.Steps = append(result.Steps, StepRecord{Iteration: iteration, Attempt: attempt, Error: priorError})
			continue
		}

		proposal, err := internal.ValidateProposal(completion.Proposal, false)
		if err != nil {
			priorError = err.Error()
			log.Printf("editing session: iteration %d attempt %d/%d proposal invalid: %v", iteration, attempt, s.options.RetryLimit, priorError)
			result.Steps = append(result.Steps, StepRecord{Iteration: iteration, Attempt: attempt, Error: priorError})
			continue
		}

		if proposal.Stop {
			return process, true, nil
		}

		next, err := internal.Edit(process, proposal)
		if err != nil {
			priorError = err.Error()
			log.Printf("editing session: iteration %d attempt %d/%d application failed: %v", iteration, attempt, s.options.RetryLimit, priorError)
			result.Steps = append(result.Steps, StepRecord{Iteration: iteration, Attempt: attempt, Error: priorError})
			continue
		}

		return next, false, nil
	}

	return Process{}, false, Error{
		Type:   ErrorEditExhausted,
		Title:  "editing session exhausted",
		Detail: fmt.Sprintf("iteration %d failed after %d attempts: %s", iteration, s.options.RetryLimit, priorError),
	}
}

const initialSystemInstructions = "Propose exactly one structural edit function call that satisfies the change request."

const iterationSystemInstructions = "Review the current process against the change request. Propose another structural edit function call, or call stop if the process already satisfies the request."

// EditFunctionSchemas returns the five edit-operation function schemas
// offered to the LLM collaborator on every prompt, per spec §6.4.
func EditFunctionSchemas() []FunctionSchema {
	return []FunctionSchema{
		{
			Name:        FunctionDeleteElement,
			Description: "Remove an element from the process by ID",
			Parameters: map[string]any{
				"type":     "object",
				"required": []string{"element_id"},
				"properties": map[string]any{
					"element_id": map[string]any{"type": "string"},
				},
			},
		},
		{
			Name:        FunctionRedirectBranch,
			Description: "Redirect a gateway branch's continuation to a different element",
			Parameters: map[string]any{
				"type":     "object",
				"required": []string{"branch_condition", "next_id"},
				"properties": map[string]any{
					"branch_condition": map[string]any{"type": "string"},
					"next_id":          map[string]any{"type": "string"},
				},
			},
		},
		{
			Name:        FunctionAddElement,
			Description: "Insert a new element before or after an existing element",
			Parameters: map[string]any{
				"type":     "object",
				"required": []string{"element"},
				"properties": map[string]any{
					"element":   map[string]any{"type": "object"},
					"before_id": map[string]any{"type": "string"},
					"after_id":  map[string]any{"type": "string"},
				},
			},
		},
		{
			Name:        FunctionMoveElement,
			Description: "Move an existing element to a new position",
			Parameters: map[string]any{
				"type":     "object",
				"required": []string{"element_id"},
				"properties": map[string]any{
					"element_id": map[string]any{"type": "string"},
					"before_id":  map[string]any{"type": "string"},
					"after_id":   map[string]any{"type": "string"},
				},
			},
		},
		{
			Name:        FunctionUpdateElement,
			Description: "Replace an existing non-gateway element in place",
			Parameters: map[string]any{
				"type":     "object",
				"required": []string{"new_element"},
				"properties": map[string]any{
					"new_element": map[string]any{"type": "object"},
				},
			},
		},
	}
}
