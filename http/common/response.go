package common

import "github.com/bpmnauthor/bpmn-author/engine"

// EditReq is the request body of the edit-process endpoint: the process to
// edit and the raw, not-yet-validated proposal to apply to it.
type EditReq struct {
	Process  engine.Process     `json:"process" validate:"required"`
	Proposal engine.RawProposal `json:"proposal" validate:"required"`
}

// ValidateProposalReq is the request body of the proposal-validation
// endpoint.
type ValidateProposalReq struct {
	Proposal engine.RawProposal `json:"proposal" validate:"required"`
	IsFirst  bool               `json:"isFirst"`
}

// SessionReq is the request body that starts an editing session.
type SessionReq struct {
	Process       engine.Process `json:"process" validate:"required"`
	ChangeRequest string         `json:"changeRequest" validate:"required"`
}

// SessionRes is the outcome of an editing session.
type SessionRes struct {
	Process    engine.Process      `json:"process" validate:"required"`
	Stopped    bool                `json:"stopped"`
	Iterations int                 `json:"iterations" validate:"gte=0"`
	Steps      []engine.StepRecord `json:"steps,omitempty"`
}
