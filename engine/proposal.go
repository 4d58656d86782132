package engine

import "github.com/bpmnauthor/bpmn-author/model"

// Function names of the five structural edit operations, re-exported from
// model so callers never need to import it directly.
const (
	FunctionDeleteElement  = model.FunctionDeleteElement
	FunctionRedirectBranch = model.FunctionRedirectBranch
	FunctionAddElement     = model.FunctionAddElement
	FunctionMoveElement    = model.FunctionMoveElement
	FunctionUpdateElement  = model.FunctionUpdateElement
)

type (
	RawProposal        = model.RawProposal
	EditProposal       = model.EditProposal
	DeleteElementArgs  = model.DeleteElementArgs
	RedirectBranchArgs = model.RedirectBranchArgs
	AddElementArgs     = model.AddElementArgs
	MoveElementArgs    = model.MoveElementArgs
	UpdateElementArgs  = model.UpdateElementArgs
)
