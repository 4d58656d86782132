package model

// Function names of the five structural edit operations, matching the
// wire JSON of spec §6.4 exactly.
const (
	FunctionDeleteElement  = "delete_element"
	FunctionRedirectBranch = "redirect_branch"
	FunctionAddElement     = "add_element"
	FunctionMoveElement    = "move_element"
	FunctionUpdateElement  = "update_element"
)

// RawProposal is the untyped wire shape an edit proposal arrives in, from
// either the LLM collaborator or an HTTP request body. It is the one place
// besides the Edit-Proposal Validator allowed to hold a dynamic "arguments"
// bag (spec §9 design notes); everything downstream works with the
// narrowed EditProposal instead.
type RawProposal struct {
	Stop      bool           `json:"stop,omitempty"`
	Function  string         `json:"function,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// EditProposal is either a stop signal or a named function call narrowed
// into typed arguments by the Edit-Proposal Validator.
type EditProposal struct {
	Stop     bool
	Function string

	DeleteElement  *DeleteElementArgs
	RedirectBranch *RedirectBranchArgs
	AddElement     *AddElementArgs
	MoveElement    *MoveElementArgs
	UpdateElement  *UpdateElementArgs
}

type DeleteElementArgs struct {
	ElementId string `json:"element_id" validate:"required"`
}

type RedirectBranchArgs struct {
	BranchCondition string `json:"branch_condition" validate:"required"`
	NextId          string `json:"next_id" validate:"required"`
}

type AddElementArgs struct {
	Element  Element `json:"element" validate:"required"`
	BeforeId string  `json:"before_id"`
	AfterId  string  `json:"after_id"`
}

type MoveElementArgs struct {
	ElementId string `json:"element_id" validate:"required"`
	BeforeId  string `json:"before_id"`
	AfterId   string `json:"after_id"`
}

type UpdateElementArgs struct {
	NewElement Element `json:"new_element" validate:"required"`
}
