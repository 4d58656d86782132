package model

// FunctionSchema describes one callable function the LLM collaborator may
// invoke, mirroring an OpenAI "function" tool definition (spec §4.9).
type FunctionSchema struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Prompt carries everything the LLM collaborator needs to propose the next
// edit: the system instructions, the serialised current process, the
// change request or iteration state, and the callable function schemas.
type Prompt struct {
	SystemInstructions string
	ProcessJSON        string
	ChangeRequest      string
	Functions          []FunctionSchema
	PriorError         string
}

// Completion is the LLM collaborator's raw answer: a proposal plus token
// usage for logging.
type Completion struct {
	Proposal     RawProposal
	PromptTokens int
	ReplyTokens  int
}
