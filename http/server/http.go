package server

const (
	ContentTypeJson        = "application/json"
	ContentTypeProblemJson = "application/problem+json"
	ContentTypeXml         = "text/xml"

	HeaderContentType = "Content-Type"

	PathProcessesValidate = "/v1/processes/validate"
	PathProcessesFlatten  = "/v1/processes/flatten"
	PathProcessesEmit     = "/v1/processes/emit"
	PathProcessesParse    = "/v1/processes/parse"
	PathProcessesEdit     = "/v1/processes/edit"

	PathProposalsValidate = "/v1/proposals/validate"

	PathSessions = "/v1/sessions"
)
