package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditCmd_DeleteElement(t *testing.T) {
	assert := assert.New(t)

	processFile := writeTempFile(t, "process.json", linearProcessJSON)
	proposalFile := writeTempFile(t, "proposal.json", `{"function":"delete_element","arguments":{"element_id":"t1"}}`)

	out, err := runCli(t, "edit", "--process-file", processFile, "--proposal-file", proposalFile)
	assert.NoError(err)
	assert.Contains(out, `"startEvent"`)
	assert.Contains(out, `"endEvent"`)
	assert.NotContains(out, `"t1"`)
}

func TestEditCmd_RejectsStopProposal(t *testing.T) {
	processFile := writeTempFile(t, "process.json", linearProcessJSON)
	proposalFile := writeTempFile(t, "proposal.json", `{"stop":true}`)

	_, err := runCli(t, "edit", "--process-file", processFile, "--proposal-file", proposalFile)
	assert.Error(t, err)
}

func TestEditCmd_UnknownFunction(t *testing.T) {
	processFile := writeTempFile(t, "process.json", linearProcessJSON)
	proposalFile := writeTempFile(t, "proposal.json", `{"function":"not_a_real_function","arguments":{}}`)

	_, err := runCli(t, "edit", "--process-file", processFile, "--proposal-file", proposalFile)
	assert.Error(t, err)
}

func TestEditCmd_MalformedProposalJson(t *testing.T) {
	processFile := writeTempFile(t, "process.json", linearProcessJSON)
	proposalFile := writeTempFile(t, "proposal.json", `not json`)

	_, err := runCli(t, "edit", "--process-file", processFile, "--proposal-file", proposalFile)
	assert.Error(t, err)
}

func TestEditCmd_RequiresProposalFile(t *testing.T) {
	processFile := writeTempFile(t, "process.json", linearProcessJSON)

	_, err := runCli(t, "edit", "--process-file", processFile)
	assert.Error(t, err)
}
