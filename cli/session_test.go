package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionCmd_RequiresChangeRequest(t *testing.T) {
	processFile := writeTempFile(t, "process.json", linearProcessJSON)

	_, err := runCli(t, "session", "--process-file", processFile)
	assert.Error(t, err)
}

func TestSessionCmd_FailsWithoutApiKey(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("OPENAI_API_KEY", "")

	processFile := writeTempFile(t, "process.json", linearProcessJSON)
	_, err := runCli(t, "session", "--process-file", processFile, "--change-request", "remove the task")
	assert.Error(err)
	assert.Contains(err.Error(), "LLM client")
}
