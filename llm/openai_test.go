package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bpmnauthor/bpmn-author/engine"
	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) LLMClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("OPENAI_API_KEY", "test-key")

	client, err := NewOpenAIClient(func(o *OpenAIOptions) {
		o.BaseUrl = server.URL
		o.Timeout = 5 * time.Second
	})
	assert.NoError(t, err)
	return client
}

func TestNewOpenAIClient_RequiresApiKey(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewOpenAIClient()
	assert.Error(err)
}

func TestOpenAIClient_Complete_ToolCall(t *testing.T) {
	assert := assert.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/chat/completions", r.URL.Path)
		assert.Equal("Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		assert.NoError(json.NewDecoder(r.Body).Decode(&req))
		assert.Len(req.Tools, len(EditFunctionSchemas()))

		w.Write([]byte(`{
			"choices": [{
				"message": {
					"tool_calls": [{
						"function": {"name": "delete_element", "arguments": "{\"element_id\":\"t1\"}"}
					}]
				}
			}]
		}`))
	})

	completion, err := client.Complete(context.Background(), Prompt{
		SystemInstructions: "x",
		ProcessJSON:        "{}",
		ChangeRequest:      "remove t1",
		Functions:          EditFunctionSchemas(),
	})
	assert.NoError(err)
	assert.Equal("delete_element", completion.Proposal.Function)
	assert.Equal("t1", completion.Proposal.Arguments["element_id"])
}

func TestOpenAIClient_Complete_NoToolCallMeansStop(t *testing.T) {
	assert := assert.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"looks good"}}]}`))
	})

	completion, err := client.Complete(context.Background(), Prompt{})
	assert.NoError(err)
	assert.True(completion.Proposal.Stop)
}

func TestOpenAIClient_Complete_NonSuccessStatus(t *testing.T) {
	assert := assert.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Complete(context.Background(), Prompt{})
	assert.Error(err)
	assert.Equal(engine.ErrorTransport, err.(engine.Error).Type)
}

func TestOpenAIClient_Complete_MalformedResponseBody(t *testing.T) {
	assert := assert.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Complete(context.Background(), Prompt{})
	assert.Error(err)
	assert.Equal(engine.ErrorTransport, err.(engine.Error).Type)
}
