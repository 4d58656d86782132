package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bpmnauthor/bpmn-author/engine"
	"github.com/bpmnauthor/bpmn-author/http/common"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, llmClient engine.LLMClient) *Server {
	t.Helper()

	e, err := engine.New(engine.NewOptions())
	assert.NoError(t, err)

	srv, err := New(e, llmClient)
	assert.NoError(t, err)
	return srv
}

func linearProcessJSON() []byte {
	data, _ := json.Marshal(map[string]any{
		"process": []map[string]any{
			{"id": "s1", "type": "startEvent"},
			{"id": "t1", "type": "task", "label": "Do it"},
			{"id": "e1", "type": "endEvent"},
		},
	})
	return data
}

func doRequest(t *testing.T, srv *Server, method, path string, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_ValidateProcess_Valid(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, "POST", PathProcessesValidate, ContentTypeJson, linearProcessJSON())
	assert.Equal(http.StatusNoContent, rec.Code)
}

func TestServer_ValidateProcess_Invalid(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	body, _ := json.Marshal(map[string]any{"process": []map[string]any{{"id": "", "type": "task", "label": "x"}}})
	rec := doRequest(t, srv, "POST", PathProcessesValidate, ContentTypeJson, body)

	assert.Equal(http.StatusBadRequest, rec.Code)
	assert.Equal(ContentTypeProblemJson, rec.Header().Get(HeaderContentType))

	var problem common.Problem
	assert.NoError(json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(common.ProblemSchema, problem.Type)
}

func TestServer_ValidateProcess_WrongMediaType(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, "POST", PathProcessesValidate, "text/plain", linearProcessJSON())
	assert.Equal(http.StatusUnsupportedMediaType, rec.Code)
}

func TestServer_FlattenProcess(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, "POST", PathProcessesFlatten, ContentTypeJson, linearProcessJSON())
	assert.Equal(http.StatusOK, rec.Code)

	var flat engine.FlatProcess
	assert.NoError(json.Unmarshal(rec.Body.Bytes(), &flat))
	assert.Len(flat.Elements, 3)
}

func TestServer_EmitProcess(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, "POST", PathProcessesEmit, ContentTypeJson, linearProcessJSON())
	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal(ContentTypeXml, rec.Header().Get(HeaderContentType))
	assert.Contains(rec.Body.String(), "bpmn:definitions")
}

func TestServer_ParseProcess_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	emitRec := doRequest(t, srv, "POST", PathProcessesEmit, ContentTypeJson, linearProcessJSON())
	assert.Equal(http.StatusOK, emitRec.Code)

	parseRec := doRequest(t, srv, "POST", PathProcessesParse, ContentTypeXml, emitRec.Body.Bytes())
	assert.Equal(http.StatusOK, parseRec.Code)

	var process engine.Process
	assert.NoError(json.Unmarshal(parseRec.Body.Bytes(), &process))
	assert.Len(process.Elements, 3)
}

func TestServer_ParseProcess_WrongMediaType(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, "POST", PathProcessesParse, ContentTypeJson, []byte("<bpmn/>"))
	assert.Equal(http.StatusUnsupportedMediaType, rec.Code)
}

func TestServer_EditProcess(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	var process engine.Process
	assert.NoError(json.Unmarshal(linearProcessJSON(), &process))

	body, _ := json.Marshal(common.EditReq{
		Process: process,
		Proposal: engine.RawProposal{
			Function:  engine.FunctionDeleteElement,
			Arguments: map[string]any{"element_id": "t1"},
		},
	})

	rec := doRequest(t, srv, "POST", PathProcessesEdit, ContentTypeJson, body)
	assert.Equal(http.StatusOK, rec.Code)

	var result engine.Process
	assert.NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(result.Elements, 2)
}

func TestServer_EditProcess_RejectsStopProposal(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	var process engine.Process
	assert.NoError(json.Unmarshal(linearProcessJSON(), &process))

	body, _ := json.Marshal(common.EditReq{Process: process, Proposal: engine.RawProposal{Stop: true}})
	rec := doRequest(t, srv, "POST", PathProcessesEdit, ContentTypeJson, body)
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func TestServer_ValidateProposal(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	body, _ := json.Marshal(common.ValidateProposalReq{
		Proposal: engine.RawProposal{Function: engine.FunctionDeleteElement, Arguments: map[string]any{"element_id": "t1"}},
		IsFirst:  true,
	})

	rec := doRequest(t, srv, "POST", PathProposalsValidate, ContentTypeJson, body)
	assert.Equal(http.StatusOK, rec.Code)
}

func TestServer_RunSession_NoLLMClientConfigured(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	var process engine.Process
	assert.NoError(json.Unmarshal(linearProcessJSON(), &process))

	body, _ := json.Marshal(common.SessionReq{Process: process, ChangeRequest: "do something"})
	rec := doRequest(t, srv, "POST", PathSessions, ContentTypeJson, body)
	assert.Equal(http.StatusBadGateway, rec.Code)
}

func TestServer_RunSession_WithLLMClient(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, &stubbingLLMClient{})

	var process engine.Process
	assert.NoError(json.Unmarshal(linearProcessJSON(), &process))

	body, _ := json.Marshal(common.SessionReq{Process: process, ChangeRequest: "remove the task"})
	rec := doRequest(t, srv, "POST", PathSessions, ContentTypeJson, body)
	assert.Equal(http.StatusOK, rec.Code)

	var res common.SessionRes
	assert.NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(res.Stopped)
}

func TestServer_UnregisteredRoute(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t, nil)

	rec := doRequest(t, srv, "GET", "/nope", "", nil)
	assert.Equal(http.StatusNotFound, rec.Code)
}

// stubbingLLMClient proposes deleting t1 on its first call and stops on every
// later call, since a session rejects a stop as its first proposal.
type stubbingLLMClient struct {
	calls int
}

func (s *stubbingLLMClient) Complete(_ context.Context, _ engine.Prompt) (engine.Completion, error) {
	s.calls++
	if s.calls == 1 {
		return engine.Completion{Proposal: engine.RawProposal{
			Function:  engine.FunctionDeleteElement,
			Arguments: map[string]any{"element_id": "t1"},
		}}, nil
	}
	return engine.Completion{Proposal: engine.RawProposal{Stop: true}}, nil
}
