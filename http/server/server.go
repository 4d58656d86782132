// Package server exposes the engine over HTTP: one handler per Engine
// method plus a session endpoint driving an injected engine.LLMClient,
// mirroring the teacher's stdlib http.ServeMux-based server.
package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/bpmnauthor/bpmn-author/engine"
	"github.com/bpmnauthor/bpmn-author/http/common"
)

func New(e engine.Engine, llmClient engine.LLMClient, customizers ...func(*Options)) (*Server, error) {
	options := NewOptions()
	for _, customizer := range customizers {
		customizer(&options)
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	httpServerCtx, httpServerCancel := context.WithCancel(context.Background())

	httpServer := http.Server{
		Addr: options.BindAddress,
		BaseContext: func(_ net.Listener) context.Context {
			return httpServerCtx
		},
		Handler:      http.TimeoutHandler(mux, options.HandlerTimeout, "handler timed out"),
		IdleTimeout:  options.IdleTimeout,
		ReadTimeout:  options.ReadTimeout,
		WriteTimeout: options.WriteTimeout,
	}

	server := Server{
		engine:           e,
		llmClient:        llmClient,
		httpServer:       &httpServer,
		httpServerCtx:    httpServerCtx,
		httpServerCancel: httpServerCancel,
		options:          options,
	}

	mux.HandleFunc("POST "+PathProcessesValidate, server.validateProcess)
	mux.HandleFunc("POST "+PathProcessesFlatten, server.flattenProcess)
	mux.HandleFunc("POST "+PathProcessesEmit, server.emitProcess)
	mux.HandleFunc("POST "+PathProcessesParse, server.parseProcess)
	mux.HandleFunc("POST "+PathProcessesEdit, server.editProcess)

	mux.HandleFunc("POST "+PathProposalsValidate, server.validateProposal)

	mux.HandleFunc("POST "+PathSessions, server.runSession)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return &server, nil
}

func NewOptions() Options {
	return Options{
		BindAddress: "127.0.0.1:8080",

		HandlerTimeout: 30 * time.Second,
		IdleTimeout:    60 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   35 * time.Second,

		EngineOptions: engine.NewOptions(),
	}
}

type Options struct {
	BindAddress string

	HandlerTimeout time.Duration
	IdleTimeout    time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	EngineOptions engine.Options
}

func (o Options) Validate() error {
	if o.BindAddress == "" {
		return errors.New("bind address must not be empty")
	}
	return o.EngineOptions.Validate()
}

type Server struct {
	engine    engine.Engine
	llmClient engine.LLMClient

	httpServer       *http.Server
	httpServerCtx    context.Context
	httpServerCancel context.CancelFunc

	options Options
}

func (s *Server) ListenAndServe() error {
	log.Printf("server listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.httpServerCancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) validateProcess(w http.ResponseWriter, r *http.Request) {
	var process engine.Process
	if err := decodeJSONRequestBody(w, r, &process); err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	if err := s.engine.Validate(process); err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) flattenProcess(w http.ResponseWriter, r *http.Request) {
	var process engine.Process
	if err := decodeJSONRequestBody(w, r, &process); err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	flat, err := s.engine.Flatten(process)
	if err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	encodeJSONResponseBody(w, r, flat, http.StatusOK)
}

func (s *Server) emitProcess(w http.ResponseWriter, r *http.Request) {
	var process engine.Process
	if err := decodeJSONRequestBody(w, r, &process); err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	flat, err := s.engine.Flatten(process)
	if err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	bpmnXml, err := s.engine.Emit(flat)
	if err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	writeBpmnXmlResponseBody(w, bpmnXml)
}

func (s *Server) parseProcess(w http.ResponseWriter, r *http.Request) {
	bpmnXml, err := readBpmnXmlRequestBody(w, r)
	if err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	flat, err := s.engine.Parse(bpmnXml)
	if err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	process, err := s.engine.Unflatten(flat)
	if err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	encodeJSONResponseBody(w, r, process, http.StatusOK)
}

func (s *Server) editProcess(w http.ResponseWriter, r *http.Request) {
	var req common.EditReq
	if err := decodeJSONRequestBody(w, r, &req); err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	proposal, err := s.engine.ValidateProposal(req.Proposal, false)
	if err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}
	if proposal.Stop {
		encodeJSONProblemResponseBody(w, r, engine.Error{
			Type:   engine.ErrorProposal,
			Title:  "invalid edit proposal",
			Detail: "a stop proposal cannot be applied to a process",
		})
		return
	}

	process, err := s.engine.Edit(req.Process, proposal)
	if err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	encodeJSONResponseBody(w, r, process, http.StatusOK)
}

func (s *Server) validateProposal(w http.ResponseWriter, r *http.Request) {
	var req common.ValidateProposalReq
	if err := decodeJSONRequestBody(w, r, &req); err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	proposal, err := s.engine.ValidateProposal(req.Proposal, req.IsFirst)
	if err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	encodeJSONResponseBody(w, r, proposal, http.StatusOK)
}

func (s *Server) runSession(w http.ResponseWriter, r *http.Request) {
	var req common.SessionReq
	if err := decodeJSONRequestBody(w, r, &req); err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	if s.llmClient == nil {
		encodeJSONProblemResponseBody(w, r, engine.Error{
			Type:   engine.ErrorTransport,
			Title:  "editing session unavailable",
			Detail: "the server was started without an LLM collaborator",
		})
		return
	}

	session := engine.NewEditSession(s.llmClient, s.options.EngineOptions)

	result, err := session.Run(r.Context(), req.Process, req.ChangeRequest)
	if err != nil {
		encodeJSONProblemResponseBody(w, r, err)
		return
	}

	encodeJSONResponseBody(w, r, common.SessionRes{
		Process:    result.Process,
		Stopped:    result.Stopped,
		Iterations: result.Iterations,
		Steps:      result.Steps,
	}, http.StatusOK)
}
