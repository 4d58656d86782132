/*
bpmnauthor-httpd runs the process authoring engine behind an HTTP server.

Usage:

	bpmnauthor-httpd

Environment:

	BPMNAUTHOR_BIND_ADDRESS   TCP address to listen on (default 127.0.0.1:8080)
	BPMNAUTHOR_PROCESS_ID     BPMN process ID assigned by the XML emitter
	OPENAI_API_KEY            enables the session endpoint when set
	OPENAI_MODEL              chat completion model (default gpt-4)
*/
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bpmnauthor/bpmn-author/engine"
	"github.com/bpmnauthor/bpmn-author/http/server"
	"github.com/bpmnauthor/bpmn-author/llm"
)

func main() {
	log.SetOutput(os.Stdout)

	options := engine.NewOptions()
	if processId := os.Getenv("BPMNAUTHOR_PROCESS_ID"); processId != "" {
		options.ProcessId = processId
	}

	e, err := engine.New(options)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}

	var llmClient engine.LLMClient
	if client, err := llm.NewOpenAIClient(); err != nil {
		log.Printf("LLM collaborator unavailable, session endpoint disabled: %v", err)
	} else {
		llmClient = client
	}

	srv, err := server.New(e, llmClient, func(o *server.Options) {
		if bindAddress := os.Getenv("BPMNAUTHOR_BIND_ADDRESS"); bindAddress != "" {
			o.BindAddress = bindAddress
		}
		o.EngineOptions = options
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("failed to shut down server: %v", err)
	}
}
