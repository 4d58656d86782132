package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/bpmnauthor/bpmn-author/engine"
	json "github.com/json-iterator/go"
)

const (
	envApiKey = "OPENAI_API_KEY"
	envModel  = "OPENAI_MODEL"

	defaultModel   = "gpt-4"
	defaultBaseUrl = "https://api.openai.com/v1"
	defaultTimeout = 40 * time.Second
)

// NewOpenAIClient returns an LLMClient backed by an OpenAI-compatible chat
// completions endpoint, reading OPENAI_API_KEY and OPENAI_MODEL (default
// gpt-4) per spec.md §6.5.
func NewOpenAIClient(customizers ...func(*OpenAIOptions)) (LLMClient, error) {
	apiKey := os.Getenv(envApiKey)
	if apiKey == "" {
		return nil, errors.New("environment variable " + envApiKey + " is not set")
	}

	options := OpenAIOptions{
		BaseUrl: defaultBaseUrl,
		Model:   defaultModel,
		Timeout: defaultTimeout,
	}
	if model := os.Getenv(envModel); model != "" {
		options.Model = model
	}
	for _, customizer := range customizers {
		customizer(&options)
	}

	return &openaiClient{
		httpClient: &http.Client{Timeout: options.Timeout},
		apiKey:     apiKey,
		options:    options,
	}, nil
}

// OpenAIOptions configures the OpenAI-compatible adapter; BaseUrl is
// exposed so tests and self-hosted/compatible deployments can override it.
type OpenAIOptions struct {
	BaseUrl string
	Model   string
	Timeout time.Duration
}

type openaiClient struct {
	httpClient *http.Client
	apiKey     string
	options    OpenAIOptions
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []chatTool    `json:"tools,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string           `json:"type"`
	Function chatToolFunction `json:"function"`
}

type chatToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *openaiClient) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	req := chatCompletionRequest{
		Model: c.options.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.SystemInstructions},
			{Role: "user", Content: buildUserMessage(prompt)},
		},
		Tools: buildTools(prompt.Functions),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Completion{}, fmt.Errorf("failed to marshal chat completion request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.options.BaseUrl+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("failed to create chat completion request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("llm completion failed: %v", err)
		return Completion{}, engine.Error{
			Type:   engine.ErrorTransport,
			Title:  "LLM completion failed",
			Detail: err.Error(),
		}
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return Completion{}, engine.Error{
			Type:   engine.ErrorTransport,
			Title:  "LLM completion failed",
			Detail: fmt.Sprintf("HTTP %d", res.StatusCode),
		}
	}

	var chatRes chatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&chatRes); err != nil {
		log.Printf("llm completion returned non-JSON response: %v", err)
		return Completion{}, engine.Error{
			Type:   engine.ErrorTransport,
			Title:  "LLM completion failed",
			Detail: "response was not valid JSON",
		}
	}

	completion := Completion{
		PromptTokens: chatRes.Usage.PromptTokens,
		ReplyTokens:  chatRes.Usage.CompletionTokens,
	}

	if len(chatRes.Choices) == 0 {
		completion.Proposal = engine.RawProposal{Stop: true}
		return completion, nil
	}

	toolCalls := chatRes.Choices[0].Message.ToolCalls
	if len(toolCalls) == 0 {
		completion.Proposal = engine.RawProposal{Stop: true}
		return completion, nil
	}

	call := toolCalls[0].Function
	var arguments map[string]any
	if err := json.Unmarshal([]byte(call.Arguments), &arguments); err != nil {
		log.Printf("llm returned malformed function arguments: %v", err)
		return Completion{}, engine.Error{
			Type:   engine.ErrorTransport,
			Title:  "LLM completion failed",
			Detail: "function arguments were not valid JSON",
		}
	}

	completion.Proposal = engine.RawProposal{Function: call.Name, Arguments: arguments}
	return completion, nil
}

func buildUserMessage(prompt Prompt) string {
	message := "Current process:\n" + prompt.ProcessJSON + "\n\nChange request:\n" + prompt.ChangeRequest
	if prompt.PriorError != "" {
		message += "\n\nThe previous proposal failed: " + prompt.PriorError
	}
	return message
}

func buildTools(functions []FunctionSchema) []chatTool {
	tools := make([]chatTool, len(functions))
	for i, f := range functions {
		tools[i] = chatTool{
			Type: "function",
			Function: chatToolFunction{
				Name:        f.Name,
				Description: f.Description,
				Parameters:  f.Parameters,
			},
		}
	}
	return tools
}
