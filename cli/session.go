package cli

import (
	"context"
	"fmt"

	"github.com/bpmnauthor/bpmn-author/engine"
	"github.com/bpmnauthor/bpmn-author/llm"
	"github.com/bpmnauthor/bpmn-author/model"
	"github.com/spf13/cobra"
)

func newSessionCmd(cli *Cli) *cobra.Command {
	var processFileName, changeRequest string

	c := cobra.Command{
		Use:   "session",
		Short: "Run an LLM-driven editing session against a hierarchical process document",
		RunE: func(c *cobra.Command, _ []string) error {
			processData, err := readInput(processFileName)
			if err != nil {
				return err
			}
			process, err := model.ParseProcess(processData)
			if err != nil {
				return err
			}

			client, err := llm.NewOpenAIClient()
			if err != nil {
				return fmt.Errorf("failed to create LLM client: %v", err)
			}

			session := engine.NewEditSession(client, cli.options)

			result, err := session.Run(context.Background(), process, changeRequest)
			if err != nil {
				return err
			}

			c.Printf("stopped=%v iterations=%d\n", result.Stopped, result.Iterations)
			c.Println(result.Process.String())
			return nil
		},
	}

	c.Flags().StringVar(&processFileName, "process-file", "-", "Path to a hierarchical process JSON document, or - for stdin")
	c.Flags().StringVar(&changeRequest, "change-request", "", "Natural-language description of the requested change")

	c.MarkFlagRequired("change-request")

	return &c
}
