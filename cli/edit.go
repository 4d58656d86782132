package cli

import (
	"fmt"

	"github.com/bpmnauthor/bpmn-author/engine"
	"github.com/bpmnauthor/bpmn-author/model"
	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

func newEditCmd(cli *Cli) *cobra.Command {
	var processFileName, proposalFileName string

	c := cobra.Command{
		Use:   "edit",
		Short: "Apply one edit proposal to a hierarchical process document",
		RunE: func(c *cobra.Command, _ []string) error {
			processData, err := readInput(processFileName)
			if err != nil {
				return err
			}
			process, err := model.ParseProcess(processData)
			if err != nil {
				return err
			}

			proposalData, err := readInput(proposalFileName)
			if err != nil {
				return err
			}

			var raw engine.RawProposal
			if err := json.Unmarshal(proposalData, &raw); err != nil {
				return fmt.Errorf("failed to decode edit proposal: %v", err)
			}

			proposal, err := cli.e.ValidateProposal(raw, false)
			if err != nil {
				return err
			}
			if proposal.Stop {
				return fmt.Errorf("a stop proposal cannot be applied to a process")
			}

			result, err := cli.e.Edit(process, proposal)
			if err != nil {
				return err
			}

			c.Println(result.String())
			return nil
		},
	}

	c.Flags().StringVar(&processFileName, "process-file", "-", "Path to a hierarchical process JSON document, or - for stdin")
	c.Flags().StringVar(&proposalFileName, "proposal-file", "", "Path to an edit-proposal JSON document")

	c.MarkFlagRequired("proposal-file")

	return &c
}
