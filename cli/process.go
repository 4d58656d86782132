package cli

import (
	"fmt"

	"github.com/bpmnauthor/bpmn-author/model"
	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

func newValidateCmd(cli *Cli) *cobra.Command {
	var fileName string

	c := cobra.Command{
		Use:   "validate",
		Short: "Validate a hierarchical process document",
		RunE: func(c *cobra.Command, _ []string) error {
			data, err := readInput(fileName)
			if err != nil {
				return err
			}

			process, err := model.ParseProcess(data)
			if err != nil {
				return err
			}

			if err := cli.e.Validate(process); err != nil {
				return err
			}

			c.Println("ok")
			return nil
		},
	}

	c.Flags().StringVar(&fileName, "file", "-", "Path to a hierarchical process JSON document, or - for stdin")

	return &c
}

func newFlattenCmd(cli *Cli) *cobra.Command {
	var fileName string

	c := cobra.Command{
		Use:   "flatten",
		Short: "Flatten a hierarchical process document",
		RunE: func(c *cobra.Command, _ []string) error {
			data, err := readInput(fileName)
			if err != nil {
				return err
			}

			process, err := model.ParseProcess(data)
			if err != nil {
				return err
			}

			flat, err := cli.e.Flatten(process)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(flat, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal flat process: %v", err)
			}

			c.Println(string(out))
			return nil
		},
	}

	c.Flags().StringVar(&fileName, "file", "-", "Path to a hierarchical process JSON document, or - for stdin")

	return &c
}

func newEmitCmd(cli *Cli) *cobra.Command {
	var fileName string

	c := cobra.Command{
		Use:   "emit",
		Short: "Flatten a hierarchical process document and emit BPMN XML",
		RunE: func(c *cobra.Command, _ []string) error {
			data, err := readInput(fileName)
			if err != nil {
				return err
			}

			process, err := model.ParseProcess(data)
			if err != nil {
				return err
			}

			flat, err := cli.e.Flatten(process)
			if err != nil {
				return err
			}

			bpmnXml, err := cli.e.Emit(flat)
			if err != nil {
				return err
			}

			c.Print(bpmnXml)
			return nil
		},
	}

	c.Flags().StringVar(&fileName, "file", "-", "Path to a hierarchical process JSON document, or - for stdin")

	return &c
}

func newParseCmd(cli *Cli) *cobra.Command {
	var fileName string

	c := cobra.Command{
		Use:   "parse",
		Short: "Parse BPMN XML and reconstruct a hierarchical process document",
		RunE: func(c *cobra.Command, _ []string) error {
			data, err := readInput(fileName)
			if err != nil {
				return err
			}

			flat, err := cli.e.Parse(string(data))
			if err != nil {
				return err
			}

			process, err := cli.e.Unflatten(flat)
			if err != nil {
				return err
			}

			c.Println(process.String())
			return nil
		},
	}

	c.Flags().StringVar(&fileName, "file", "-", "Path to a BPMN XML document, or - for stdin")

	return &c
}
