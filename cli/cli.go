// Package cli implements the bpmnauthor command line, a thin cobra wrapper
// around a directly embedded engine.Engine - there is no HTTP client here,
// since the CLI and the engine it drives always run in the same process.
package cli

import (
	"fmt"

	"github.com/bpmnauthor/bpmn-author/engine"
	"github.com/spf13/cobra"
)

const program = "bpmnauthor"

func New(version string) *Cli {
	cli := Cli{version: version}
	cli.rootCmd = newRootCmd(&cli)
	return &cli
}

type Cli struct {
	version string
	rootCmd *cobra.Command

	e       engine.Engine
	options engine.Options
}

func (c *Cli) Execute() int {
	if err := c.rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func (c *Cli) help(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

func newRootCmd(cli *Cli) *cobra.Command {
	var processId string

	c := cobra.Command{
		Use:   program,
		Short: "Author and edit BPMN process diagrams",
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			c.SilenceUsage = true

			if cli.e != nil {
				return nil // skip engine creation when testing
			}

			options := engine.NewOptions()
			if processId != "" {
				options.ProcessId = processId
			}

			e, err := engine.New(options)
			if err != nil {
				return fmt.Errorf("failed to create engine: %v", err)
			}
			cli.e = e
			cli.options = options
			return nil
		},
		RunE: cli.help,
	}

	c.PersistentFlags().StringVar(&processId, "process-id", "", "BPMN process ID assigned by the XML emitter")

	c.AddCommand(newValidateCmd(cli))
	c.AddCommand(newFlattenCmd(cli))
	c.AddCommand(newEmitCmd(cli))
	c.AddCommand(newParseCmd(cli))
	c.AddCommand(newEditCmd(cli))
	c.AddCommand(newSessionCmd(cli))
	c.AddCommand(newVersionCmd(cli))

	return &c
}

func newVersionCmd(cli *Cli) *cobra.Command {
	c := cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(c *cobra.Command, _ []string) {
			c.Println(cli.version)
		},
	}
	return &c
}
