/*
bpmnauthor is a CLI for authoring and editing BPMN process diagrams.

Usage:

	bpmnauthor [flags]
	bpmnauthor [command]

Available Commands:

	completion  Generate the autocompletion script for the specified shell
	edit        Apply one edit proposal to a hierarchical process document
	emit        Flatten a hierarchical process document and emit BPMN XML
	flatten     Flatten a hierarchical process document
	help        Help about any command
	parse       Parse BPMN XML and reconstruct a hierarchical process document
	session     Run an LLM-driven editing session against a hierarchical process document
	validate    Validate a hierarchical process document
	version     Show version

Flags:

	-h, --help                help for bpmnauthor
	    --process-id string   BPMN process ID assigned by the XML emitter

Use "bpmnauthor [command] --help" for more information about a command.
*/
package main

import (
	"os"

	"github.com/bpmnauthor/bpmn-author/cli"
)

var version = "unknown-version"

func main() {
	c := cli.New(version)
	os.Exit(c.Execute())
}
