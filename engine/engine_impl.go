package engine

import (
	"github.com/bpmnauthor/bpmn-author/engine/internal"
	"github.com/bpmnauthor/bpmn-author/model"
	"github.com/bpmnauthor/bpmn-author/xmlcodec"
)

type engine struct {
	options Options
}

func (e *engine) Validate(process Process) error {
	return model.Validate(process)
}

func (e *engine) Flatten(process Process) (FlatProcess, error) {
	if err := model.Validate(process); err != nil {
		return FlatProcess{}, err
	}
	return internal.Flatten(process)
}

func (e *engine) Emit(flat FlatProcess) (string, error) {
	return xmlcodec.Emit(flat, e.options.ProcessId)
}

func (e *engine) Parse(bpmnXml string) (FlatProcess, error) {
	return xmlcodec.Parse(bpmnXml)
}

func (e *engine) Unflatten(flat FlatProcess) (Process, error) {
	process, err := internal.Unflatten(flat)
	if err != nil {
		return Process{}, err
	}
	if err := model.Validate(process); err != nil {
		return Process{}, err
	}
	return process, nil
}

func (e *engine) Edit(process Process, proposal EditProposal) (Process, error) {
	return internal.Edit(process, proposal)
}

func (e *engine) ValidateProposal(raw RawProposal, isFirst bool) (EditProposal, error) {
	return internal.ValidateProposal(raw, isFirst)
}
