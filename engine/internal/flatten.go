package internal

import (
	"fmt"

	"github.com/bpmnauthor/bpmn-author/model"
)

// flattener accumulates FlatElements and SequenceFlows while walking a
// hierarchical tree. A fresh flattener is used per recursive call so that
// sibling branch emissions never leak state into one another; the caller
// splices the returned elements/flows into its own accumulator.
type flattener struct {
	elements []model.FlatElement
	flows    []model.SequenceFlow
	seen     map[[2]string]struct{}
}

func newFlattener() *flattener {
	return &flattener{seen: make(map[[2]string]struct{})}
}

func (f *flattener) emitElement(id string, typ model.ElementType, label string) {
	f.elements = append(f.elements, model.FlatElement{Id: id, Type: typ, Label: label})
}

func (f *flattener) emitFlow(source, target, condition string) {
	key := [2]string{source, target}
	if _, ok := f.seen[key]; ok {
		return
	}
	f.seen[key] = struct{}{}
	f.flows = append(f.flows, model.SequenceFlow{
		Id:        fmt.Sprintf("%s-%s", source, target),
		SourceRef: source,
		TargetRef: target,
		Condition: condition,
	})
}

func (f *flattener) merge(other *flattener) {
	f.elements = append(f.elements, other.elements...)
	for _, flow := range other.flows {
		f.emitFlow(flow.SourceRef, flow.TargetRef, flow.Condition)
	}
}

// Flatten converts a hierarchical process into its flat representation, per
// spec §4.3.
func Flatten(process model.Process) (model.FlatProcess, error) {
	f := newFlattener()
	if err := f.walk(process.Elements, ""); err != nil {
		return model.FlatProcess{}, err
	}

	byId := make(map[string]*model.FlatElement, len(f.elements))
	for i := range f.elements {
		byId[f.elements[i].Id] = &f.elements[i]
	}
	for _, flow := range f.flows {
		if source, ok := byId[flow.SourceRef]; ok {
			source.Outgoing = append(source.Outgoing, flow.Id)
		}
		if target, ok := byId[flow.TargetRef]; ok {
			target.Incoming = append(target.Incoming, flow.Id)
		}
	}

	return model.FlatProcess{Elements: f.elements, Flows: f.flows}, nil
}

// walk flattens one list of elements, where parentNextId is the ID the
// list's last element should flow into, if any.
func (f *flattener) walk(elements []model.Element, parentNextId string) error {
	for i := range elements {
		e := &elements[i]

		nextInList := parentNextId
		if i+1 < len(elements) {
			nextInList = elements[i+1].Id
		}

		switch e.Type {
		case model.ExclusiveGateway:
			if err := f.walkExclusiveGateway(e, nextInList); err != nil {
				return err
			}
		case model.ParallelGateway:
			if err := f.walkParallelGateway(e, nextInList); err != nil {
				return err
			}
		default:
			f.emitElement(e.Id, e.Type, e.Label)
			if e.Type != model.EndEvent && nextInList != "" {
				f.emitFlow(e.Id, nextInList, "")
			}
		}
	}
	return nil
}

func (f *flattener) walkExclusiveGateway(e *model.Element, nextInList string) error {
	f.emitElement(e.Id, e.Type, e.Label)

	joinId := ""
	if e.HasJoin {
		joinId = e.Id + "-join"
		f.emitElement(joinId, model.ExclusiveGateway, "")
	}

	for j := range e.ExclusiveBranches {
		b := &e.ExclusiveBranches[j]

		branchTarget := nextInList
		if joinId != "" {
			branchTarget = joinId
		}
		if b.Next != "" {
			branchTarget = b.Next
		}

		if len(b.Path) == 0 {
			f.emitFlow(e.Id, branchTarget, b.Condition)
			continue
		}

		branchFlattener := newFlattener()
		if err := branchFlattener.walk(b.Path, branchTarget); err != nil {
			return err
		}
		f.merge(branchFlattener)
		f.emitFlow(e.Id, b.Path[0].Id, b.Condition)
	}

	if joinId != "" && nextInList != "" {
		f.emitFlow(joinId, nextInList, "")
	}
	return nil
}

func (f *flattener) walkParallelGateway(e *model.Element, nextInList string) error {
	f.emitElement(e.Id, e.Type, e.Label)

	joinId := e.Id + "-join"
	f.emitElement(joinId, model.ParallelGateway, "")

	for j := range e.ParallelBranches {
		path := e.ParallelBranches[j].Path
		if len(path) == 0 {
			f.emitFlow(e.Id, joinId, "")
			continue
		}

		branchFlattener := newFlattener()
		if err := branchFlattener.walk(path, joinId); err != nil {
			return err
		}
		f.merge(branchFlattener)
		f.emitFlow(e.Id, path[0].Id, "")
	}

	if nextInList != "" {
		f.emitFlow(joinId, nextInList, "")
	}
	return nil
}
