package internal

import (
	"fmt"

	"github.com/bpmnauthor/bpmn-author/model"
)

// flatIndex is a read-only view over a flat process, keyed for the
// reconstruction walk.
type flatIndex struct {
	byId       map[string]*model.FlatElement
	outgoingOf map[string][]model.SequenceFlow // flows keyed by sourceRef
}

func buildFlatIndex(flat model.FlatProcess) *flatIndex {
	idx := &flatIndex{
		byId:       make(map[string]*model.FlatElement, len(flat.Elements)),
		outgoingOf: make(map[string][]model.SequenceFlow),
	}
	for i := range flat.Elements {
		idx.byId[flat.Elements[i].Id] = &flat.Elements[i]
	}
	for _, flow := range flat.Flows {
		idx.outgoingOf[flow.SourceRef] = append(idx.outgoingOf[flow.SourceRef], flow)
	}
	return idx
}

// Unflatten reconstructs a hierarchical process from its flat representation
// by tracing reconvergence, per spec §4.5.
func Unflatten(flat model.FlatProcess) (model.Process, error) {
	idx := buildFlatIndex(flat)

	var startId string
	startCount := 0
	for i := range flat.Elements {
		if flat.Elements[i].Type == model.StartEvent {
			startCount++
			startId = flat.Elements[i].Id
		}
	}
	if startCount != 1 {
		return model.Process{}, model.Error{
			Type:   model.ErrorStructure,
			Title:  "invalid BPMN document",
			Detail: fmt.Sprintf("process must have exactly one start event, found %d", startCount),
		}
	}

	u := &unflattener{idx: idx}
	elements, err := u.walk(startId, "")
	if err != nil {
		return model.Process{}, err
	}
	return model.Process{Elements: elements}, nil
}

type unflattener struct {
	idx *flatIndex
}

// walk reconstructs the element list starting at id, stopping when it
// reaches stop (exclusive) or an element with no further continuation.
func (u *unflattener) walk(id string, stop string) ([]model.Element, error) {
	var result []model.Element
	current := id

	for current != "" && current != stop {
		fe, ok := u.idx.byId[current]
		if !ok {
			return nil, model.Error{
				Type:   model.ErrorStructure,
				Title:  "invalid BPMN document",
				Detail: fmt.Sprintf("flow refers to unknown element %q", current),
			}
		}

		switch fe.Type {
		case model.ExclusiveGateway:
			element, next, err := u.reconstructExclusiveGateway(fe)
			if err != nil {
				return nil, err
			}
			result = append(result, element)
			current = next
		case model.ParallelGateway:
			element, next, err := u.reconstructParallelGateway(fe)
			if err != nil {
				return nil, err
			}
			result = append(result, element)
			current = next
		default:
			label := fe.Label
			result = append(result, model.Element{Id: fe.Id, Type: fe.Type, Label: label})
			if fe.Type == model.EndEvent {
				current = ""
				continue
			}
			outgoing := u.idx.outgoingOf[fe.Id]
			if len(outgoing) == 0 {
				current = ""
				continue
			}
			current = outgoing[0].TargetRef
		}
	}

	return result, nil
}

// commonBranchEndpoint implements spec §4.5.1: the first ID, in a
// breadth-first walk from each outgoing target independently, common to
// every walk's path. A walk terminates as soon as it would revisit an ID
// already on its own path; that revisit is still the walk's final node.
func (u *unflattener) commonBranchEndpoint(gatewayId string) (string, error) {
	outgoing := u.idx.outgoingOf[gatewayId]
	if len(outgoing) == 0 {
		return "", model.Error{
			Type:   model.ErrorStructure,
			Title:  "invalid BPMN document",
			Detail: fmt.Sprintf("gateway %s has no outgoing flows", gatewayId),
		}
	}

	walks := make([]map[string]int, len(outgoing))
	orders := make([][]string, len(outgoing))

	for i, flow := range outgoing {
		visited := make(map[string]struct{})
		order := make([]string, 0)
		positions := make(map[string]int)

		queue := []string{flow.TargetRef}
		visited[flow.TargetRef] = struct{}{}

		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]

			positions[id] = len(order)
			order = append(order, id)

			fe, ok := u.idx.byId[id]
			if !ok {
				break
			}
			for _, next := range u.idx.outgoingOf[fe.Id] {
				if _, revisited := visited[next.TargetRef]; revisited {
					continue
				}
				visited[next.TargetRef] = struct{}{}
				queue = append(queue, next.TargetRef)
			}
		}

		walks[i] = positions
		orders[i] = order
	}

	for _, id := range orders[0] {
		commonToAll := true
		for _, walk := range walks[1:] {
			if _, ok := walk[id]; !ok {
				commonToAll = false
				break
			}
		}
		if commonToAll {
			return id, nil
		}
	}

	return "", model.Error{
		Type:   model.ErrorStructure,
		Title:  "invalid BPMN document",
		Detail: fmt.Sprintf("gateway %s's branches never reconverge", gatewayId),
	}
}

func (u *unflattener) reconstructExclusiveGateway(fe *model.FlatElement) (model.Element, string, error) {
	cbe, err := u.commonBranchEndpoint(fe.Id)
	if err != nil {
		return model.Element{}, "", err
	}

	hasJoin := false
	joinSuccessor := cbe
	boundary := cbe

	if cbeElement, ok := u.idx.byId[cbe]; ok && cbeElement.Type == model.ExclusiveGateway {
		cbeOutgoing := u.idx.outgoingOf[cbe]
		if len(cbeOutgoing) == 1 {
			hasJoin = true
			joinSuccessor = cbeOutgoing[0].TargetRef
			boundary = cbe
		}
	}

	outgoing := u.idx.outgoingOf[fe.Id]
	branches := make([]model.ExclusiveBranch, 0, len(outgoing))
	for _, flow := range outgoing {
		path, err := u.walk(flow.TargetRef, boundary)
		if err != nil {
			return model.Element{}, "", err
		}

		branch := model.ExclusiveBranch{Condition: flow.Condition, Path: path}
		branch.Next = u.branchNext(flow.TargetRef, path, boundary)
		branches = append(branches, branch)
	}

	element := model.Element{
		Id:                fe.Id,
		Type:              model.ExclusiveGateway,
		Label:             fe.Label,
		HasJoin:           hasJoin,
		ExclusiveBranches: branches,
	}

	next := ""
	if hasJoin {
		next = joinSuccessor
	} else if cbe != "" {
		if _, ok := u.idx.byId[cbe]; ok {
			next = cbe
		}
	}

	return element, next, nil
}

// branchNext determines whether a branch needs an explicit "next" per spec
// §4.5: either the branch's path is empty and its target is not the
// boundary, or its natural continuation differs from the boundary.
func (u *unflattener) branchNext(target string, path []model.Element, boundary string) string {
	if len(path) == 0 {
		if target != boundary && target != "" {
			return target
		}
		return ""
	}

	last := path[len(path)-1]
	natural := u.naturalContinuation(last)
	if natural != "" && natural != boundary {
		return natural
	}
	return ""
}

// naturalContinuation is the ID a reconstructed element would flow to next,
// following its own sole outgoing flow (or join successor for gateways),
// used to detect whether a branch needs an explicit "next" override.
func (u *unflattener) naturalContinuation(e model.Element) string {
	switch e.Type {
	case model.ExclusiveGateway:
		cbe, err := u.commonBranchEndpoint(e.Id)
		if err != nil {
			return ""
		}
		if cbeElement, ok := u.idx.byId[cbe]; ok && cbeElement.Type == model.ExclusiveGateway {
			cbeOutgoing := u.idx.outgoingOf[cbe]
			if len(cbeOutgoing) == 1 {
				return cbeOutgoing[0].TargetRef
			}
		}
		return cbe
	case model.ParallelGateway:
		cbe, err := u.commonBranchEndpoint(e.Id)
		if err != nil {
			return ""
		}
		if cbeElement, ok := u.idx.byId[cbe]; ok && cbeElement.Type == model.ParallelGateway {
			cbeOutgoing := u.idx.outgoingOf[cbe]
			if len(cbeOutgoing) == 1 {
				return cbeOutgoing[0].TargetRef
			}
		}
		return ""
	case model.EndEvent:
		return ""
	default:
		outgoing := u.idx.outgoingOf[e.Id]
		if len(outgoing) == 1 {
			return outgoing[0].TargetRef
		}
		return ""
	}
}

func (u *unflattener) reconstructParallelGateway(fe *model.FlatElement) (model.Element, string, error) {
	cbe, err := u.commonBranchEndpoint(fe.Id)
	if err != nil {
		return model.Element{}, "", err
	}

	cbeElement, ok := u.idx.byId[cbe]
	if !ok || cbeElement.Type != model.ParallelGateway {
		return model.Element{}, "", model.Error{
			Type:   model.ErrorStructure,
			Title:  "invalid BPMN document",
			Detail: fmt.Sprintf("parallel gateway %s has no valid join", fe.Id),
		}
	}
	joinOutgoing := u.idx.outgoingOf[cbe]
	if len(joinOutgoing) != 1 {
		return model.Element{}, "", model.Error{
			Type:   model.ErrorStructure,
			Title:  "invalid BPMN document",
			Detail: fmt.Sprintf("parallel gateway %s's join %s must have exactly one outgoing flow", fe.Id, cbe),
		}
	}

	outgoing := u.idx.outgoingOf[fe.Id]
	branches := make([]model.ParallelBranch, 0, len(outgoing))
	for _, flow := range outgoing {
		path, err := u.walk(flow.TargetRef, cbe)
		if err != nil {
			return model.Element{}, "", err
		}
		branches = append(branches, model.ParallelBranch{Path: path})
	}

	element := model.Element{
		Id:               fe.Id,
		Type:             model.ParallelGateway,
		ParallelBranches: branches,
	}

	return element, joinOutgoing[0].TargetRef, nil
}
