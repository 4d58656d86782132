package internal

import (
	"fmt"

	"github.com/bpmnauthor/bpmn-author/model"
)

// Edit applies one structural edit operation to process and returns a new
// process; process itself is left untouched, per spec §4.6.
func Edit(process model.Process, proposal model.EditProposal) (model.Process, error) {
	clone := model.DeepClone(process)

	switch {
	case proposal.DeleteElement != nil:
		return deleteElement(clone, proposal.DeleteElement)
	case proposal.RedirectBranch != nil:
		return redirectBranch(clone, proposal.RedirectBranch)
	case proposal.AddElement != nil:
		return addElement(clone, proposal.AddElement)
	case proposal.MoveElement != nil:
		return moveElement(clone, proposal.MoveElement)
	case proposal.UpdateElement != nil:
		return updateElement(clone, proposal.UpdateElement)
	default:
		return model.Process{}, model.Error{
			Type:   model.ErrorProposal,
			Title:  "invalid edit proposal",
			Detail: "proposal carries no recognised function arguments",
		}
	}
}

func deleteElement(process model.Process, args *model.DeleteElementArgs) (model.Process, error) {
	path, idx, err := locateForDeletion(process, args.ElementId)
	if err != nil {
		return model.Process{}, err
	}

	list, err := path.ResolveElementList(&process)
	if err != nil {
		return model.Process{}, err
	}

	*list = append((*list)[:idx], (*list)[idx+1:]...)
	return process, nil
}

// locateForDeletion finds the containing list and index of id via
// FindPosition, using id itself as the before-anchor; FindPosition's own
// lookup failure already gives the correct LookupError.
func locateForDeletion(process model.Process, id string) (model.Path, int, error) {
	return model.FindPosition(process, id, "")
}

func redirectBranch(process model.Process, args *model.RedirectBranchArgs) (model.Process, error) {
	path, idx, err := model.FindBranchPosition(process, args.BranchCondition)
	if err != nil {
		return model.Process{}, err
	}

	gateway, err := resolveGatewayAtBranches(&process, path)
	if err != nil {
		return model.Process{}, err
	}
	if idx < 0 || idx >= len(gateway.ExclusiveBranches) {
		return model.Process{}, fmt.Errorf("branch index %d out of range for gateway %s", idx, gateway.Id)
	}

	gateway.ExclusiveBranches[idx].Next = args.NextId
	return process, nil
}

// resolveGatewayAtBranches walks a Path produced by FindBranchPosition
// (ending in StepElement, StepBranches) down to the addressed gateway.
func resolveGatewayAtBranches(process *model.Process, path model.Path) (*model.Element, error) {
	list := &process.Elements
	var gateway *model.Element

	i := 0
	for i < len(path) {
		if path[i].Kind != model.StepElement {
			return nil, fmt.Errorf("malformed branch path at step %d: expected element index", i)
		}
		idx := path[i].Index
		if idx < 0 || idx >= len(*list) {
			return nil, fmt.Errorf("branch path element index %d out of range", idx)
		}
		gateway = &(*list)[idx]
		i++

		if i >= len(path) {
			return gateway, nil
		}
		if path[i].Kind != model.StepBranches {
			return nil, fmt.Errorf("malformed branch path at step %d: expected 'branches'", i)
		}
		i++

		if i >= len(path) {
			return gateway, nil
		}
		if path[i].Kind != model.StepBranch {
			return nil, fmt.Errorf("malformed branch path at step %d: expected branch index", i)
		}
		branchIdx := path[i].Index
		i++

		if i >= len(path) || path[i].Kind != model.StepPath {
			return nil, fmt.Errorf("malformed branch path at step %d: expected 'path'", i)
		}
		i++

		switch gateway.Type {
		case model.ExclusiveGateway:
			if branchIdx < 0 || branchIdx >= len(gateway.ExclusiveBranches) {
				return nil, fmt.Errorf("branch index %d out of range for gateway %s", branchIdx, gateway.Id)
			}
			list = &gateway.ExclusiveBranches[branchIdx].Path
		case model.ParallelGateway:
			if branchIdx < 0 || branchIdx >= len(gateway.ParallelBranches) {
				return nil, fmt.Errorf("branch index %d out of range for gateway %s", branchIdx, gateway.Id)
			}
			list = &gateway.ParallelBranches[branchIdx].Path
		default:
			return nil, fmt.Errorf("element %s is not a gateway", gateway.Id)
		}
	}

	return gateway, nil
}

func addElement(process model.Process, args *model.AddElementArgs) (model.Process, error) {
	for _, id := range model.AllIDs(process) {
		if id == args.Element.Id {
			return model.Process{}, model.Error{
				Type:   model.ErrorProposal,
				Title:  "invalid add_element",
				Detail: fmt.Sprintf("element id %q already exists", args.Element.Id),
			}
		}
	}

	path, idx, err := model.FindPosition(process, args.BeforeId, args.AfterId)
	if err != nil {
		return model.Process{}, err
	}

	list, err := path.ResolveElementList(&process)
	if err != nil {
		return model.Process{}, err
	}

	*list = append((*list)[:idx], append([]model.Element{args.Element}, (*list)[idx:]...)...)
	return process, nil
}

func moveElement(process model.Process, args *model.MoveElementArgs) (model.Process, error) {
	deletePath, deleteIdx, err := model.FindPosition(process, args.ElementId, "")
	if err != nil {
		return model.Process{}, err
	}
	deleteList, err := deletePath.ResolveElementList(&process)
	if err != nil {
		return model.Process{}, err
	}
	if deleteIdx < 0 || deleteIdx >= len(*deleteList) {
		return model.Process{}, fmt.Errorf("element index %d out of range", deleteIdx)
	}

	moved := (*deleteList)[deleteIdx]
	*deleteList = append((*deleteList)[:deleteIdx], (*deleteList)[deleteIdx+1:]...)

	addPath, addIdx, err := model.FindPosition(process, args.BeforeId, args.AfterId)
	if err != nil {
		return model.Process{}, err
	}
	addList, err := addPath.ResolveElementList(&process)
	if err != nil {
		return model.Process{}, err
	}

	*addList = append((*addList)[:addIdx], append([]model.Element{moved}, (*addList)[addIdx:]...)...)
	return process, nil
}

func updateElement(process model.Process, args *model.UpdateElementArgs) (model.Process, error) {
	if args.NewElement.Type.IsGateway() {
		return model.Process{}, model.Error{
			Type:   model.ErrorProposal,
			Title:  "invalid update_element",
			Detail: fmt.Sprintf("update_element must not target a gateway element %s", args.NewElement.Id),
		}
	}

	path, idx, err := model.FindPosition(process, args.NewElement.Id, "")
	if err != nil {
		return model.Process{}, err
	}
	list, err := path.ResolveElementList(&process)
	if err != nil {
		return model.Process{}, err
	}
	if idx < 0 || idx >= len(*list) {
		return model.Process{}, fmt.Errorf("element index %d out of range", idx)
	}

	(*list)[idx] = args.NewElement
	return process, nil
}
