package model

import "fmt"

// StepKind identifies one token of a Path.
type StepKind int

const (
	StepElement StepKind = iota // index into a list of Elements
	StepBranches                // literal "branches" - descend into a gateway's branch list
	StepBranch                  // index into a branches list
	StepPath                    // literal "path" - descend into a branch's element list
)

// Step is one token of a Path.
type Step struct {
	Kind  StepKind
	Index int // meaningful for StepElement and StepBranch
}

// Path addresses a sub-tree slot inside a Process: either a list of
// Elements (the result of FindPosition) or a gateway's branch list (the
// result of FindBranchPosition). It is an ordered sequence of step tokens,
// per spec §4.2.
type Path []Step

func appendElementGroup(prefix Path, elementIndex, branchIndex int) Path {
	next := make(Path, len(prefix), len(prefix)+4)
	copy(next, prefix)
	return append(next,
		Step{Kind: StepElement, Index: elementIndex},
		Step{Kind: StepBranches},
		Step{Kind: StepBranch, Index: branchIndex},
		Step{Kind: StepPath},
	)
}

func appendBranchesGroup(prefix Path, elementIndex int) Path {
	next := make(Path, len(prefix), len(prefix)+2)
	copy(next, prefix)
	return append(next,
		Step{Kind: StepElement, Index: elementIndex},
		Step{Kind: StepBranches},
	)
}

// ResolveElementList resolves a Path produced by FindPosition to a pointer
// to the addressed list of elements within process, for direct mutation.
// It only ever terminates at an Element list: the top-level process or a
// branch's path.
func (p Path) ResolveElementList(process *Process) (*[]Element, error) {
	list := &process.Elements

	i := 0
	for i < len(p) {
		if p[i].Kind != StepElement {
			return nil, fmt.Errorf("malformed path at step %d: expected element index", i)
		}
		idx := p[i].Index
		if idx < 0 || idx >= len(*list) {
			return nil, fmt.Errorf("path element index %d out of range", idx)
		}
		elem := &(*list)[idx]
		i++

		if i >= len(p) || p[i].Kind != StepBranches {
			return nil, fmt.Errorf("malformed path at step %d: expected 'branches'", i)
		}
		i++

		if i >= len(p) || p[i].Kind != StepBranch {
			return nil, fmt.Errorf("malformed path at step %d: expected branch index", i)
		}
		branchIdx := p[i].Index
		i++

		if i >= len(p) || p[i].Kind != StepPath {
			return nil, fmt.Errorf("malformed path at step %d: expected 'path'", i)
		}
		i++

		switch elem.Type {
		case ExclusiveGateway:
			if branchIdx < 0 || branchIdx >= len(elem.ExclusiveBranches) {
				return nil, fmt.Errorf("branch index %d out of range for gateway %s", branchIdx, elem.Id)
			}
			list = &elem.ExclusiveBranches[branchIdx].Path
		case ParallelGateway:
			if branchIdx < 0 || branchIdx >= len(elem.ParallelBranches) {
				return nil, fmt.Errorf("branch index %d out of range for gateway %s", branchIdx, elem.Id)
			}
			list = &elem.ParallelBranches[branchIdx].Path
		default:
			return nil, fmt.Errorf("element %s is not a gateway", elem.Id)
		}
	}

	return list, nil
}

// AllIDs returns the ID of every element in the tree, top-level index order,
// depth-first through nested branches.
func AllIDs(process Process) []string {
	var ids []string
	var walk func([]Element)
	walk = func(elements []Element) {
		for i := range elements {
			ids = append(ids, elements[i].Id)
			switch elements[i].Type {
			case ExclusiveGateway:
				for _, b := range elements[i].ExclusiveBranches {
					walk(b.Path)
				}
			case ParallelGateway:
				for _, b := range elements[i].ParallelBranches {
					walk(b.Path)
				}
			}
		}
	}
	walk(process.Elements)
	return ids
}

// FindPosition locates the containing list and index of beforeId or afterId
// (exactly one of which must be given) per spec §4.2.
func FindPosition(process Process, beforeId, afterId string) (Path, int, error) {
	if (beforeId == "") == (afterId == "") {
		return nil, 0, Error{
			Type:   ErrorLookup,
			Title:  "invalid position",
			Detail: "exactly one of before_id or after_id must be given",
		}
	}

	targetId := beforeId
	if afterId != "" {
		targetId = afterId
	}

	prefix, idx, ok := locateElement(process.Elements, nil, targetId)
	if !ok {
		return nil, 0, Error{
			Type:   ErrorLookup,
			Title:  "unknown element",
			Detail: fmt.Sprintf("no element with id %q exists", targetId),
		}
	}

	if afterId != "" {
		idx++
	}

	return prefix, idx, nil
}

func locateElement(elements []Element, prefix Path, id string) (Path, int, bool) {
	for i := range elements {
		if elements[i].Id == id {
			return prefix, i, true
		}

		elem := &elements[i]
		switch elem.Type {
		case ExclusiveGateway:
			for j := range elem.ExclusiveBranches {
				childPrefix := appendElementGroup(prefix, i, j)
				if p, idx, ok := locateElement(elem.ExclusiveBranches[j].Path, childPrefix, id); ok {
					return p, idx, true
				}
			}
		case ParallelGateway:
			for j := range elem.ParallelBranches {
				childPrefix := appendElementGroup(prefix, i, j)
				if p, idx, ok := locateElement(elem.ParallelBranches[j].Path, childPrefix, id); ok {
					return p, idx, true
				}
			}
		}
	}
	return nil, 0, false
}

// FindBranchPosition locates the first exclusiveGateway branch with an
// exactly matching condition, searching nested gateways depth-first in
// top-level-index order (spec §4.2).
func FindBranchPosition(process Process, condition string) (Path, int, error) {
	prefix, idx, ok := locateBranch(process.Elements, nil, condition)
	if !ok {
		return nil, 0, Error{
			Type:   ErrorLookup,
			Title:  "unknown branch",
			Detail: fmt.Sprintf("no branch with condition %q exists", condition),
		}
	}
	return prefix, idx, nil
}

func locateBranch(elements []Element, prefix Path, condition string) (Path, int, bool) {
	for i := range elements {
		elem := &elements[i]

		if elem.Type == ExclusiveGateway {
			for j := range elem.ExclusiveBranches {
				if elem.ExclusiveBranches[j].Condition == condition {
					return appendBranchesGroup(prefix, i), j, true
				}
			}
			for j := range elem.ExclusiveBranches {
				childPrefix := appendElementGroup(prefix, i, j)
				if p, idx, ok := locateBranch(elem.ExclusiveBranches[j].Path, childPrefix, condition); ok {
					return p, idx, true
				}
			}
		}

		if elem.Type == ParallelGateway {
			for j := range elem.ParallelBranches {
				childPrefix := appendElementGroup(prefix, i, j)
				if p, idx, ok := locateBranch(elem.ParallelBranches[j].Path, childPrefix, condition); ok {
					return p, idx, true
				}
			}
		}
	}
	return nil, 0, false
}

// DeepClone returns an independent copy of process.
func DeepClone(process Process) Process {
	return Process{Elements: cloneElements(process.Elements)}
}

func cloneElements(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	clones := make([]Element, len(elements))
	for i, e := range elements {
		clones[i] = cloneElement(e)
	}
	return clones
}

func cloneElement(e Element) Element {
	clone := e
	clone.ExclusiveBranches = cloneExclusiveBranches(e.ExclusiveBranches)
	clone.ParallelBranches = cloneParallelBranches(e.ParallelBranches)
	return clone
}

func cloneExclusiveBranches(branches []ExclusiveBranch) []ExclusiveBranch {
	if branches == nil {
		return nil
	}
	clones := make([]ExclusiveBranch, len(branches))
	for i, b := range branches {
		clones[i] = ExclusiveBranch{Condition: b.Condition, Next: b.Next, Path: cloneElements(b.Path)}
	}
	return clones
}

func cloneParallelBranches(branches []ParallelBranch) []ParallelBranch {
	if branches == nil {
		return nil
	}
	clones := make([]ParallelBranch, len(branches))
	for i, b := range branches {
		clones[i] = ParallelBranch{Path: cloneElements(b.Path)}
	}
	return clones
}
