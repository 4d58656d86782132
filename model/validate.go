package model

import (
	"fmt"
	"strings"
)

// nextRef is a deferred "next" reference, checked after the full tree has
// been walked so that forward references resolve correctly.
type nextRef struct {
	Pointer string
	Id      string
}

// Validate walks the tree and checks spec §3.3 invariants 1-6, maintaining a
// running set of seen IDs for duplicate detection across nested branches. On
// the first violation it fails with a descriptive Error; it does not
// collect multiple errors.
func Validate(process Process) error {
	seen := make(map[string]struct{})
	startEventCount := 0
	var refs []nextRef

	if err := validateElements(process.Elements, true, seen, &startEventCount, &refs); err != nil {
		return err
	}

	if startEventCount != 1 {
		return Error{
			Type:   ErrorSchema,
			Title:  "invalid process",
			Detail: fmt.Sprintf("process must have exactly one top-level start event, found %d", startEventCount),
		}
	}

	for _, ref := range refs {
		if _, ok := seen[ref.Id]; !ok {
			return Error{
				Type:   ErrorLookup,
				Title:  "invalid next reference",
				Detail: fmt.Sprintf("%s refers to unknown element %q", ref.Pointer, ref.Id),
			}
		}
	}

	return nil
}

func validateElements(elements []Element, topLevel bool, seen map[string]struct{}, startEventCount *int, refs *[]nextRef) error {
	for i := range elements {
		e := &elements[i]

		if strings.TrimSpace(e.Id) == "" {
			return Error{
				Type:   ErrorSchema,
				Title:  "invalid element",
				Detail: fmt.Sprintf("element at index %d has an empty id", i),
			}
		}
		if _, duplicate := seen[e.Id]; duplicate {
			return Error{
				Type:   ErrorSchema,
				Title:  "invalid element",
				Detail: fmt.Sprintf("duplicate element id %q", e.Id),
				Causes: []ErrorCause{{Pointer: e.Id, Type: "duplicate_id", Detail: "element id must be unique across the whole tree"}},
			}
		}
		seen[e.Id] = struct{}{}

		if !e.Type.Valid() {
			return Error{
				Type:   ErrorSchema,
				Title:  "invalid element",
				Detail: fmt.Sprintf("element %s has unsupported type %q", e.Id, e.Type),
			}
		}

		switch e.Type {
		case Task, UserTask, ServiceTask:
			if strings.TrimSpace(e.Label) == "" {
				return Error{
					Type:   ErrorSchema,
					Title:  "invalid task",
					Detail: fmt.Sprintf("task %s must have a non-empty label", e.Id),
				}
			}
			if err := rejectBranches(e); err != nil {
				return err
			}
		case StartEvent:
			*startEventCount++
			if !topLevel {
				return Error{
					Type:   ErrorSchema,
					Title:  "invalid start event",
					Detail: fmt.Sprintf("start event %s must not be nested inside a branch", e.Id),
				}
			}
			if err := rejectBranches(e); err != nil {
				return err
			}
		case EndEvent:
			if err := rejectBranches(e); err != nil {
				return err
			}
		case ExclusiveGateway:
			if strings.TrimSpace(e.Label) == "" {
				return Error{
					Type:   ErrorSchema,
					Title:  "invalid gateway",
					Detail: fmt.Sprintf("exclusive gateway %s must have a non-empty label", e.Id),
				}
			}
			if e.ParallelBranches != nil {
				return Error{
					Type:   ErrorSchema,
					Title:  "invalid gateway",
					Detail: fmt.Sprintf("exclusive gateway %s must not carry parallel branches", e.Id),
				}
			}
			if len(e.ExclusiveBranches) < 2 {
				return Error{
					Type:   ErrorSchema,
					Title:  "invalid gateway",
					Detail: fmt.Sprintf("exclusive gateway %s must have at least 2 branches, has %d", e.Id, len(e.ExclusiveBranches)),
				}
			}
			for j := range e.ExclusiveBranches {
				b := &e.ExclusiveBranches[j]
				if strings.TrimSpace(b.Condition) == "" {
					return Error{
						Type:   ErrorSchema,
						Title:  "invalid branch",
						Detail: fmt.Sprintf("branch %d of gateway %s must have a non-empty condition", j, e.Id),
					}
				}
				if b.Next != "" {
					*refs = append(*refs, nextRef{
						Pointer: fmt.Sprintf("%s/branches/%d/next", e.Id, j),
						Id:      b.Next,
					})
				}
				if err := validateElements(b.Path, false, seen, startEventCount, refs); err != nil {
					return err
				}
			}
		case ParallelGateway:
			if e.ExclusiveBranches != nil {
				return Error{
					Type:   ErrorSchema,
					Title:  "invalid gateway",
					Detail: fmt.Sprintf("parallel gateway %s must not carry exclusive branches", e.Id),
				}
			}
			if len(e.ParallelBranches) < 2 {
				return Error{
					Type:   ErrorSchema,
					Title:  "invalid gateway",
					Detail: fmt.Sprintf("parallel gateway %s must have at least 2 branches, has %d", e.Id, len(e.ParallelBranches)),
				}
			}
			for j := range e.ParallelBranches {
				if err := validateElements(e.ParallelBranches[j].Path, false, seen, startEventCount, refs); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ValidateElement checks a single element (and any branches nested inside
// it) against the structural rules of spec §3.3 (3, 5, 6), in isolation
// from any surrounding tree. It is used by the Edit-Proposal Validator to
// check an element embedded in add_element/update_element arguments before
// it is spliced into a process; it does not check ID uniqueness against an
// outer tree or resolve "next" references, since neither is knowable in
// isolation.
func ValidateElement(e Element) error {
	seen := make(map[string]struct{})
	startEventCount := 0
	var refs []nextRef
	return validateElements([]Element{e}, true, seen, &startEventCount, &refs)
}

func rejectBranches(e *Element) error {
	if e.ExclusiveBranches != nil || e.ParallelBranches != nil {
		return Error{
			Type:   ErrorSchema,
			Title:  "invalid element",
			Detail: fmt.Sprintf("element %s of type %q must not carry branches", e.Id, e.Type),
		}
	}
	return nil
}
