// Package model holds the hierarchical and flat BPMN process representations
// that the rest of the engine converts between, plus the structural
// validator and path utilities that operate on them.
package model

import (
	"fmt"

	json "github.com/json-iterator/go"
)

// ElementType is the closed sum of BPMN elements this engine understands.
// Anything outside this set fails validation (spec §6.1).
type ElementType string

const (
	Task             ElementType = "task"
	UserTask         ElementType = "userTask"
	ServiceTask      ElementType = "serviceTask"
	StartEvent       ElementType = "startEvent"
	EndEvent         ElementType = "endEvent"
	ExclusiveGateway ElementType = "exclusiveGateway"
	ParallelGateway  ElementType = "parallelGateway"
)

// Valid reports whether t is one of the recognised element tags.
func (t ElementType) Valid() bool {
	switch t {
	case Task, UserTask, ServiceTask, StartEvent, EndEvent, ExclusiveGateway, ParallelGateway:
		return true
	default:
		return false
	}
}

// IsTask reports whether t is one of the three task tags.
func (t ElementType) IsTask() bool {
	return t == Task || t == UserTask || t == ServiceTask
}

// IsGateway reports whether t is a branching element.
func (t ElementType) IsGateway() bool {
	return t == ExclusiveGateway || t == ParallelGateway
}

// Element is a node of the hierarchical process tree. It is a tagged
// variant: Type determines which of ExclusiveBranches / ParallelBranches is
// populated, mirroring the closed sum in spec §3.1.
type Element struct {
	Id    string
	Type  ElementType
	Label string

	HasJoin bool // exclusiveGateway only

	ExclusiveBranches []ExclusiveBranch // exclusiveGateway only
	ParallelBranches  []ParallelBranch  // parallelGateway only
}

// ExclusiveBranch is one outgoing path of an exclusiveGateway.
type ExclusiveBranch struct {
	Condition string
	Path      []Element
	Next      string // optional ID of an element elsewhere in the tree
}

// ParallelBranch is one outgoing path of a parallelGateway.
type ParallelBranch struct {
	Path []Element
}

// Process is an ordered list of top-level elements.
type Process struct {
	Elements []Element
}

// elementWire is the JSON wire shape of an Element (spec §6.2): branches are
// decoded into ExclusiveBranch or ParallelBranch depending on Type, since
// encoding/json and jsoniter both need the sibling "type" field resolved
// before the "branches" payload can be typed.
type elementWire struct {
	Id      string          `json:"id"`
	Type    ElementType     `json:"type"`
	Label   string          `json:"label,omitempty"`
	HasJoin bool            `json:"has_join,omitempty"`
	Branches json.RawMessage `json:"branches,omitempty"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	wire := elementWire{
		Id:      e.Id,
		Type:    e.Type,
		Label:   e.Label,
		HasJoin: e.HasJoin,
	}

	switch e.Type {
	case ExclusiveGateway:
		raw, err := json.Marshal(e.ExclusiveBranches)
		if err != nil {
			return nil, err
		}
		wire.Branches = raw
	case ParallelGateway:
		raw, err := json.Marshal(e.ParallelBranches)
		if err != nil {
			return nil, err
		}
		wire.Branches = raw
	}

	return json.Marshal(wire)
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var wire elementWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	e.Id = wire.Id
	e.Type = wire.Type
	e.Label = wire.Label
	e.HasJoin = wire.HasJoin
	e.ExclusiveBranches = nil
	e.ParallelBranches = nil

	if len(wire.Branches) == 0 {
		return nil
	}

	switch wire.Type {
	case ExclusiveGateway:
		return json.Unmarshal(wire.Branches, &e.ExclusiveBranches)
	case ParallelGateway:
		return json.Unmarshal(wire.Branches, &e.ParallelBranches)
	default:
		return fmt.Errorf("element %s of type %q must not carry branches", wire.Id, wire.Type)
	}
}

func (p Process) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Process []Element `json:"process"`
	}{Process: p.Elements})
}

func (p *Process) UnmarshalJSON(data []byte) error {
	var wire struct {
		Process []Element `json:"process"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	p.Elements = wire.Process
	return nil
}

// ParseProcess decodes the hierarchical wire JSON of spec §6.2 into a Process.
func ParseProcess(data []byte) (Process, error) {
	var p Process
	if err := json.Unmarshal(data, &p); err != nil {
		return Process{}, fmt.Errorf("failed to unmarshal process JSON: %v", err)
	}
	return p, nil
}

func (p Process) String() string {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Sprintf("<invalid process: %v>", err)
	}
	return string(data)
}
