package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Minimal(t *testing.T) {
	assert := assert.New(t)

	process := Process{Elements: []Element{
		{Id: "s1", Type: StartEvent},
		{Id: "t1", Type: Task, Label: "Do it"},
		{Id: "e1", Type: EndEvent},
	}}

	assert.NoError(Validate(process))
}

func TestValidate_DuplicateId(t *testing.T) {
	assert := assert.New(t)

	process := Process{Elements: []Element{
		{Id: "s1", Type: StartEvent},
		{Id: "s1", Type: Task, Label: "dup"},
	}}

	err := Validate(process)
	assert.Error(err)
	assert.Equal(ErrorSchema, err.(Error).Type)
}

func TestValidate_WrongStartEventCount(t *testing.T) {
	assert := assert.New(t)

	t.Run("zero", func(t *testing.T) {
		process := Process{Elements: []Element{{Id: "t1", Type: Task, Label: "x"}}}
		err := Validate(process)
		assert.Error(err)
		assert.Equal(ErrorSchema, err.(Error).Type)
	})

	t.Run("nested start event", func(t *testing.T) {
		process := Process{Elements: []Element{
			{Id: "s1", Type: StartEvent},
			{
				Id:    "g1",
				Type:  ExclusiveGateway,
				Label: "OK?",
				ExclusiveBranches: []ExclusiveBranch{
					{Condition: "yes", Path: []Element{{Id: "s2", Type: StartEvent}}},
					{Condition: "no", Path: []Element{{Id: "b", Type: Task, Label: "B"}}},
				},
			},
		}}
		err := Validate(process)
		assert.Error(err)
	})
}

func TestValidate_GatewayArity(t *testing.T) {
	assert := assert.New(t)

	process := Process{Elements: []Element{
		{Id: "s1", Type: StartEvent},
		{
			Id:    "g1",
			Type:  ExclusiveGateway,
			Label: "OK?",
			ExclusiveBranches: []ExclusiveBranch{
				{Condition: "yes", Path: nil},
			},
		},
	}}

	err := Validate(process)
	assert.Error(err)
	assert.Equal(ErrorSchema, err.(Error).Type)
}

func TestValidate_EmptyBranchCondition(t *testing.T) {
	assert := assert.New(t)

	process := Process{Elements: []Element{
		{Id: "s1", Type: StartEvent},
		{
			Id:    "g1",
			Type:  ExclusiveGateway,
			Label: "OK?",
			ExclusiveBranches: []ExclusiveBranch{
				{Condition: "", Path: nil},
				{Condition: "no", Path: nil},
			},
		},
	}}

	err := Validate(process)
	assert.Error(err)
}

func TestValidate_UnknownNextReference(t *testing.T) {
	assert := assert.New(t)

	process := Process{Elements: []Element{
		{Id: "s1", Type: StartEvent},
		{
			Id:    "g1",
			Type:  ExclusiveGateway,
			Label: "OK?",
			ExclusiveBranches: []ExclusiveBranch{
				{Condition: "yes", Next: "nope"},
				{Condition: "no", Path: []Element{{Id: "b", Type: Task, Label: "B"}}},
			},
		},
	}}

	err := Validate(process)
	assert.Error(err)
	assert.Equal(ErrorLookup, err.(Error).Type)
}

func TestValidate_GatewayTypeMismatch(t *testing.T) {
	assert := assert.New(t)

	process := Process{Elements: []Element{
		{Id: "s1", Type: StartEvent},
		{
			Id:               "g1",
			Type:             ExclusiveGateway,
			Label:            "OK?",
			ParallelBranches: []ParallelBranch{{}, {}},
		},
	}}

	err := Validate(process)
	assert.Error(err)
}

func TestValidate_EmptyTaskLabel(t *testing.T) {
	assert := assert.New(t)

	process := Process{Elements: []Element{
		{Id: "s1", Type: StartEvent},
		{Id: "t1", Type: Task, Label: "  "},
	}}

	err := Validate(process)
	assert.Error(err)
}

func TestValidate_UnsupportedType(t *testing.T) {
	assert := assert.New(t)

	process := Process{Elements: []Element{
		{Id: "s1", Type: StartEvent},
		{Id: "sp1", Type: ElementType("subProcess")},
	}}

	err := Validate(process)
	assert.Error(err)
}
