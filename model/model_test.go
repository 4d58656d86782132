package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessJSONRoundTrip(t *testing.T) {
	assert := assert.New(t)

	process := Process{Elements: []Element{
		{Id: "s1", Type: StartEvent},
		{
			Id:      "g1",
			Type:    ExclusiveGateway,
			Label:   "OK?",
			HasJoin: true,
			ExclusiveBranches: []ExclusiveBranch{
				{Condition: "yes", Path: []Element{{Id: "a", Type: Task, Label: "A"}}},
				{Condition: "no", Path: []Element{{Id: "b", Type: Task, Label: "B"}}},
			},
		},
		{Id: "e1", Type: EndEvent},
	}}

	data, err := process.MarshalJSON()
	assert.NoError(err)

	var decoded Process
	assert.NoError(decoded.UnmarshalJSON(data))

	assert.Equal(process, decoded)
}

func TestElementUnmarshalJSON_RejectsBranchesOnNonGateway(t *testing.T) {
	assert := assert.New(t)

	var e Element
	err := e.UnmarshalJSON([]byte(`{"id":"t1","type":"task","label":"X","branches":[{"condition":"x","path":[]}]}`))
	assert.Error(err)
}

func TestElementTypeValid(t *testing.T) {
	assert := assert.New(t)

	assert.True(Task.Valid())
	assert.True(ExclusiveGateway.Valid())
	assert.False(ElementType("subProcess").Valid())
}
