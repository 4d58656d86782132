package xmlcodec

import (
	"strings"
	"testing"

	"github.com/bpmnauthor/bpmn-author/model"
	"github.com/stretchr/testify/assert"
)

func TestEmit_ContainsExpectedElements(t *testing.T) {
	assert := assert.New(t)

	flat := model.FlatProcess{
		Elements: []model.FlatElement{
			{Id: "s1", Type: model.StartEvent, Outgoing: []string{"s1-t1"}},
			{Id: "t1", Type: model.Task, Label: "Do it", Incoming: []string{"s1-t1"}, Outgoing: []string{"t1-e1"}},
			{Id: "e1", Type: model.EndEvent, Incoming: []string{"t1-e1"}},
		},
		Flows: []model.SequenceFlow{
			{Id: "s1-t1", SourceRef: "s1", TargetRef: "t1"},
			{Id: "t1-e1", SourceRef: "t1", TargetRef: "e1"},
		},
	}

	xml, err := Emit(flat, "Process_1")
	assert.NoError(err)

	assert.Contains(xml, `bpmn:definitions`)
	assert.Contains(xml, `bpmn:process`)
	assert.Contains(xml, `id="Process_1"`)
	assert.Contains(xml, `bpmn:startEvent`)
	assert.Contains(xml, `id="s1"`)
	assert.Contains(xml, `bpmn:task`)
	assert.Contains(xml, `name="Do it"`)
	assert.Contains(xml, `bpmn:endEvent`)
	assert.Contains(xml, `bpmn:sequenceFlow`)
	assert.Contains(xml, `sourceRef="s1"`)
	assert.Contains(xml, `targetRef="t1"`)
	assert.Contains(xml, `bpmndi:BPMNDiagram`)
	assert.Contains(xml, `bpmndi:BPMNPlane`)
	assert.Contains(xml, `bpmndi:BPMNShape`)
	assert.Contains(xml, `bpmndi:BPMNEdge`)
}

func TestEmit_DiagramIdsAreUnique(t *testing.T) {
	assert := assert.New(t)

	flat := model.FlatProcess{Elements: []model.FlatElement{{Id: "s1", Type: model.StartEvent}}}

	first, err := Emit(flat, "Process_1")
	assert.NoError(err)
	second, err := Emit(flat, "Process_1")
	assert.NoError(err)

	assert.NotEqual(first, second, "each emission must mint fresh diagram IDs")
}

func TestEmit_RejectsUnsupportedType(t *testing.T) {
	assert := assert.New(t)

	flat := model.FlatProcess{Elements: []model.FlatElement{{Id: "x1", Type: model.ElementType("subProcess")}}}
	_, err := Emit(flat, "Process_1")
	assert.Error(err)
}

func TestEmit_OmitsEmptyLabel(t *testing.T) {
	assert := assert.New(t)

	flat := model.FlatProcess{Elements: []model.FlatElement{{Id: "s1", Type: model.StartEvent}}}
	xml, err := Emit(flat, "Process_1")
	assert.NoError(err)
	assert.False(strings.Contains(strings.Split(xml, "bpmndi:BPMNDiagram")[0], `name=`))
}
