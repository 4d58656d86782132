// Package xmlcodec serialises a flat process to BPMN 2.0 XML and parses it
// back, grounded on the beevik/etree element-tree patterns used by the
// wider BPMN example pack's own serde layer.
package xmlcodec

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/bpmnauthor/bpmn-author/model"
	"github.com/google/uuid"
)

const (
	nsBpmn   = "http://www.omg.org/spec/BPMN/20100524/MODEL"
	nsBpmnDI = "http://www.omg.org/spec/BPMN/20100524/DI"
	nsDC     = "http://www.omg.org/spec/DD/20100524/DC"
	nsDI     = "http://www.omg.org/spec/DD/20100524/DI"

	shapeGridSize = 150
)

var elementTag = map[model.ElementType]string{
	model.Task:             "task",
	model.UserTask:         "userTask",
	model.ServiceTask:      "serviceTask",
	model.StartEvent:       "startEvent",
	model.EndEvent:         "endEvent",
	model.ExclusiveGateway: "exclusiveGateway",
	model.ParallelGateway:  "parallelGateway",
}

// Emit serialises flat as BPMN 2.0 XML, per spec §4.4. processId names the
// single process element the document carries.
func Emit(flat model.FlatProcess, processId string) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	definitions := doc.CreateElement("bpmn:definitions")
	definitions.CreateAttr("xmlns:bpmn", nsBpmn)
	definitions.CreateAttr("xmlns:bpmndi", nsBpmnDI)
	definitions.CreateAttr("xmlns:dc", nsDC)
	definitions.CreateAttr("xmlns:di", nsDI)
	definitions.CreateAttr("id", "Definitions_"+uuid.NewString())

	process := definitions.CreateElement("bpmn:process")
	process.CreateAttr("id", processId)
	process.CreateAttr("isExecutable", "false")

	for _, fe := range flat.Elements {
		tag, ok := elementTag[fe.Type]
		if !ok {
			return "", fmt.Errorf("cannot emit element %s: unsupported type %q", fe.Id, fe.Type)
		}

		el := process.CreateElement("bpmn:" + tag)
		el.CreateAttr("id", fe.Id)
		if fe.Label != "" {
			el.CreateAttr("name", fe.Label)
		}
		for _, incoming := range fe.Incoming {
			child := el.CreateElement("bpmn:incoming")
			child.SetText(incoming)
		}
		for _, outgoing := range fe.Outgoing {
			child := el.CreateElement("bpmn:outgoing")
			child.SetText(outgoing)
		}
	}

	for _, flow := range flat.Flows {
		el := process.CreateElement("bpmn:sequenceFlow")
		el.CreateAttr("id", flow.Id)
		el.CreateAttr("sourceRef", flow.SourceRef)
		el.CreateAttr("targetRef", flow.TargetRef)
		if flow.Condition != "" {
			el.CreateAttr("name", flow.Condition)
		}
	}

	emitDiagram(definitions, flat, processId)

	doc.Indent(2)
	xml, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to write BPMN document: %w", err)
	}
	return xml, nil
}

// emitDiagram appends a placeholder BPMN Diagram Interchange block so that
// downstream layout tooling has shapes/edges to relocate, per spec §4.4.
func emitDiagram(definitions *etree.Element, flat model.FlatProcess, processId string) {
	diagram := definitions.CreateElement("bpmndi:BPMNDiagram")
	diagram.CreateAttr("id", "Diagram_"+uuid.NewString())

	plane := diagram.CreateElement("bpmndi:BPMNPlane")
	plane.CreateAttr("id", "Plane_"+uuid.NewString())
	plane.CreateAttr("bpmnElement", processId)

	for i, fe := range flat.Elements {
		shape := plane.CreateElement("bpmndi:BPMNShape")
		shape.CreateAttr("id", "Shape_"+fe.Id)
		shape.CreateAttr("bpmnElement", fe.Id)

		bounds := shape.CreateElement("dc:Bounds")
		bounds.CreateAttr("x", fmt.Sprintf("%d", i*shapeGridSize))
		bounds.CreateAttr("y", "0")
		bounds.CreateAttr("width", "100")
		bounds.CreateAttr("height", "80")
	}

	for _, flow := range flat.Flows {
		edge := plane.CreateElement("bpmndi:BPMNEdge")
		edge.CreateAttr("id", "Edge_"+flow.Id)
		edge.CreateAttr("bpmnElement", flow.Id)

		for range [2]struct{}{} {
			waypoint := edge.CreateElement("di:waypoint")
			waypoint.CreateAttr("x", "0")
			waypoint.CreateAttr("y", "0")
		}
	}
}
