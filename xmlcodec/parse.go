package xmlcodec

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/bpmnauthor/bpmn-author/model"
)

var tagToElementType = map[string]model.ElementType{
	"task":             model.Task,
	"userTask":         model.UserTask,
	"serviceTask":      model.ServiceTask,
	"startEvent":       model.StartEvent,
	"endEvent":         model.EndEvent,
	"exclusiveGateway": model.ExclusiveGateway,
	"parallelGateway":  model.ParallelGateway,
}

// Parse decodes a BPMN 2.0 XML document into its flat representation, per
// spec §4.5. It tolerates any namespace prefix on tags, treating the last
// ":"-separated segment of a tag as the element type.
func Parse(bpmnXml string) (model.FlatProcess, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(bpmnXml); err != nil {
		return model.FlatProcess{}, model.Error{
			Type:   model.ErrorStructure,
			Title:  "invalid BPMN document",
			Detail: "failed to parse XML: " + err.Error(),
		}
	}

	process := findProcessElement(doc.Root())
	if process == nil {
		return model.FlatProcess{}, model.Error{
			Type:   model.ErrorStructure,
			Title:  "invalid BPMN document",
			Detail: "no process element found",
		}
	}

	flat := model.FlatProcess{}
	startEventCount := 0

	for _, child := range process.ChildElements() {
		localTag := localName(child)

		if localTag == "sequenceFlow" {
			flat.Flows = append(flat.Flows, model.SequenceFlow{
				Id:        attrValue(child, "id"),
				SourceRef: attrValue(child, "sourceRef"),
				TargetRef: attrValue(child, "targetRef"),
				Condition: attrValue(child, "name"),
			})
			continue
		}

		elementType, ok := tagToElementType[localTag]
		if !ok {
			continue
		}

		label := ""
		if elementType != model.ParallelGateway {
			label = attrValue(child, "name")
		}

		if elementType == model.StartEvent {
			startEventCount++
		}

		flat.Elements = append(flat.Elements, model.FlatElement{
			Id:    attrValue(child, "id"),
			Type:  elementType,
			Label: label,
		})
	}

	if startEventCount != 1 {
		return model.FlatProcess{}, model.Error{
			Type:   model.ErrorStructure,
			Title:  "invalid BPMN document",
			Detail: "process must have exactly one start event",
		}
	}

	for i := range flat.Elements {
		fe := &flat.Elements[i]
		for _, flow := range flat.Flows {
			if flow.SourceRef == fe.Id {
				fe.Outgoing = append(fe.Outgoing, flow.Id)
			}
			if flow.TargetRef == fe.Id {
				fe.Incoming = append(fe.Incoming, flow.Id)
			}
		}
	}

	return flat, nil
}

// findProcessElement walks the document for the first element whose tag
// (ignoring namespace prefix) ends in "process".
func findProcessElement(root *etree.Element) *etree.Element {
	if root == nil {
		return nil
	}
	if strings.HasSuffix(localName(root), "process") {
		return root
	}
	for _, child := range root.ChildElements() {
		if found := findProcessElement(child); found != nil {
			return found
		}
	}
	return nil
}

func localName(e *etree.Element) string {
	tag := e.Tag
	if idx := strings.LastIndex(tag, ":"); idx != -1 {
		return tag[idx+1:]
	}
	return tag
}

func attrValue(e *etree.Element, key string) string {
	if attr := e.SelectAttr(key); attr != nil {
		return attr.Value
	}
	return ""
}
