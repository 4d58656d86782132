package internal

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/bpmnauthor/bpmn-author/model"
	"github.com/go-playground/validator/v10"
	json "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// argumentSchemas holds one compiled JSON schema per function name, each
// enforcing the exact argument-key shape of spec §6.4: required keys
// present, no extra keys, and exactly one of before_id/after_id where the
// function takes an xor anchor.
var argumentSchemas = compileArgumentSchemas()

func compileArgumentSchemas() map[string]*jsonschema.Schema {
	raw := map[string]string{
		model.FunctionDeleteElement: `{
			"type": "object",
			"required": ["element_id"],
			"additionalProperties": false,
			"properties": {"element_id": {"type": "string", "minLength": 1}}
		}`,
		model.FunctionRedirectBranch: `{
			"type": "object",
			"required": ["branch_condition", "next_id"],
			"additionalProperties": false,
			"properties": {
				"branch_condition": {"type": "string", "minLength": 1},
				"next_id": {"type": "string", "minLength": 1}
			}
		}`,
		model.FunctionAddElement: `{
			"type": "object",
			"required": ["element"],
			"additionalProperties": false,
			"properties": {
				"element": {"type": "object"},
				"before_id": {"type": "string", "minLength": 1},
				"after_id": {"type": "string", "minLength": 1}
			},
			"oneOf": [{"required": ["before_id"]}, {"required": ["after_id"]}]
		}`,
		model.FunctionMoveElement: `{
			"type": "object",
			"required": ["element_id"],
			"additionalProperties": false,
			"properties": {
				"element_id": {"type": "string", "minLength": 1},
				"before_id": {"type": "string", "minLength": 1},
				"after_id": {"type": "string", "minLength": 1}
			},
			"oneOf": [{"required": ["before_id"]}, {"required": ["after_id"]}]
		}`,
		model.FunctionUpdateElement: `{
			"type": "object",
			"required": ["new_element"],
			"additionalProperties": false,
			"properties": {"new_element": {"type": "object"}}
		}`,
	}

	schemas := make(map[string]*jsonschema.Schema, len(raw))
	for function, schemaJSON := range raw {
		compiler := jsonschema.NewCompiler()
		resourceName := function + ".json"
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
		if err != nil {
			panic(fmt.Sprintf("invalid built-in schema for %s: %v", function, err))
		}
		if err := compiler.AddResource(resourceName, doc); err != nil {
			panic(fmt.Sprintf("invalid built-in schema for %s: %v", function, err))
		}
		schema, err := compiler.Compile(resourceName)
		if err != nil {
			panic(fmt.Sprintf("failed to compile built-in schema for %s: %v", function, err))
		}
		schemas[function] = schema
	}
	return schemas
}

var structValidate = validator.New(validator.WithRequiredStructEnabled())

// ValidateProposal schema-checks one raw proposal and narrows it into a
// typed EditProposal, per spec §4.7. isFirst indicates whether this is the
// first proposal of an editing session, in which case a stop proposal is
// rejected.
func ValidateProposal(raw model.RawProposal, isFirst bool) (model.EditProposal, error) {
	if raw.Stop {
		if raw.Function != "" || len(raw.Arguments) != 0 {
			return model.EditProposal{}, model.Error{
				Type:   model.ErrorProposal,
				Title:  "invalid edit proposal",
				Detail: "a stop proposal must not also carry a function or arguments",
			}
		}
		if isFirst {
			return model.EditProposal{}, model.Error{
				Type:   model.ErrorProposal,
				Title:  "invalid edit proposal",
				Detail: "the first proposal of a session must not be a stop proposal",
			}
		}
		return model.EditProposal{Stop: true}, nil
	}

	schema, ok := argumentSchemas[raw.Function]
	if !ok {
		return model.EditProposal{}, model.Error{
			Type:   model.ErrorProposal,
			Title:  "invalid edit proposal",
			Detail: fmt.Sprintf("unknown function %q", raw.Function),
		}
	}

	argumentsJSON, err := json.Marshal(raw.Arguments)
	if err != nil {
		return model.EditProposal{}, model.Error{
			Type:   model.ErrorProposal,
			Title:  "invalid edit proposal",
			Detail: fmt.Sprintf("failed to marshal arguments: %v", err),
		}
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(argumentsJSON))
	if err != nil {
		return model.EditProposal{}, model.Error{
			Type:   model.ErrorProposal,
			Title:  "invalid edit proposal",
			Detail: fmt.Sprintf("failed to decode arguments: %v", err),
		}
	}

	if err := schema.Validate(instance); err != nil {
		return model.EditProposal{}, model.Error{
			Type:   model.ErrorProposal,
			Title:  "invalid edit proposal",
			Detail: fmt.Sprintf("arguments for %s are invalid: %v", raw.Function, err),
		}
	}

	proposal := model.EditProposal{Function: raw.Function}

	switch raw.Function {
	case model.FunctionDeleteElement:
		var args model.DeleteElementArgs
		if err := decodeArgs(argumentsJSON, &args); err != nil {
			return model.EditProposal{}, err
		}
		proposal.DeleteElement = &args
	case model.FunctionRedirectBranch:
		var args model.RedirectBranchArgs
		if err := decodeArgs(argumentsJSON, &args); err != nil {
			return model.EditProposal{}, err
		}
		proposal.RedirectBranch = &args
	case model.FunctionAddElement:
		var args model.AddElementArgs
		if err := decodeArgs(argumentsJSON, &args); err != nil {
			return model.EditProposal{}, err
		}
		if err := model.ValidateElement(args.Element); err != nil {
			return model.EditProposal{}, err
		}
		proposal.AddElement = &args
	case model.FunctionMoveElement:
		var args model.MoveElementArgs
		if err := decodeArgs(argumentsJSON, &args); err != nil {
			return model.EditProposal{}, err
		}
		proposal.MoveElement = &args
	case model.FunctionUpdateElement:
		var args model.UpdateElementArgs
		if err := decodeArgs(argumentsJSON, &args); err != nil {
			return model.EditProposal{}, err
		}
		if args.NewElement.Type.IsGateway() {
			return model.EditProposal{}, model.Error{
				Type:   model.ErrorProposal,
				Title:  "invalid edit proposal",
				Detail: fmt.Sprintf("update_element must not target a gateway element %s; structural edits require add_element/delete_element", args.NewElement.Id),
			}
		}
		if err := model.ValidateElement(args.NewElement); err != nil {
			return model.EditProposal{}, err
		}
		proposal.UpdateElement = &args
	}

	return proposal, nil
}

func decodeArgs(argumentsJSON []byte, target any) error {
	if err := json.Unmarshal(argumentsJSON, target); err != nil {
		return model.Error{
			Type:   model.ErrorProposal,
			Title:  "invalid edit proposal",
			Detail: fmt.Sprintf("failed to decode arguments into %s: %v", reflect.TypeOf(target).Elem().Name(), err),
		}
	}
	if err := structValidate.Struct(target); err != nil {
		return model.Error{
			Type:   model.ErrorProposal,
			Title:  "invalid edit proposal",
			Detail: fmt.Sprintf("arguments failed validation: %v", err),
		}
	}
	return nil
}
