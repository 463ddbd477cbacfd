package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "tool-input.json"

// compileSchema returns nil for an empty schema, which accepts any input.
func compileSchema(raw json.RawMessage) (*jsonschema.Schema, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: schema is not valid JSON", ErrInvalidSchema)
	}

	schema, err := jsonschema.CompileString(schemaResource, string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return schema, nil
}

func validateSchemaDefinition(raw json.RawMessage) error {
	_, err := compileSchema(raw)
	return err
}

// validateInput checks input against schema and returns the decoded document.
func validateInput(schemaRaw json.RawMessage, input json.RawMessage) (interface{}, error) {
	if len(bytes.TrimSpace(input)) == 0 {
		input = json.RawMessage(`{}`)
	}

	decoder := json.NewDecoder(bytes.NewReader(input))
	decoder.UseNumber()
	var doc interface{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: input must be valid JSON", ErrInvalidToolInput)
	}

	schema, err := compileSchema(schemaRaw)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return doc, nil
	}

	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToolInput, validationMessage(err))
	}
	return doc, nil
}

func validationMessage(err error) string {
	var messages []string
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		for _, cause := range leafCauses(ve) {
			location := cause.InstanceLocation
			if location == "" {
				location = "/"
			}
			messages = append(messages, location+": "+cause.Message)
		}
	}
	if len(messages) == 0 {
		return err.Error()
	}
	return strings.Join(messages, "; ")
}

func leafCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range ve.Causes {
		out = append(out, leafCauses(cause)...)
	}
	return out
}
