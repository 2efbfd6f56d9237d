package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/agentstation/bidsify/pkg/constants"
	"github.com/agentstation/bidsify/pkg/errors"
)

const draft07 = "http://json-schema.org/draft-07/schema#"

// JSONSchema returns a JSON Schema document typing every field of the
// given kinds. Keys outside the vocabulary are allowed, so documents edited
// by hand still validate. Non-string fields also accept the "n/a" marker.
func JSONSchema(kinds ...Kind) ([]byte, error) {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}

	props := make(map[string]any)
	for _, f := range FieldsFor(kinds...) {
		props[f.Name] = property(f)
	}
	doc := map[string]any{
		"$schema":              draft07,
		"title":                "bidsify " + strings.Join(names, "+") + " metadata",
		"type":                 "object",
		"properties":           props,
		"additionalProperties": true,
	}
	return json.MarshalIndent(doc, "", "  ")
}

func property(f Field) map[string]any {
	p := map[string]any{}
	if f.Description != "" {
		p["description"] = f.Description
	}
	switch f.Type {
	case FieldTypeAny:
	case FieldTypeString:
		p["type"] = "string"
	default:
		p["anyOf"] = []any{
			map[string]any{"type": string(f.Type)},
			map[string]any{"const": constants.NotApplicable},
		}
	}
	return p
}

// Validate checks record against the schema of the given kinds. Every
// violation is listed in the returned *errors.ValidationError.
func Validate(record Record, kinds ...Kind) error {
	violations, err := check(record, kinds...)
	if err != nil || len(violations) == 0 {
		return err
	}

	problems := make([]string, 0, len(violations))
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		problems = append(problems, fmt.Sprintf("%s: %s", v.Field(), v.Description()))
		fields = append(fields, topLevel(v.Field()))
	}
	return errors.NewValidationError(strings.Join(sortedUnique(fields), ","), record, strings.Join(sortedUnique(problems), "; "))
}

// Conforming returns the fields of record that satisfy the schema of the
// given kinds, and the sorted names of the fields it left out.
func Conforming(record Record, kinds ...Kind) (Record, []string, error) {
	violations, err := check(record, kinds...)
	if err != nil {
		return nil, nil, err
	}
	if len(violations) == 0 {
		return record, nil, nil
	}

	bad := make([]string, 0, len(violations))
	for _, v := range violations {
		bad = append(bad, topLevel(v.Field()))
	}
	bad = sortedUnique(bad)

	out := make(Record, len(record))
	for k, v := range record {
		if !slices.Contains(bad, k) {
			out[k] = v
		}
	}
	return out, bad, nil
}

func check(record Record, kinds ...Kind) ([]gojsonschema.ResultError, error) {
	schemaDoc, err := JSONSchema(kinds...)
	if err != nil {
		return nil, errors.WrapParse("json", "", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaDoc),
		gojsonschema.NewGoLoader(map[string]any(record)),
	)
	if err != nil {
		return nil, errors.WrapValidation("metadata", err)
	}
	return result.Errors(), nil
}

// topLevel maps a nested error path such as "ImageType.0" to its field.
func topLevel(path string) string {
	name, _, _ := strings.Cut(path, ".")
	return name
}

func sortedUnique(s []string) []string {
	sort.Strings(s)
	return slices.Compact(s)
}
