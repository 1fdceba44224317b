package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/at-ishikawa/wordmemo/internal/inference"
)

var validate = validator.New()

// Parse decodes a raw AI response into a Result. The content must be exactly
// one JSON object satisfying inference.AnalysisSchema, and every analyzed word
// must be one of the requested words.
func Parse(content []byte, requested []string, prefix string) (*Result, error) {
	document, err := decodeSingle(content)
	if err != nil {
		return nil, err
	}
	if err := checkSchema(document, inference.AnalysisSchema(), "$"); err != nil {
		return nil, err
	}

	var result Result
	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("decoder.Decode > %w", err)
	}
	if err := validate.Struct(&result); err != nil {
		return nil, fmt.Errorf("validate.Struct > %w", err)
	}
	if err := checkRequestedWords(result.WordDetails, requested); err != nil {
		return nil, err
	}

	result.ID = ulid.Make()
	result.Prefix = prefix
	result.buildIndex()
	return &result, nil
}

func decodeSingle(content []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()

	var document any
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("decoder.Decode > %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, &SchemaError{Path: "$", Message: "unexpected content after the JSON value"}
	}
	return document, nil
}

func checkSchema(value any, schema *inference.Schema, path string) error {
	switch schema.Type {
	case inference.TypeObject:
		object, ok := value.(map[string]any)
		if !ok {
			return &SchemaError{Path: path, Message: "expected an object, got " + describe(value)}
		}
		for _, name := range schema.Required {
			if _, ok := object[name]; !ok {
				return &SchemaError{Path: path, Message: fmt.Sprintf("missing required field %q", name)}
			}
		}
		names := make([]string, 0, len(object))
		for name := range object {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			property, ok := schema.Properties[name]
			if !ok {
				return &SchemaError{Path: path, Message: fmt.Sprintf("unknown field %q", name)}
			}
			if err := checkSchema(object[name], property, path+"."+name); err != nil {
				return err
			}
		}
	case inference.TypeArray:
		items, ok := value.([]any)
		if !ok {
			return &SchemaError{Path: path, Message: "expected an array, got " + describe(value)}
		}
		for i, item := range items {
			if err := checkSchema(item, schema.Items, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case inference.TypeString:
		if _, ok := value.(string); !ok {
			return &SchemaError{Path: path, Message: "expected a string, got " + describe(value)}
		}
	}
	return nil
}

func describe(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func checkRequestedWords(details []WordDetail, requested []string) error {
	allowed := make(map[string]struct{}, len(requested))
	for _, word := range requested {
		allowed[strings.ToLower(word)] = struct{}{}
	}
	for i, detail := range details {
		if _, ok := allowed[strings.ToLower(detail.Word)]; !ok {
			return &SchemaError{
				Path:    fmt.Sprintf("$.wordDetails[%d].word", i),
				Message: fmt.Sprintf("%q was not requested", detail.Word),
			}
		}
	}
	return nil
}
