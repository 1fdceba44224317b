package inference

import (
	"encoding/json"
	"sort"
)

type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema is the provider-neutral description of the structured response.
// Each backend converts it to its own structured-output format.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Required    []string
}

func stringSchema(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

func arrayOf(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// objectOf builds an object schema in which every property is required.
func objectOf(properties map[string]*Schema) *Schema {
	required := make([]string, 0, len(properties))
	for name := range properties {
		required = append(required, name)
	}
	sort.Strings(required)
	return &Schema{Type: TypeObject, Properties: properties, Required: required}
}

func bilingualSchema() *Schema {
	return objectOf(map[string]*Schema{
		"english": stringSchema(""),
		"chinese": stringSchema(""),
	})
}

func translatedWordSchema() *Schema {
	return objectOf(map[string]*Schema{
		"word":               stringSchema(""),
		"chineseTranslation": stringSchema(""),
	})
}

// AnalysisSchema returns the schema every analysis response must satisfy.
func AnalysisSchema() *Schema {
	return objectOf(map[string]*Schema{
		"memoryStory": bilingualSchema(),
		"groupsByMeaning": arrayOf(objectOf(map[string]*Schema{
			"groupName": bilingualSchema(),
			"words":     arrayOf(stringSchema("")),
		})),
		"groupsByPronunciation": arrayOf(objectOf(map[string]*Schema{
			"soundDescription": stringSchema(""),
			"ipa":              stringSchema(""),
			"words":            arrayOf(stringSchema("")),
		})),
		"wordDetails": arrayOf(objectOf(map[string]*Schema{
			"word":               stringSchema(""),
			"englishDefinition":  stringSchema(""),
			"chineseTranslation": stringSchema(""),
			"usageExamples":      arrayOf(bilingualSchema()),
			"derivatives":        arrayOf(translatedWordSchema()),
			"vowelSwaps":         arrayOf(translatedWordSchema()),
			"grammar": objectOf(map[string]*Schema{
				"partOfSpeech": stringSchema(""),
				"forms": arrayOf(objectOf(map[string]*Schema{
					"formName": stringSchema("The name of the grammatical form, e.g., 'Past Tense', 'Plural'."),
					"value":    stringSchema("The word in that grammatical form, e.g., 'backed', 'backs'."),
				})),
			}),
		})),
	})
}

// JSONSchema converts the schema into a JSON Schema document.
// Objects are closed with additionalProperties false.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{
		"type": string(s.Type),
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Type {
	case TypeObject:
		properties := make(map[string]any, len(s.Properties))
		for name, property := range s.Properties {
			properties[name] = property.JSONSchema()
		}
		out["properties"] = properties
		out["required"] = s.Required
		out["additionalProperties"] = false
	case TypeArray:
		out["items"] = s.Items.JSONSchema()
	}
	return out
}

// String renders the JSON Schema document, for backends that take the schema in the prompt.
func (s *Schema) String() string {
	content, err := json.MarshalIndent(s.JSONSchema(), "", "  ")
	if err != nil {
		return ""
	}
	return string(content)
}
