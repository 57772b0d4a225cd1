package llm

import (
	"reflect"
	"testing"

	"google.golang.org/genai"
)

func testSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"intent": {
				Type:        "string",
				Description: "classified intent",
				Enum:        []string{"greeting", "unknown"},
			},
			"confidence": {Type: "number"},
			"topics": {
				Type:  "array",
				Items: &Schema{Type: "string"},
			},
		},
		Required: []string{"intent", "confidence"},
	}
}

func TestSchemaDoc(t *testing.T) {
	doc := schemaDoc(testSchema())

	if doc["type"] != "object" {
		t.Errorf("type = %v, want object", doc["type"])
	}
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatal("properties missing")
	}
	intent := props["intent"].(map[string]any)
	if intent["type"] != "string" {
		t.Errorf("intent type = %v, want string", intent["type"])
	}
	if !reflect.DeepEqual(doc["required"], []string{"intent", "confidence"}) {
		t.Errorf("required = %v", doc["required"])
	}
	topics := props["topics"].(map[string]any)
	items := topics["items"].(map[string]any)
	if items["type"] != "string" {
		t.Errorf("array items type = %v, want string", items["type"])
	}

	// nil schema still yields a valid empty object schema for tool params
	empty := schemaDoc(nil)
	if empty["type"] != "object" {
		t.Errorf("nil schema type = %v, want object", empty["type"])
	}
}

func TestToGeminiSchema(t *testing.T) {
	out := toGeminiSchema(testSchema())

	if out.Type != genai.TypeObject {
		t.Errorf("Type = %v, want OBJECT", out.Type)
	}
	if out.Properties["intent"].Type != genai.TypeString {
		t.Errorf("intent Type = %v, want STRING", out.Properties["intent"].Type)
	}
	if out.Properties["confidence"].Type != genai.TypeNumber {
		t.Errorf("confidence Type = %v, want NUMBER", out.Properties["confidence"].Type)
	}
	if out.Properties["topics"].Items.Type != genai.TypeString {
		t.Errorf("items Type = %v, want STRING", out.Properties["topics"].Items.Type)
	}
	if len(out.Required) != 2 {
		t.Errorf("Required = %v", out.Required)
	}
	if toGeminiSchema(nil) != nil {
		t.Error("nil schema should stay nil")
	}
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding space", "  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripJSONFences(tt.in); got != tt.want {
				t.Errorf("stripJSONFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
