package loader

// Document is one side's class summary: the flattened output of an artifact
// extraction step, one entry per class.
type Document struct {
	Source  string     `json:"source" yaml:"source"`
	Classes []ClassDoc `json:"classes" yaml:"classes"`
}

// ClassDoc describes a single class.
type ClassDoc struct {
	Name       string      `json:"name" yaml:"name"`
	Obfuscated bool        `json:"obfuscated" yaml:"obfuscated"`
	Library    bool        `json:"library,omitempty" yaml:"library,omitempty"`
	Super      string      `json:"super,omitempty" yaml:"super,omitempty"`
	Interfaces []string    `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Methods    []MethodDoc `json:"methods,omitempty" yaml:"methods,omitempty"`
	Fields     []FieldDoc  `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// MethodDoc describes a method with its vars and instruction stream.
type MethodDoc struct {
	Name       string   `json:"name" yaml:"name"`
	Desc       string   `json:"desc" yaml:"desc"`
	Obfuscated bool     `json:"obfuscated" yaml:"obfuscated"`
	Args       []VarDoc `json:"args,omitempty" yaml:"args,omitempty"`
	Locals     []VarDoc `json:"locals,omitempty" yaml:"locals,omitempty"`
	Insns      []InsnDoc `json:"insns,omitempty" yaml:"insns,omitempty"`
}

// FieldDoc describes a field.
type FieldDoc struct {
	Name       string `json:"name" yaml:"name"`
	Desc       string `json:"desc" yaml:"desc"`
	Obfuscated bool   `json:"obfuscated" yaml:"obfuscated"`
}

// VarDoc describes an argument or local variable.
type VarDoc struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Type       string `json:"type" yaml:"type"`
	LvIndex    int    `json:"lvIndex" yaml:"lvIndex"`
	AsmIndex   int    `json:"asmIndex,omitempty" yaml:"asmIndex,omitempty"`
	Start      int    `json:"start,omitempty" yaml:"start,omitempty"`
	End        int    `json:"end,omitempty" yaml:"end,omitempty"`
	Obfuscated bool   `json:"obfuscated" yaml:"obfuscated"`
}

// InsnDoc describes one instruction. Kind tags the operand: type, method,
// field, var, const, string or label; an absent kind means no operand.
type InsnDoc struct {
	Op   string `json:"op" yaml:"op"`
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Val  string `json:"val,omitempty" yaml:"val,omitempty"`
}

// schemaJSON constrains summary documents before decoding. Kept permissive
// on purpose: unknown fields are ignored, structure and types are not.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["classes"],
  "properties": {
    "source": {"type": "string"},
    "classes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "obfuscated": {"type": "boolean"},
          "library": {"type": "boolean"},
          "super": {"type": "string"},
          "interfaces": {"type": "array", "items": {"type": "string"}},
          "methods": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "desc"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "desc": {"type": "string", "minLength": 3},
                "obfuscated": {"type": "boolean"},
                "args": {"type": "array", "items": {"$ref": "#/$defs/var"}},
                "locals": {"type": "array", "items": {"$ref": "#/$defs/var"}},
                "insns": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["op"],
                    "properties": {
                      "op": {"type": "string", "minLength": 1},
                      "kind": {"enum": ["type", "method", "field", "var", "const", "string", "label"]},
                      "val": {"type": "string"}
                    }
                  }
                }
              }
            }
          },
          "fields": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "desc"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "desc": {"type": "string", "minLength": 1},
                "obfuscated": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  },
  "$defs": {
    "var": {
      "type": "object",
      "required": ["type", "lvIndex"],
      "properties": {
        "name": {"type": "string"},
        "type": {"type": "string", "minLength": 1},
        "lvIndex": {"type": "integer", "minimum": 0},
        "asmIndex": {"type": "integer", "minimum": 0},
        "start": {"type": "integer", "minimum": 0},
        "end": {"type": "integer", "minimum": 0},
        "obfuscated": {"type": "boolean"}
      }
    }
  }
}`
