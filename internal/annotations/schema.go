package annotations

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Channel schemas are embedded rather than loaded from disk so the
// gateway does not depend on deployment layout. Each annotation file is
// an object keyed by its channel name.

const segmentSchema = `{
	"type": "object",
	"properties": {
		"start_time_offset": {"type": "number", "minimum": 0},
		"end_time_offset": {"type": "number", "minimum": 0}
	},
	"required": ["start_time_offset", "end_time_offset"]
}`

var channelSchemas = map[string]string{
	"shot": `{
		"type": "object",
		"properties": {
			"shot_annotations": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {"segment": ` + segmentSchema + `},
					"required": ["segment"]
				}
			}
		},
		"required": ["shot_annotations"]
	}`,
	"label": `{
		"type": "object",
		"properties": {
			"label_annotations": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"entity": {"type": "string"},
						"description": {"type": "string"},
						"confidence": {"type": "number"},
						"segments": {"type": "array", "items": ` + segmentSchema + `}
					},
					"required": ["description"]
				}
			}
		},
		"required": ["label_annotations"]
	}`,
	"text": `{
		"type": "object",
		"properties": {
			"text_annotations": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"text": {"type": "string"},
						"segments": {"type": "array", "items": ` + segmentSchema + `}
					},
					"required": ["text"]
				}
			}
		},
		"required": ["text_annotations"]
	}`,
	"logo": `{
		"type": "object",
		"properties": {
			"logo_annotations": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"entity": {"type": "string"},
						"description": {"type": "string"},
						"tracks": {"type": "array"}
					},
					"required": ["description"]
				}
			}
		},
		"required": ["logo_annotations"]
	}`,
	"face": `{
		"type": "object",
		"properties": {
			"face_annotations": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {"tracks": {"type": "array"}}
				}
			}
		},
		"required": ["face_annotations"]
	}`,
	"people": `{
		"type": "object",
		"properties": {
			"people_annotations": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {"tracks": {"type": "array"}}
				}
			}
		},
		"required": ["people_annotations"]
	}`,
	"speech": `{
		"type": "object",
		"properties": {
			"speech_transcriptions": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"transcript": {"type": "string"},
						"confidence": {"type": "number"},
						"words": {"type": "array"}
					},
					"required": ["transcript"]
				}
			}
		},
		"required": ["speech_transcriptions"]
	}`,
}

// SchemaValidator checks raw annotation channel documents before they
// are decoded into the bundle.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewSchemaValidator() (*SchemaValidator, error) {
	sv := &SchemaValidator{schemas: make(map[string]*gojsonschema.Schema)}
	for channel, raw := range channelSchemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile %s annotation schema: %w", channel, err)
		}
		sv.schemas[channel] = schema
	}
	return sv, nil
}

// Validate checks one channel document and returns the validation errors
// joined into a single error, or nil.
func (sv *SchemaValidator) Validate(channel string, document []byte) error {
	schema, ok := sv.schemas[channel]
	if !ok {
		return fmt.Errorf("unknown annotation channel: %s", channel)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("validate %s annotations: %w", channel, err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("invalid %s annotations: %s (%d issues)", channel, first.String(), len(result.Errors()))
	}
	return nil
}
