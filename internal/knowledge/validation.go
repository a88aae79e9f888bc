package knowledge

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Reference documents are validated against these schemas before the
// store accepts them. A document that fails validation fails the whole
// load; the engine then runs fail-closed.

const companySchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"email": {"type": "string"},
		"phone": {"type": "string"},
		"website": {"type": "string"}
	}
}`

const servicesSchema = `{
	"type": "object",
	"required": ["services"],
	"properties": {
		"services": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "name", "short_description"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1},
					"short_description": {"type": "string"},
					"keywords": {"type": "array", "items": {"type": "string"}},
					"required_for_quote": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["field", "label"],
							"properties": {
								"field": {"type": "string", "minLength": 1},
								"required": {"type": "boolean"},
								"label": {"type": "string", "minLength": 1},
								"options": {"type": "array", "items": {"type": "string"}}
							}
						}
					}
				}
			}
		}
	}
}`

// Pricing documents come in two shapes: a flat map of panel-count keys to
// prices, or a tiered array. patternProperties covers the flat shape.
const pricingSchema = `{
	"type": "object",
	"properties": {
		"tiers": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["min", "max"],
				"properties": {
					"min": {"type": "integer", "minimum": 0},
					"max": {"type": "integer", "minimum": 0},
					"job_total_usd": {"type": ["number", "null"]},
					"manual_quote": {"type": "boolean"}
				}
			}
		}
	},
	"patternProperties": {
		"^[0-9]+$": {"type": "number"}
	},
	"additionalProperties": false
}`

const hoursSchema = `{
	"type": "object",
	"required": ["schedule"],
	"properties": {
		"schedule": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["day", "open", "close"],
				"properties": {
					"day": {"type": "string", "enum": ["Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"]},
					"open": {"type": "string", "pattern": "^[0-2][0-9]:[0-5][0-9]$"},
					"close": {"type": "string", "pattern": "^[0-2][0-9]:[0-5][0-9]$"}
				}
			}
		}
	}
}`

func validateDocument(name, schema string, document []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("knowledge: validating %s: %w", name, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			errs[i] = e.String()
		}
		return fmt.Errorf("knowledge: %s is invalid: %s", name, strings.Join(errs, "; "))
	}
	return nil
}
