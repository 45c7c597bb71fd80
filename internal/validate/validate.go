package validate

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const graphSchemaURL = "mem://schema/network-graph.schema.json"

// graphSchema describes the data of GET /api/network/graph. Positions may be
// null for stops without coordinates.
const graphSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["nodes", "edges"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "label"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "active": {"type": "boolean"},
          "x": {"type": ["number", "null"]},
          "y": {"type": ["number", "null"]}
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to"],
        "properties": {
          "from": {"type": "string", "minLength": 1},
          "to": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "weight": {"type": "number"}
        }
      }
    }
  }
}`

var (
	once    sync.Once
	schema  *jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(graphSchemaURL, strings.NewReader(graphSchema)); err != nil {
		loadErr = err
		return
	}
	s, err := c.Compile(graphSchemaURL)
	if err != nil {
		loadErr = err
		return
	}
	schema = s
}

// Graph validates a raw graph payload.
func Graph(raw []byte) error {
	once.Do(load)
	if loadErr != nil {
		return loadErr
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}
