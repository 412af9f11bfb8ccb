package archive

// schemaJSON validates the wire-format JSON a Collection serializes to
// before it is trusted to decode, so a corrupted or hand-edited
// archive fails fast with a clear error instead of panicking deep
// inside tree-builder code that assumes well-formed input.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "seq", "threads"],
  "properties": {
    "version": { "type": "integer", "minimum": 1 },
    "seq": { "type": "integer", "minimum": 0 },
    "threads": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["kind", "key", "cat", "time"],
          "properties": {
            "kind": { "type": "string" },
            "key": { "type": "string" },
            "cat": { "type": "integer" },
            "time": { "type": "integer" },
            "end": { "type": "integer" },
            "payloadType": { "type": "string" },
            "payloadBool": { "type": "boolean" },
            "payloadInt": { "type": "integer" },
            "payloadUint": { "type": "integer" },
            "payloadFloat": { "type": "number" },
            "payloadString": { "type": "string" }
          }
        }
      }
    }
  }
}`
