package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Use it when segments must be readable by tooling that only speaks
// encoding/json. Byte slices (serialized bitmaps) are base64 encoded.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for newly written segments.
var Default Codec = GoJSON{}
