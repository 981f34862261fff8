package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a SimpleMDM resource. The API uses integers for most
// resources and strings for a few (custom attributes, logs); both decode here.
type ID string

// String returns the string form of the identifier.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if json.Valid([]byte(id)) {
		var n json.Number
		if err := json.Unmarshal([]byte(id), &n); err == nil {
			return []byte(id), nil
		}
	}
	return json.Marshal(string(id))
}

// Credential is the SimpleMDM API key. It is opaque and never printed.
type Credential string

// String redacts the credential so it cannot leak through formatting.
func (Credential) String() string { return "[redacted]" }

// Reveal returns the raw key for use in request authentication.
func (c Credential) Reveal() string { return string(c) }
