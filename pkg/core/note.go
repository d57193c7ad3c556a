package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Note is the central entity of the domain.
// It is the client's cached copy of a record owned by the notes API.
type Note struct {
	ID          string
	Title       string
	Description string
	Tag         string

	// Extra holds server fields the client does not interpret (user, date, __v...).
	// They are kept verbatim so a round-trip never loses them.
	Extra map[string]json.RawMessage

	// idKey is "_id" when the id was read from that key, so encoding
	// writes it back under the same name. Empty means "id".
	idKey string
}

// Draft is the candidate payload sent on create and edit.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
}

var knownKeys = map[string]bool{
	"id":          true,
	"_id":         true,
	"title":       true,
	"description": true,
	"tag":         true,
}

// UnmarshalJSON accepts both "id" and the Mongo-style "_id" key.
func (n *Note) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	if !bytes.HasPrefix(data, []byte("{")) {
		return fmt.Errorf("note must be a JSON object")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Note
	fields := []struct {
		key string
		dst *string
	}{
		{"title", &out.Title},
		{"description", &out.Description},
		{"tag", &out.Tag},
	}
	for _, f := range fields {
		if err := decodeString(raw, f.key, f.dst); err != nil {
			return err
		}
	}

	key, err := decodeID(raw, &out.ID)
	if err != nil {
		return err
	}
	if key == "_id" {
		out.idKey = key
	}

	for k, v := range raw {
		if knownKeys[k] {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}

	*n = out
	return nil
}

// MarshalJSON emits the known fields plus every retained extra field.
// The id goes under the key it was decoded from.
func (n Note) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Extra)+4)
	for k, v := range n.Extra {
		out[k] = v
	}
	idKey := "id"
	if n.idKey != "" {
		idKey = n.idKey
	}
	out[idKey] = n.ID
	out["title"] = n.Title
	out["description"] = n.Description
	out["tag"] = n.Tag
	return json.Marshal(out)
}

// Draft returns the mutable fields of the note.
func (n Note) Draft() Draft {
	return Draft{Title: n.Title, Description: n.Description, Tag: n.Tag}
}

// Clone returns a copy that shares no map with the receiver.
func (n Note) Clone() Note {
	if n.Extra == nil {
		return n
	}
	extra := make(map[string]json.RawMessage, len(n.Extra))
	for k, v := range n.Extra {
		extra[k] = v
	}
	n.Extra = extra
	return n
}

func decodeString(raw map[string]json.RawMessage, key string, dst *string) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// decodeID prefers "id" and falls back to "_id", returning the key it used.
// Numeric ids are kept as their literal text.
func decodeID(raw map[string]json.RawMessage, dst *string) (string, error) {
	for _, key := range []string{"id", "_id"} {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			var num json.Number
			if nerr := json.Unmarshal(v, &num); nerr != nil {
				return "", fmt.Errorf("field %q: %w", key, err)
			}
			*dst = num.String()
		}
		return key, nil
	}
	return "", nil
}
