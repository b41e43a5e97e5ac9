package pagination

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidCursor is returned when a cursor token cannot be decoded. Callers
// should treat it as bad input from the client, never as a server fault.
var ErrInvalidCursor = errors.New("invalid pagination cursor")

// Key is the keyset position a cursor encodes. It mirrors the listing sort
// order: due date first (nil sorts after every concrete date), then creation
// time, then record id as the final tie-break.
type Key struct {
	DueDate   *time.Time `json:"due_date"`
	CreatedAt time.Time  `json:"created_at"`
	ID        string     `json:"id"`
}

// Encode serializes the key into an opaque URL-safe token
func Encode(k Key) string {
	data, err := json.Marshal(k)
	if err != nil {
		// Key contains only encodable types, this cannot happen
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a token produced by Encode. Any malformed, truncated or
// tampered token yields ErrInvalidCursor.
func Decode(token string) (Key, error) {
	data, err := base64.RawURLEncoding.Strict().DecodeString(token)
	if err != nil {
		return Key{}, ErrInvalidCursor
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var k Key
	if err := dec.Decode(&k); err != nil {
		return Key{}, ErrInvalidCursor
	}
	// Decode stops after the first JSON value; anything after it means the
	// token was not produced by Encode.
	if dec.More() {
		return Key{}, ErrInvalidCursor
	}
	if k.ID == "" || k.CreatedAt.IsZero() {
		return Key{}, ErrInvalidCursor
	}
	return k, nil
}
