// Package pagination implements the opaque keyset cursor used by paginated
// request listings.
//
// A cursor is the base64 encoding of a JSON key holding the last returned
// record's due date, creation time and id. Clients must treat the token as
// opaque: the only valid source of a cursor is a previous listing response.
// Decode rejects anything it did not produce with ErrInvalidCursor.
package pagination
