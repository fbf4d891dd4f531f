// Package codec defines how cache values are (de)serialized into the
// payloads a key-value engine stores.
package codec

// Codec encodes/decodes cache values to []byte for storage. Decode failures
// must be returned, not masked; the store surfaces them verbatim.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte) (any, error)
}
