package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is mixed into every key. Bump it when the stored result
// encoding changes so old entries miss instead of failing to decode.
const keyVersion = 1

// hashKey returns "kind:" followed by the SHA-256 of the JSON-encoded parts.
// The parts are plain strings and option structs, which always encode.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(append([]any{keyVersion}, parts...))
	return kind + ":" + Hash(data)
}

// HashJSON returns the hex SHA-256 of the JSON encoding of v. Annotations
// hash by content: map keys encode sorted, so node2words order does not
// matter, while token and edge order do.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// Hash returns the hex SHA-256 of data. FileCache uses it for file names.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
