package types

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ID is an item identifier. Upstream sources send numbers, the RSS path
// sends strings; both decode into the same textual form.
type ID string

// UnmarshalJSON accepts a JSON number or string. null leaves the ID empty.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// GenerateID derives a stable ID from a URL for items that carry none
func GenerateID(url string) ID {
	hash := sha256.Sum256([]byte(url))
	return ID(hex.EncodeToString(hash[:])[:16])
}
