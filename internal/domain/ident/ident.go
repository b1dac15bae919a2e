package ident

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies products, users and orders. Collaborators send identifiers
// either as JSON strings or JSON numbers; both decode to the same ID so that
// 1 and "1" compare equal.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

// UnmarshalJSON accepts a string, an integer or a float with no fraction.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}
