package opt

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

var jsonNull = []byte("null")

// MarshalJSON encodes the held value, or null when Missing.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.present {
		return jsonNull, nil
	}

	return json.Marshal(f.value)
}

// UnmarshalJSON always produces Value. A null decodes into the zero T, which
// keeps "explicitly null" apart from "key absent".
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	var v T
	if !bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
	}

	*f = Value(v)

	return nil
}

// MarshalYAML encodes the held value, or null when Missing.
func (f Field[T]) MarshalYAML() (any, error) {
	if !f.present {
		return nil, nil
	}

	return f.value, nil
}

// UnmarshalYAML produces Value for any non-null node. yaml.v3 never hands a
// null node to an unmarshaler, so null decodes as Missing.
func (f *Field[T]) UnmarshalYAML(node *yaml.Node) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}

	*f = Value(v)

	return nil
}
