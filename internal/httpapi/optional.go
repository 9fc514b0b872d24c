package httpapi

import (
	"bytes"
	"encoding/json"
)

// optionalUint distinguishes an absent field from an explicit null, so a
// PUT can clear a nullable foreign key.
type optionalUint struct {
	Set   bool
	Value *uint
}

func (o *optionalUint) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}

	var value uint
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}
