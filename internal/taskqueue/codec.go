package taskqueue

import (
	"bytes"
	"encoding/gob"
)

// encodePayload serializes a task payload with encoding/gob. Concrete
// payload types must be registered with gob.Register.
func encodePayload(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	iv := v
	if err := gob.NewEncoder(&buf).Encode(&iv); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodePayload reverses encodePayload.
func decodePayload(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var iv any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// encodeTask serializes a whole task, payload included.
func encodeTask(t Task) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeTask reverses encodeTask.
func decodeTask(data []byte) (*Task, error) {
	var t Task
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}
