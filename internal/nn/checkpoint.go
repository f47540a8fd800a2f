package nn

import (
	"github.com/galerkin-ml/galerkin/internal/serialization"
)

// SaveRecord writes a parameter record to path in .gkn format, flattening
// the tree into dotted tensor names.
func SaveRecord(path string, params *Record, modelType string, metadata map[string]string) error {
	return serialization.Save(path, params.Flatten(), modelType, metadata)
}

// LoadRecord reads a parameter record from a .gkn file, rebuilding the tree
// from the dotted tensor names.
func LoadRecord(path string) (*Record, *serialization.Header, error) {
	flat, header, err := serialization.Load(path)
	if err != nil {
		return nil, nil, err
	}
	record, err := Unflatten(flat)
	if err != nil {
		return nil, nil, err
	}
	return record, header, nil
}
