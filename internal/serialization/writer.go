package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Encode writes a flat tensor map to w in .gkn format. Tensors are ordered
// by name, so encoding the same map twice produces identical bytes apart
// from the timestamp in the JSON header.
func Encode(w io.Writer, tensors map[string]*tensor.Tensor, modelType string, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	header := Header{
		FormatVersion:   FormatVersion,
		GalerkinVersion: galerkinVersion,
		ModelType:       modelType,
		CreatedAt:       time.Now().UTC(),
		Tensors:         make([]TensorMeta, 0, len(names)),
		Metadata:        metadata,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	var offset int64
	var data []byte
	for _, name := range names {
		t := tensors[name]
		size := int64(t.ByteSize())
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  dtypeToString(t.DType()),
			Shape:  []int(t.Shape()),
			Offset: offset,
			Size:   size,
		})
		data = append(data, t.Data()...)
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	checksum := ComputeChecksum(data)

	// Fixed 64-byte header: magic, version, flags, reserved, header size,
	// data size, checksum.
	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], uint32(FormatVersion))
	binary.LittleEndian.PutUint32(fixed[8:12], 0)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}

	pos := int64(FixedHeaderSize) + int64(len(headerJSON))
	if padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment; padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// Save encodes a flat tensor map into path.
func Save(path string, tensors map[string]*tensor.Tensor, modelType string, metadata map[string]string) error {
	//nolint:gosec // G304: the path is caller-supplied by design
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Encode(file, tensors, modelType, metadata); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
