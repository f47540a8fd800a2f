package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Decode reads a .gkn stream, verifies the checksum, and materializes every
// tensor. The returned header carries the model type and metadata recorded
// at save time.
func Decode(r io.Reader) (map[string]*tensor.Tensor, *Header, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, nil, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, nil, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	if headerSize > maxHeaderSize {
		return nil, nil, ErrHeaderTooLarge
	}
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	var checksum [ChecksumSize]byte
	copy(checksum[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, fmt.Errorf("failed to read header JSON: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	pos := int64(FixedHeaderSize) + int64(headerSize)
	if padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment; padding > 0 {
		if _, err := io.CopyN(io.Discard, r, padding); err != nil {
			return nil, nil, fmt.Errorf("failed to skip padding: %w", err)
		}
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if !VerifyChecksum(data, checksum) {
		return nil, nil, ErrChecksumMismatch
	}

	if err := validateLayout(header.Tensors, int64(dataSize)); err != nil {
		return nil, nil, err
	}

	tensors := make(map[string]*tensor.Tensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		dtype, ok := stringToDtype(meta.DType)
		if !ok {
			return nil, nil, fmt.Errorf("tensor %q has unknown dtype %q", meta.Name, meta.DType)
		}
		shape := tensor.Shape(meta.Shape)
		t, err := tensor.New(shape, dtype)
		if err != nil {
			return nil, nil, fmt.Errorf("tensor %q has invalid shape: %w", meta.Name, err)
		}
		if int64(t.ByteSize()) != meta.Size {
			return nil, nil, fmt.Errorf("tensor %q: shape %v needs %d bytes, header says %d",
				meta.Name, shape, t.ByteSize(), meta.Size)
		}
		copy(t.Data(), data[meta.Offset:meta.Offset+meta.Size])
		tensors[meta.Name] = t
	}
	return tensors, &header, nil
}

// Load decodes the .gkn file at path.
func Load(path string) (map[string]*tensor.Tensor, *Header, error) {
	//nolint:gosec // G304: the path is caller-supplied by design
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// validateLayout rejects metadata whose offsets are negative, run past the
// data section, or overlap each other.
func validateLayout(metas []TensorMeta, dataSize int64) error {
	sorted := make([]TensorMeta, len(metas))
	copy(sorted, metas)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	var prevEnd int64
	var prevName string
	for _, meta := range sorted {
		if meta.Offset < 0 || meta.Size < 0 {
			return fmt.Errorf("%w: tensor %q", ErrNegativeOffset, meta.Name)
		}
		if meta.Offset+meta.Size > dataSize {
			return fmt.Errorf("%w: tensor %q", ErrOutOfBounds, meta.Name)
		}
		if meta.Offset < prevEnd {
			return fmt.Errorf("%w: tensors %q and %q", ErrOffsetOverlap, prevName, meta.Name)
		}
		prevEnd = meta.Offset + meta.Size
		prevName = meta.Name
	}
	return nil
}
