package serialization

import "crypto/sha256"

// ComputeChecksum returns the SHA-256 digest of the data section.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// VerifyChecksum reports whether data matches the expected digest.
func VerifyChecksum(data []byte, want [ChecksumSize]byte) bool {
	return ComputeChecksum(data) == want
}
