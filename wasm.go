package rosubridge

// Memory is the part of a guest's linear memory the host reads arguments
// from and writes responses to. wazero's api.Memory satisfies it.
type Memory interface {
	// Read returns a view of byteCount bytes at offset, or false when the
	// range is outside memory.
	Read(offset, byteCount uint32) ([]byte, bool)
	// Write copies v to offset, or returns false when it does not fit.
	Write(offset uint32, v []byte) bool
	// Size is the current memory size in bytes.
	Size() uint32
}
