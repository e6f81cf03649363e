// Package bridge is the host-facing surface of the calculator.
//
// Every operation takes plain integers and byte buffers and returns a
// single response buffer whose first byte is always a tag:
//
//	0x00           untagged success, payload follows
//	0x01..0x08     performance result for osu, taiko, catch, mania
//	0x80|code      error envelope, i32 length + UTF-8 message
//
// Long-lived values (gradual sessions, collections and collection lists)
// stay inside the Bridge and are referenced by generation-tagged handles.
// A handle is valid from the call that returns it until the call that
// releases or consumes it; any later use fails with invalid_handle.
//
// Operations never panic across the boundary. A panic inside an operation
// is recovered and reported as an internal error.
//
// The Bridge serializes its handle bookkeeping, but values behind handles
// are not locked. Callers must not use the same handle from two goroutines
// at once.
package bridge
