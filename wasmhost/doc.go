// Package wasmhost exposes a bridge.Bridge to WebAssembly guests as the
// wazero host module "rosu".
//
// Byte and string arguments are passed as (ptr, len) pairs into the
// caller's exported memory. A negative length passes an absent optional
// string. Handles are i64, indices i32.
//
// Every function except live_handles ends with an (outPtr, outCap) window
// and returns the full response length as i32. The response is written
// only if it fits; otherwise nothing is written and the guest retries with
// a window of at least the returned size. Calls are not idempotent, so a
// retry repeats the operation: guests should size the window generously.
//
// Argument faults such as out-of-bounds pointers are answered with an
// invalid_input error envelope. When the output window itself is unusable
// the function returns -1.
package wasmhost
