// Package resource provides the handle registry that keeps Go-owned values
// alive across calls from a host that can only pass integers.
//
// A host never holds a Go value directly. Every long-lived value (a gradual
// calculation session, a collection list) is stored in a table and the host
// receives an opaque 64-bit Handle. The handle is the only capability the host
// has to reach the value.
//
// # Handle Lifecycle
//
//	allocate - Insert takes ownership and returns a fresh handle
//	borrow   - Get/GetTyped validate and return the value, ownership stays
//	release  - Remove/RemoveTyped validate, take the value out, invalidate
//
// Exactly one release is expected per allocate. Any borrow or release after
// the release fails with errors.ErrInvalidHandle; it is never undefined.
//
// # Generations
//
// A handle packs a slot index and the slot's generation:
//
//	bits 63..32  generation
//	bits 31..0   slot + 1
//
// Releasing bumps the generation, so a freed slot can be reused without the
// old handle ever resolving to the new value.
//
// # Type Safety
//
// Handles are typed. A TypedTable binds a type ID to a Go type:
//
//	sessions := resource.NewTyped[*gradual.Session](table, TypeGradual)
//	h := sessions.Insert(session)
//	s, err := sessions.Borrow(h)           // ok
//	_, err = lists.Borrow(h)               // ErrInvalidHandle, wrong type
//
// # Observers
//
// Register observers to track resource lifecycle events:
//
//	table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    log.Printf("resource %#x %s", e.Handle, e.Type)
//	}))
//
// # Concurrency
//
// The table serializes its own slot bookkeeping, so operations on different
// handles are independent. Values themselves are not guarded: two goroutines
// mutating the value behind the same handle must synchronize externally, and
// releasing a handle while another goroutine still uses the borrowed value is
// a caller error.
//
// # Memory Management
//
// Nothing is garbage collected behind the host's back. A handle that is never
// released keeps its value alive until the table is closed.
package resource
