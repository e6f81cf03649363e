// Package rosubridge is a host-callable osu! calculation and collection
// toolkit.
//
// A host, usually a WebAssembly guest or a scripting runtime, talks to the
// bridge through flat byte buffers. Every call returns either a tagged
// success payload or an error envelope, and long-lived objects are handed
// out as opaque 64-bit handles.
//
// # Architecture Overview
//
//	rosubridge/          Root package with the guest Memory interface
//	├── bridge/          Operation dispatch, handle tables, metrics
//	├── wasmhost/        wazero host module exposing the bridge to guests
//	├── calc/            Beatmap parser, difficulty and performance engine
//	├── gradual/         Object-by-object calculation sessions
//	├── collection/      collection.db model, codec and host snapshot
//	├── score/           Request normalisation (accuracy, clock rate, state)
//	├── wire/            Big-endian request and response layouts
//	├── resource/        Generation-tagged handle tables
//	├── errors/          Structured error types with wire codes
//	└── cmd/rosu/        Command line front end
//
// # Quick Start
//
// Calculate a play from Go:
//
//	b := bridge.New(bridge.WithLogger(log))
//	defer b.Close()
//
//	score := wire.EncodeScore(wire.Score{
//	    Attributes: wire.MapAttributes{Mode: wire.ModeUnspecified, Mods: calc.ParseMods("HD")},
//	    State:      &wire.ScoreState{N300: 400, N100: 12, Misses: 1, MaxCombo: 520},
//	})
//	res, err := wire.DecodePerformance(b.Calculate(beatmap, score))
//
// Expose the same operations to a guest module:
//
//	rt := wazero.NewRuntime(ctx)
//	defer rt.Close(ctx)
//
//	if _, err := wasmhost.New(b).Instantiate(ctx, rt); err != nil {
//	    log.Fatal(err)
//	}
//	guest, err := rt.Instantiate(ctx, guestWasm)
//
// # Handles
//
// Handles carry a generation in their upper 32 bits, so a released handle
// never aliases a later allocation. Zero is never a valid handle. Gradual
// sessions, collections and collection lists live in separate typed tables
// and a handle of one kind is rejected by operations on another.
//
// # Thread Safety
//
// Bridge is safe for concurrent use. A single gradual session or collection
// list must not be mutated from two goroutines at once.
package rosubridge
