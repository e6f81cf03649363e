// Package wire implements the fixed binary layouts exchanged with the host.
//
// All multi-byte integers are big-endian and floats are IEEE-754 binary64.
//
//	MapAttributes (21 bytes)
//	  mode:u8 | mods:i32 | clockRate:f64 | accuracy:f64
//
//	Score (21 or 49 bytes)
//	  MapAttributes | [maxCombo:i32 | geki:i32 | katu:i32 | n300:i32 | n100:i32 | n50:i32 | misses:i32]
//
//	PerformanceResult
//	  modeTag:u8 | pp:f64 | stars:f64 | maxCombo:i32 | mode-specific f64...
//	    Standard: acc, aim, speed, flashlight
//	    Taiko:    acc, difficulty
//	    Catch:    (none)
//	    Mania:    difficulty
//
//	GradualHeader
//	  modeTag:u8 | mods:i32 | handle:i64
//
//	Error
//	  0x80|kind:u8 | length:i32 | utf8
//
// Every response starts with a tag byte. Payloads without a natural tag
// (handles, serialized documents, unit results) are preceded by TagNone.
//
// Decoding never allocates long-lived state. It fails only with
// errors.ErrTruncatedInput; unknown mode bytes decode to ModeUnspecified.
// Encoding never fails.
package wire
