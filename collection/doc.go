// Package collection is an in-memory model of an osu! collection.db.
//
// A List is an ordered set of named collections, each holding an ordered
// list of beatmap hashes. Names and hashes are optional strings: nil is
// kept distinct from the empty string so documents round-trip exactly.
//
// Every index-addressed edit is bounds-checked and fails with an
// index_out_of_range error instead of growing the list. Edits are not
// transactional: AddHashes stops at the first bad hash and keeps what it
// already appended.
//
// Two encodings are provided. Load and Serialize speak the on-disk
// collection.db format (little-endian, ULEB128 string lengths). Snapshot
// and ReadSnapshot produce the big-endian layout used across the host
// boundary.
package collection
