package wasmhost

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

func (h *Host) register() {
	b := h.bridge

	h.define("calculate", []api.ValueType{i32, i32, i32, i32}, func(c *call) []byte {
		beatmap := c.bytes("beatmap")
		score := c.bytes("score")
		if c.err != nil {
			return nil
		}
		return b.Calculate(beatmap, score)
	})

	h.define("gradual_begin", []api.ValueType{i32, i32, i32, i32}, func(c *call) []byte {
		beatmap := c.bytes("beatmap")
		attrs := c.bytes("attributes")
		if c.err != nil {
			return nil
		}
		return b.GradualBegin(beatmap, attrs)
	})

	h.define("gradual_advance", []api.ValueType{i64, i32, i32}, func(c *call) []byte {
		handle := c.handle()
		score := c.bytes("score")
		if c.err != nil {
			return nil
		}
		return b.GradualAdvance(handle, score)
	})

	h.define("gradual_release", []api.ValueType{i64}, func(c *call) []byte {
		return b.GradualRelease(c.handle())
	})

	h.define("collection_create", []api.ValueType{i32, i32}, func(c *call) []byte {
		name := c.optString("name")
		if c.err != nil {
			return nil
		}
		return b.CollectionCreate(name)
	})

	h.define("collection_add_hash", []api.ValueType{i64, i32, i32}, func(c *call) []byte {
		handle := c.handle()
		hash := c.optString("hash")
		if c.err != nil {
			return nil
		}
		return b.CollectionAddHash(handle, hash)
	})

	h.define("collection_release", []api.ValueType{i64}, func(c *call) []byte {
		return b.CollectionRelease(c.handle())
	})

	h.define("list_new", []api.ValueType{i32}, func(c *call) []byte {
		return b.ListNew(c.u32())
	})

	h.define("list_load", []api.ValueType{i32, i32}, func(c *call) []byte {
		data := c.bytes("data")
		if c.err != nil {
			return nil
		}
		return b.ListLoad(data)
	})

	h.define("list_write", []api.ValueType{i64}, func(c *call) []byte {
		return b.ListWrite(c.handle())
	})

	h.define("list_read", []api.ValueType{i64}, func(c *call) []byte {
		return b.ListRead(c.handle())
	})

	h.define("list_release", []api.ValueType{i64}, func(c *call) []byte {
		return b.ListRelease(c.handle())
	})

	h.define("list_append", []api.ValueType{i64, i64}, func(c *call) []byte {
		list := c.handle()
		return b.ListAppend(list, c.handle())
	})

	h.define("list_add_collection", []api.ValueType{i64, i32, i32, i32, i32}, func(c *call) []byte {
		list := c.handle()
		name := c.optString("name")
		hashes := c.bytes("hashes")
		if c.err != nil {
			return nil
		}
		return b.ListAddCollection(list, name, hashes)
	})

	h.define("list_remove", []api.ValueType{i64, i32}, func(c *call) []byte {
		list := c.handle()
		return b.ListRemove(list, c.i32())
	})

	h.define("list_set_name", []api.ValueType{i64, i32, i32, i32}, func(c *call) []byte {
		list := c.handle()
		index := c.i32()
		name := c.optString("name")
		if c.err != nil {
			return nil
		}
		return b.ListSetName(list, index, name)
	})

	h.define("list_clear_hashes", []api.ValueType{i64, i32}, func(c *call) []byte {
		list := c.handle()
		return b.ListClearHashes(list, c.i32())
	})

	h.define("list_add_hashes", []api.ValueType{i64, i32, i32, i32}, func(c *call) []byte {
		list := c.handle()
		index := c.i32()
		hashes := c.bytes("hashes")
		if c.err != nil {
			return nil
		}
		return b.ListAddHashes(list, index, hashes)
	})

	h.define("list_append_hash", []api.ValueType{i64, i32, i32, i32}, func(c *call) []byte {
		list := c.handle()
		index := c.i32()
		hash := c.optString("hash")
		if c.err != nil {
			return nil
		}
		return b.ListAppendHash(list, index, hash)
	})

	h.define("list_insert_hash", []api.ValueType{i64, i32, i32, i32, i32}, func(c *call) []byte {
		list := c.handle()
		index := c.i32()
		at := c.i32()
		hash := c.optString("hash")
		if c.err != nil {
			return nil
		}
		return b.ListInsertHash(list, index, at, hash)
	})

	h.define("list_set_hash", []api.ValueType{i64, i32, i32, i32, i32}, func(c *call) []byte {
		list := c.handle()
		index := c.i32()
		at := c.i32()
		hash := c.optString("hash")
		if c.err != nil {
			return nil
		}
		return b.ListSetHash(list, index, at, hash)
	})

	h.define("list_remove_hash", []api.ValueType{i64, i32, i32}, func(c *call) []byte {
		list := c.handle()
		index := c.i32()
		return b.ListRemoveHash(list, index, c.i32())
	})

	h.add("reset", nil, []api.ValueType{i32}, func(_ context.Context, _ api.Module, stack []uint64) {
		stack[0] = api.EncodeI32(int32(b.Reset()))
	})

	h.add("live_handles", nil, []api.ValueType{i32}, func(_ context.Context, _ api.Module, stack []uint64) {
		stack[0] = api.EncodeI32(int32(b.LiveHandles()))
	})
}
