package wasmhost

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	rosubridge "github.com/wippyai/rosu-bridge"
	"github.com/wippyai/rosu-bridge/bridge"
	"github.com/wippyai/rosu-bridge/errors"
	"github.com/wippyai/rosu-bridge/wire"
)

// ModuleName is the import module guests link against.
const ModuleName = "rosu"

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// funcDef is one exported host function.
type funcDef struct {
	name    string
	handler api.GoModuleFunc
	params  []api.ValueType
	results []api.ValueType
}

// Host adapts a Bridge to the guest calling convention.
type Host struct {
	bridge *bridge.Bridge
	log    *zap.Logger
	funcs  []funcDef
	byName map[string]int
}

// New builds the host function table for b.
func New(b *bridge.Bridge, opts ...Option) *Host {
	h := &Host{
		bridge: b,
		log:    zap.NewNop(),
		byName: make(map[string]int),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.register()
	return h
}

// Names returns the exported function names in definition order.
func (h *Host) Names() []string {
	out := make([]string, len(h.funcs))
	for i, f := range h.funcs {
		out[i] = f.name
	}
	return out
}

// Handler returns the Go implementation of an exported function.
func (h *Host) Handler(name string) (api.GoModuleFunc, bool) {
	i, ok := h.byName[name]
	if !ok {
		return nil, false
	}
	return h.funcs[i].handler, true
}

// Instantiate registers the host module in rt. Guests importing from
// ModuleName must be instantiated afterwards.
func (h *Host) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(ModuleName)
	for _, f := range h.funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.handler, f.params, f.results).
			Export(f.name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInternal, err, "instantiate host module")
	}
	return mod, nil
}

func (h *Host) add(name string, params, results []api.ValueType, fn api.GoModuleFunc) {
	h.byName[name] = len(h.funcs)
	h.funcs = append(h.funcs, funcDef{name: name, handler: fn, params: params, results: results})
}

// define registers an operation using the output window convention. params
// lists the operation's own arguments; the window is appended.
func (h *Host) define(name string, params []api.ValueType, op func(*call) []byte) {
	window := len(params)
	full := append(append([]api.ValueType{}, params...), i32, i32)

	h.add(name, full, []api.ValueType{i32}, func(ctx context.Context, mod api.Module, stack []uint64) {
		c := &call{mod: mod, stack: stack}
		resp := op(c)
		if c.err != nil {
			resp = wire.EncodeError(c.err)
		}
		outPtr := api.DecodeU32(stack[window])
		outCap := api.DecodeI32(stack[window+1])
		stack[0] = api.EncodeI32(h.respond(name, mod, resp, outPtr, outCap))
	})
}

// respond copies resp into the guest window and returns the value the
// guest sees.
func (h *Host) respond(name string, mod api.Module, resp []byte, outPtr uint32, outCap int32) int32 {
	if outCap < 0 {
		h.log.Debug("negative output window", zap.String("func", name), zap.Int32("cap", outCap))
		return -1
	}
	if len(resp) > int(outCap) {
		h.log.Debug("response does not fit",
			zap.String("func", name),
			zap.Int("size", len(resp)),
			zap.Int32("cap", outCap),
		)
		return int32(len(resp))
	}
	mem := guestMemory(mod)
	if mem == nil || !mem.Write(outPtr, resp) {
		h.log.Debug("output window outside guest memory",
			zap.String("func", name),
			zap.Uint32("ptr", outPtr),
			zap.Int("size", len(resp)),
		)
		return -1
	}
	return int32(len(resp))
}

// guestMemory returns the module's memory, or nil when it exports none.
func guestMemory(mod api.Module) rosubridge.Memory {
	mem := mod.Memory()
	if mem == nil {
		return nil
	}
	return mem
}

// call decodes guest arguments in order. The first failure is kept and
// later reads return zero values.
type call struct {
	mod   api.Module
	stack []uint64
	pos   int
	err   error
}

func (c *call) next() uint64 {
	v := c.stack[c.pos]
	c.pos++
	return v
}

func (c *call) i32() int32 {
	return api.DecodeI32(c.next())
}

func (c *call) u32() uint32 {
	return api.DecodeU32(c.next())
}

func (c *call) handle() uint64 {
	return c.next()
}

func (c *call) fail(format string, args ...any) {
	if c.err == nil {
		c.err = errors.InvalidInput(errors.PhaseHost, fmt.Sprintf(format, args...))
	}
}

// read returns a copy of guest memory, or nil with ok false when n is
// negative.
func (c *call) read(what string) ([]byte, bool) {
	ptr := api.DecodeU32(c.next())
	n := api.DecodeI32(c.next())
	if c.err != nil || n < 0 {
		return nil, false
	}
	mem := guestMemory(c.mod)
	if mem == nil {
		c.fail("%s: guest exports no memory", what)
		return nil, false
	}
	view, ok := mem.Read(ptr, uint32(n))
	if !ok {
		c.fail("%s: range %d+%d outside guest memory", what, ptr, n)
		return nil, false
	}
	return append([]byte(nil), view...), true
}

func (c *call) bytes(what string) []byte {
	b, ok := c.read(what)
	if !ok && c.err == nil {
		c.fail("%s: negative length", what)
	}
	return b
}

func (c *call) optString(what string) *string {
	b, ok := c.read(what)
	if !ok {
		return nil
	}
	if !utf8.Valid(b) {
		c.fail("%s: not valid UTF-8", what)
		return nil
	}
	s := string(b)
	return &s
}
