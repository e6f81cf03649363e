package bridge

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/wippyai/rosu-bridge/calc"
	"github.com/wippyai/rosu-bridge/collection"
	"github.com/wippyai/rosu-bridge/errors"
	"github.com/wippyai/rosu-bridge/gradual"
	"github.com/wippyai/rosu-bridge/resource"
	"github.com/wippyai/rosu-bridge/wire"
)

// Resource type IDs. A handle only resolves under the type it was
// created with.
const (
	TypeGradual uint32 = iota + 1
	TypeCollection
	TypeList
)

func typeName(id uint32) string {
	switch id {
	case TypeGradual:
		return "gradual"
	case TypeCollection:
		return "collection"
	case TypeList:
		return "list"
	default:
		return "unknown"
	}
}

// Bridge owns every value handed out to the host.
type Bridge struct {
	log     *zap.Logger
	engine  calc.Engine
	metrics *metrics

	table       *resource.UnifiedTable
	sessions    *resource.TypedTable[*gradual.Session]
	collections *resource.TypedTable[*collection.Collection]
	lists       *resource.TypedTable[*collection.List]
}

// New creates a Bridge.
func New(opts ...Option) *Bridge {
	cfg := config{
		logger:     zap.NewNop(),
		engine:     calc.NewReference(),
		registerer: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	table := resource.NewTable()
	b := &Bridge{
		log:         cfg.logger,
		engine:      cfg.engine,
		table:       table,
		sessions:    resource.NewTyped[*gradual.Session](table, TypeGradual),
		collections: resource.NewTyped[*collection.Collection](table, TypeCollection),
		lists:       resource.NewTyped[*collection.List](table, TypeList),
	}
	b.metrics = newMetrics(cfg.registerer, func() float64 {
		return float64(table.Len())
	})
	table.Subscribe(resource.ObserverFunc(b.onResourceEvent))
	return b
}

func (b *Bridge) onResourceEvent(e resource.Event) {
	if ce := b.log.Check(zap.DebugLevel, "handle "+e.Type.String()); ce != nil {
		ce.Write(
			zap.Uint64("handle", uint64(e.Handle)),
			zap.String("type", typeName(e.TypeID)),
		)
	}
}

// LiveHandles returns the number of handles not yet released.
func (b *Bridge) LiveHandles() int {
	return b.table.Len()
}

// Reset drops every live value and returns how many there were. Unlike
// Close, the bridge keeps issuing new handles afterwards.
func (b *Bridge) Reset() int {
	n := b.table.Clear()
	b.log.Debug("bridge reset", zap.Int("dropped", n))
	return n
}

// Close drops every live value. Handles issued before Close are invalid
// afterwards and no new ones are issued.
func (b *Bridge) Close() error {
	return b.table.Close()
}

// dispatch runs fn and frames its outcome. It is the only place where
// errors and panics become response envelopes.
func (b *Bridge) dispatch(op string, fn func() ([]byte, error)) (out []byte) {
	start := time.Now()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err := errors.Panic(errors.PhaseDispatch, r)
		b.log.Error("operation panicked",
			zap.String("op", op),
			zap.Any("panic", r),
			zap.Stack("stack"),
		)
		b.metrics.observe(op, string(err.Kind), time.Since(start))
		out = wire.EncodeError(err)
	}()

	payload, err := fn()
	if err != nil {
		kind := errors.KindOf(err)
		b.log.Debug("operation failed",
			zap.String("op", op),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		b.metrics.observe(op, string(kind), time.Since(start))
		return wire.EncodeError(err)
	}
	b.metrics.observe(op, outcomeOK, time.Since(start))
	return payload
}

func handleError(err error, handle uint64) error {
	if errors.KindOf(err) == errors.KindInvalidHandle {
		return err
	}
	return errors.InvalidHandle(errors.PhaseHandle, handle, err.Error())
}
