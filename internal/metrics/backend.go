package metrics

import (
	"context"
	"errors"
	"time"

	"saba/internal/store"
)

type instrumented struct {
	next store.Backend
	m    *Metrics
}

// InstrumentBackend wraps b so every call is counted and timed. A read of
// a kind that was never written counts as ok.
func InstrumentBackend(b store.Backend, m *Metrics) store.Backend {
	if m == nil {
		return b
	}
	return &instrumented{next: b, m: m}
}

func (i *instrumented) Read(ctx context.Context, kind store.Kind) ([]byte, error) {
	start := time.Now()
	data, err := i.next.Read(ctx, kind)
	observed := err
	if errors.Is(err, store.ErrNotExist) {
		observed = nil
	}
	i.m.observeStore(string(kind), "read", observed, time.Since(start))
	return data, err
}

func (i *instrumented) Write(ctx context.Context, kind store.Kind, data []byte) error {
	start := time.Now()
	err := i.next.Write(ctx, kind, data)
	i.m.observeStore(string(kind), "write", err, time.Since(start))
	return err
}

func (i *instrumented) Lock(ctx context.Context, kind store.Kind) (func(), error) {
	start := time.Now()
	unlock, err := i.next.Lock(ctx, kind)
	i.m.observeStore(string(kind), "lock", err, time.Since(start))
	return unlock, err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
