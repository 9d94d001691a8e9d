package store

import (
	"context"
	"errors"
	"fmt"

	"saba/internal/core"
)

// Codec converts one kind between its persisted bytes and a typed value.
type Codec[T any] struct {
	Kind   Kind
	Empty  func() T
	Decode func(data []byte) (T, error)
	Encode func(v T) ([]byte, error)
}

// Load reads kind and decodes it. Absent data yields the empty value;
// malformed data yields a *ParseError and is never treated as empty.
func Load[T any](ctx context.Context, b Backend, c Codec[T]) (T, error) {
	data, err := b.Read(ctx, c.Kind)
	if errors.Is(err, ErrNotExist) {
		return c.Empty(), nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: read %s: %w", core.ErrPersistence, c.Kind, err)
	}
	v, err := c.Decode(data)
	if err != nil {
		var zero T
		return zero, asParseError(c.Kind, err)
	}
	return v, nil
}

// Save replaces the persisted content of kind with v.
func Save[T any](ctx context.Context, b Backend, c Codec[T], v T) error {
	unlock, err := b.Lock(ctx, c.Kind)
	if err != nil {
		return fmt.Errorf("%w: lock %s: %w", core.ErrPersistence, c.Kind, err)
	}
	defer unlock()
	return write(ctx, b, c, v)
}

// Update runs fn against the current value of kind while holding the
// kind's write lock and persists the result. Nothing is written when fn
// returns an error.
func Update[T any](ctx context.Context, b Backend, c Codec[T], fn func(*T) error) (T, error) {
	var zero T
	unlock, err := b.Lock(ctx, c.Kind)
	if err != nil {
		return zero, fmt.Errorf("%w: lock %s: %w", core.ErrPersistence, c.Kind, err)
	}
	defer unlock()

	v, err := Load(ctx, b, c)
	if err != nil {
		return zero, err
	}
	if err := fn(&v); err != nil {
		return zero, err
	}
	if err := write(ctx, b, c, v); err != nil {
		return zero, err
	}
	return v, nil
}

func write[T any](ctx context.Context, b Backend, c Codec[T], v T) error {
	data, err := c.Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.Kind, err)
	}
	if err := b.Write(ctx, c.Kind, data); err != nil {
		return fmt.Errorf("%w: write %s: %w", core.ErrPersistence, c.Kind, err)
	}
	return nil
}

func asParseError(kind Kind, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return &ParseError{Kind: kind, Err: err}
}
