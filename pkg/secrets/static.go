package secrets

import (
	"context"

	"github.com/arthur-debert/opfill/pkg/errors"
)

// StaticSource is an in-memory Source backed by a fixed map. It is
// used by tests and by validation runs that should not touch the
// external credential store.
type StaticSource struct {
	values map[string]string
}

// NewStaticSource creates a StaticSource with the given values.
func NewStaticSource(values map[string]string) *StaticSource {
	if values == nil {
		values = make(map[string]string)
	}
	return &StaticSource{values: values}
}

// Name implements Source.
func (s *StaticSource) Name() string { return "static" }

// Resolve implements Source.
func (s *StaticSource) Resolve(_ context.Context, ref string) (string, error) {
	value, ok := s.values[ref]
	if !ok {
		return "", errors.Newf(errors.ErrMissingSecret, "no value for %q", ref).
			WithDetail("ref", ref)
	}
	return value, nil
}

var _ Source = (*StaticSource)(nil)
