// Package secrets resolves template tokens against a credential store.
//
// The store is abstracted behind the Source interface so the rendering
// pipeline never shells out directly and tests can substitute an
// in-memory store. The production source wraps the 1Password CLI.
package secrets

import "context"

// Source resolves a secret reference to its value.
//
// Implementations must never log secret values.
type Source interface {
	// Name identifies the source in reports and log lines.
	Name() string
	// Resolve returns the secret value for ref. The error carries an
	// errors.ErrorCode classifying the failure (missing, timeout,
	// not signed in).
	Resolve(ctx context.Context, ref string) (string, error)
}
