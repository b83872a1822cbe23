package secrets

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/logging"
)

// DefaultTimeout bounds a single credential-store call. It keeps an
// interactive sign-in prompt from hanging a whole batch.
const DefaultTimeout = 10 * time.Second

// OpCLI resolves secrets through the 1Password CLI (`op read`). One
// synchronous process call is made per resolution.
type OpCLI struct {
	// Account selects the op account to query. Optional.
	Account string
	// Vault is the vault used when the ref is a bare token name
	// rather than a full op:// reference.
	Vault string
	// Field is the item field read for bare token names. Defaults to
	// "password".
	Field string
	// Timeout bounds the external call. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Name implements Source.
func (o *OpCLI) Name() string { return "op" }

// Resolve implements Source. A bare token name NAME is read as
// op://<vault>/NAME/<field>; refs that are already op:// URIs pass
// through unchanged.
func (o *OpCLI) Resolve(ctx context.Context, ref string) (string, error) {
	logger := logging.GetLogger("secrets.op")

	uri := o.uri(ref)

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"read", "--no-newline", uri}
	if o.Account != "" {
		args = append(args, "--account", o.Account)
	}

	cmd := exec.CommandContext(ctx, "op", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		logger.Warn().Str("ref", ref).Dur("timeout", timeout).Msg("op call timed out")
		return "", errors.Newf(errors.ErrExternalTimeout,
			"op did not return within %s for %q", timeout, ref).
			WithDetail("ref", ref)
	}
	if err != nil {
		return "", classifyOpError(ref, err, stderr.String())
	}

	value := strings.TrimRight(stdout.String(), "\n")
	if value == "" {
		return "", errors.Newf(errors.ErrMissingSecret, "op returned empty value for %q", ref).
			WithDetail("ref", ref)
	}
	return value, nil
}

// uri maps a resolver ref to the op:// reference handed to `op read`.
func (o *OpCLI) uri(ref string) string {
	if strings.HasPrefix(ref, "op://") {
		return ref
	}
	field := o.Field
	if field == "" {
		field = "password"
	}
	return fmt.Sprintf("op://%s/%s/%s", o.Vault, ref, field)
}

// classifyOpError maps an op failure to an error code. Everything the
// renderer cannot act on specifically collapses to MISSING_SECRET.
func classifyOpError(ref string, err error, stderr string) error {
	lower := strings.ToLower(stderr)
	if strings.Contains(lower, "signed in") || strings.Contains(lower, "sign in") {
		return errors.Wrapf(err, errors.ErrNotSignedIn, "op account is not signed in").
			WithDetail("ref", ref)
	}

	var execErr *exec.Error
	if stderrors.As(err, &execErr) {
		return errors.Wrapf(err, errors.ErrMissingSecret, "op binary not available").
			WithDetail("ref", ref)
	}

	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = err.Error()
	}
	return errors.Wrapf(err, errors.ErrMissingSecret, "op could not resolve %q: %s", ref, msg).
		WithDetail("ref", ref)
}

var _ Source = (*OpCLI)(nil)
