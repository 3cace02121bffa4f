package graph

import "errors"

// Provider failures are collapsed into these two kinds; the original
// error is logged where it happens and never leaves this package.
var (
	ErrAuthExchange = errors.New("failed to authenticate with Meta")
	ErrPublish      = errors.New("failed to publish to Meta")
)
