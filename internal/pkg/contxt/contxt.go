package contxt

import (
	"context"
	"os"
	"time"
)

// NewContext derives a context bounded by timeout. With CONTEXT_TEST set the timeout is
// dropped so tests stepping through a debugger are not cut short.
func NewContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if os.Getenv("CONTEXT_TEST") != "" {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
