package realtime

import (
	"context"

	"github.com/vietddude/warroom/internal/core/domain"
)

// Nop discards broadcasts when realtime is disabled.
type Nop struct{}

func (Nop) Broadcast(context.Context, *domain.Message) error { return nil }
func (Nop) Close() error                                     { return nil }
