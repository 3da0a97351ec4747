package providers

import (
	"context"
	"errors"
)

// ErrGenerationUnauthorized is returned when the generation backend
// rejects the configured credentials.
var ErrGenerationUnauthorized = errors.New("generation backend rejected credentials")

// TextGenerator produces a raw text completion for one prompt pair.
// The output carries no format guarantee; callers run it through the
// decode package before use.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
