// Package completion provides the interchangeable ways of turning a
// conversation into an assistant reply.
package completion

import (
	"context"

	"github.com/sevencode7/rafiq/internal/chat"
	"github.com/sevencode7/rafiq/internal/gemini"
)

// Strategy sends a conversation somewhere and returns the assistant text.
// Any error means the caller should try the next strategy.
type Strategy interface {
	Name() string
	Complete(ctx context.Context, messages []chat.Message, meta Meta) (string, error)
}

// Meta is the grounding metadata sent alongside a conversation.
type Meta struct {
	Profile map[string]any `json:"profile"`
	Context any            `json:"context"`
}

// Direct calls the upstream model itself with a user-supplied key.
type Direct struct {
	completer gemini.Completer
}

// NewDirect wraps an upstream client.
func NewDirect(c gemini.Completer) *Direct {
	return &Direct{completer: c}
}

// Name implements Strategy.
func (d *Direct) Name() string { return "direct" }

// Complete implements Strategy.
func (d *Direct) Complete(ctx context.Context, messages []chat.Message, meta Meta) (string, error) {
	res, err := d.completer.Generate(ctx, messages, gemini.ClientGrounding(meta))
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
