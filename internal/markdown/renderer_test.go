package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevencode7/rafiq/internal/chat"
)

func TestMarkdown(t *testing.T) {
	r, err := NewRenderer(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, r.width)

	out := r.Markdown("**bold** and `code`")
	assert.Contains(t, out, "bold")
	assert.Contains(t, out, "code")

	assert.Empty(t, r.Markdown("  \n"))
}

func TestSession(t *testing.T) {
	r, err := NewRenderer(60)
	require.NoError(t, err)

	t.Run("empty chat shows the welcome", func(t *testing.T) {
		out := r.Session(chat.Session{ID: "1", Title: chat.FirstTitle})
		assert.Contains(t, out, chat.FirstTitle)
		assert.Contains(t, out, "رفيقك الصالح")
	})

	t.Run("turns in order", func(t *testing.T) {
		out := r.Session(chat.Session{ID: "1", Title: "t", Messages: []chat.Message{
			{Role: chat.RoleUser, Content: "first question"},
			{Role: chat.RoleAssistant, Content: "second answer"},
		}})
		q := strings.Index(out, "first question")
		a := strings.Index(out, "second")
		require.GreaterOrEqual(t, q, 0)
		require.GreaterOrEqual(t, a, 0)
		assert.Less(t, q, a)
		assert.NotContains(t, out, "مرحبًا")
	})
}
