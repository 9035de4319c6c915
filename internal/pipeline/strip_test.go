package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spamguard/internal/pipeline"
)

func TestStripMarkup(t *testing.T) {
	t.Run("Tags Removed", func(t *testing.T) {
		assert.Equal(t, "buy pills now", pipeline.StripMarkup(`<p>buy <b>pills</b> now</p>`))
	})

	t.Run("Markup Only Is Empty", func(t *testing.T) {
		assert.Equal(t, "", pipeline.StripMarkup(`<p>  </p><br><img src="x.png">`))
	})

	t.Run("Plain Text Unchanged", func(t *testing.T) {
		assert.Equal(t, "hello world", pipeline.StripMarkup("hello world"))
	})

	t.Run("Entities Unescaped", func(t *testing.T) {
		assert.Equal(t, "a & b", pipeline.StripMarkup("a &amp; b"))
	})

	t.Run("Whitespace Trimmed", func(t *testing.T) {
		assert.Equal(t, "text", pipeline.StripMarkup("  text \n"))
	})
}
