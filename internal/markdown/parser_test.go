package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `---
subject: "Hello there"
---
# Title

Some **bold** text.
`

func TestParseWithFrontmatter(t *testing.T) {
	p := NewParser()

	html, meta, err := p.ParseWithFrontmatter([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "Hello there", meta["subject"])
	assert.Contains(t, string(html), "<strong>bold</strong>")
	assert.NotContains(t, string(html), "subject:")
}

func TestParseWithoutFrontmatter(t *testing.T) {
	p := NewParser()

	html, meta, err := p.ParseWithFrontmatter([]byte("plain *text*"))
	require.NoError(t, err)

	assert.Empty(t, meta)
	assert.Contains(t, string(html), "<em>text</em>")
}

func TestStripFrontmatter(t *testing.T) {
	assert.Equal(t, "# Title\n\nSome **bold** text.\n", StripFrontmatter(sample))
	assert.Equal(t, "no front matter", StripFrontmatter("no front matter"))
	assert.Equal(t, "---\nunterminated", StripFrontmatter("---\nunterminated"))
}
