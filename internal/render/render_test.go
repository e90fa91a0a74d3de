package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "known tag", in: "[green]ok[/green] done", want: "ok done"},
		{name: "unknown tag", in: "[purple]x[/purple]", want: "[purple]x[/purple]"},
		{name: "mismatched", in: "[red]x[/green]", want: "[red]x[/green]"},
		{name: "several", in: "[red]a[/red] [cyan]b[/cyan]", want: "a b"},
		{name: "no tags", in: "plain", want: "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.in))
		})
	}
}

func TestColorizeRemovesKnownTags(t *testing.T) {
	out := Colorize("[yellow]warning[/yellow]")
	assert.Contains(t, out, "warning")
	assert.NotContains(t, out, "[yellow]")
}

func TestPlainRenderer(t *testing.T) {
	r := New(Options{Plain: true})
	assert.Equal(t, "**bold** text", r.Line("**bold** [red]text[/red]"))
	assert.Equal(t, "a\nb", r.Lines([]string{"a", "b"}))
}

func TestNilRendererIsPlain(t *testing.T) {
	var r *Renderer
	assert.Equal(t, "x", r.Line("[green]x[/green]"))
	assert.Equal(t, "# title", r.Markdown("# title"))
}

func TestMarkdownRendering(t *testing.T) {
	r := New(Options{Style: StyleNoTTY, WordWrap: 80})
	out := r.Markdown("# Title\n\nSome **bold** words.")
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "Some **bold** words.")
	assert.False(t, strings.HasPrefix(out, "\n"))
}

func TestHTMLText(t *testing.T) {
	src := `<html><head><title>t</title><style>p{}</style></head><body>
<h1>Server  status</h1>
<p>All systems
 nominal.</p>
<ul><li>cpu ok</li><li>disk ok</li></ul>
<pre>uptime 3d</pre>
<script>alert(1)</script>
</body></html>`
	out, err := HTMLText(src)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"# Server status",
		"All systems nominal.",
		"- cpu ok",
		"- disk ok",
		"```\nuptime 3d\n```",
	}, "\n\n"), out)
}

func TestHTMLTextWithoutBlocks(t *testing.T) {
	out, err := HTMLText("<div>just   text</div>")
	require.NoError(t, err)
	assert.Equal(t, "just text", out)
}
