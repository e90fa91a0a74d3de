package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cristianoliveira/questterm/internal/console"
	"github.com/cristianoliveira/questterm/internal/content"
	"github.com/cristianoliveira/questterm/internal/engine"
	"github.com/cristianoliveira/questterm/internal/errors"
	"github.com/cristianoliveira/questterm/internal/render"
)

// Reader shows a file in its own context. The context only knows the quit
// command, named after the reader ("quit" for cat, "q" for less).
type Reader struct {
	console *console.Console
	quit    string
}

func (h *Reader) Execute(ctx *engine.ExecutionContext) error {
	name := ctx.Arg(0)
	if name == "" {
		h.console.PrintLine("a filename argument is required. use **" + h.name() + " filename** to read a file.")
		return nil
	}

	file, ok := h.console.GetFile(name)
	if !ok {
		h.console.PrintLine(fmt.Sprintf("File **%s** not found.", name))
		return nil
	}
	if !file.Readable {
		h.console.PrintLine(fmt.Sprintf("No permission to read file %s", name))
		return nil
	}

	text, err := readable(file)
	if err != nil {
		return err
	}

	x := h.console.PushContext(console.ContextConfig{ShowInput: true})
	x.RegisterFunc(engine.Command{Name: h.quit, HelpText: "Close the current file."}, func(*engine.ExecutionContext) error {
		h.console.PopContext()
		return nil
	})
	h.console.PrintLine(text)
	h.console.ScrollTop()
	return nil
}

func (h *Reader) name() string {
	if h.quit == "q" {
		return "less"
	}
	return "cat"
}

// readable renders file content as a markdown transcript line.
func readable(f *content.File) (string, error) {
	switch strings.ToLower(f.Ext) {
	case "md", "markdown":
		return f.Content, nil
	case "json":
		var out bytes.Buffer
		if err := json.Indent(&out, []byte(f.Content), "", "  "); err != nil {
			out.Reset()
			out.WriteString(strings.TrimSpace(f.Content))
		}
		return "```json\n" + out.String() + "\n```", nil
	case "html", "htm":
		return render.HTMLText(f.Content)
	default:
		return "", errors.Wrap(errors.ErrUnsupported, "file ending .%s not supported yet", f.Ext)
	}
}
