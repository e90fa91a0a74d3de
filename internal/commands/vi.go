package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoliveira/questterm/internal/console"
	"github.com/cristianoliveira/questterm/internal/content"
	"github.com/cristianoliveira/questterm/internal/engine"
)

// Vi opens a file in an editable context.
type Vi struct {
	console *console.Console
}

func (h *Vi) Execute(ctx *engine.ExecutionContext) error {
	name := ctx.Arg(0)
	if name == "" {
		h.console.PrintLine("Specify the file to open as an argument.")
		return nil
	}

	file, ok := h.console.GetFile(name)
	if !ok {
		h.console.PrintLine(fmt.Sprintf("File %s not found", name))
		return nil
	}
	if !file.Readable && !file.Writeable {
		h.console.PrintLine(fmt.Sprintf("No permission to edit file %s", name))
		return nil
	}

	x := h.console.PushContext(console.ContextConfig{
		ShowInput:      true,
		Editable:       true,
		EditorMode:     editorMode(file),
		InitialContent: file.Content,
	})
	s := &editSession{console: h.console, ctx: x, file: *file}
	s.register()
	s.status("Editing")
	return nil
}

func editorMode(f *content.File) string {
	switch strings.ToLower(f.Ext) {
	case "js", "json", "ts":
		return "javascript"
	case "md":
		return "markdown"
	case "html":
		return "html"
	default:
		return "text"
	}
}

// editSession holds the commands of one vi context.
type editSession struct {
	console *console.Console
	ctx     *console.Context
	file    content.File
}

func (s *editSession) register() {
	s.ctx.RegisterFunc(engine.Command{Name: "w", HelpText: "Write the file."}, func(*engine.ExecutionContext) error {
		_, err := s.write()
		return err
	})
	s.ctx.RegisterFunc(engine.Command{
		Name:      "q",
		HelpText:  "Close the file.",
		Arguments: []engine.Argument{{Name: "force", HelpText: "Discard unsaved changes."}},
	}, func(ec *engine.ExecutionContext) error {
		s.quit(ec.Arg(0) == "force")
		return nil
	})
	s.ctx.RegisterFunc(engine.Command{Name: "q!", HelpText: "Close the file and discard changes."}, func(*engine.ExecutionContext) error {
		s.quit(true)
		return nil
	})
	s.ctx.RegisterFunc(engine.Command{Name: "wq", HelpText: "Write and close the file."}, func(*engine.ExecutionContext) error {
		ok, err := s.write()
		if ok {
			s.quit(true)
		}
		return err
	})
	s.ctx.RegisterFunc(engine.Command{Name: "p", HelpText: "Print the file with line numbers."}, func(*engine.ExecutionContext) error {
		s.print()
		return nil
	})
	s.ctx.RegisterFunc(engine.Command{
		Name:      "a",
		HelpText:  "Append a line.",
		Arguments: []engine.Argument{{Name: "text", Required: true, HelpText: "The text of the new line."}},
	}, func(ec *engine.ExecutionContext) error {
		s.buffer().Append(strings.Join(ec.Arguments, " "))
		s.status("Appended to")
		return nil
	})
	s.ctx.RegisterFunc(engine.Command{
		Name:      "d",
		HelpText:  "Delete a line.",
		Arguments: []engine.Argument{{Name: "line", Required: true, HelpText: "The line number, starting at 1."}},
	}, func(ec *engine.ExecutionContext) error {
		n, err := strconv.Atoi(ec.Arg(0))
		if err != nil {
			s.console.PrintLine("Usage: **d** _line_")
			return nil
		}
		if err := s.buffer().Delete(n); err != nil {
			s.console.PrintLine(err.Error())
			return nil
		}
		s.status("Deleted line " + strconv.Itoa(n) + " of")
		return nil
	})
}

func (s *editSession) buffer() *console.Buffer {
	if b := s.ctx.Buffer(); b != nil {
		return b
	}
	return console.NewBuffer("", nil)
}

// write saves the buffer and reports whether it did.
func (s *editSession) write() (bool, error) {
	if !s.file.Writeable {
		s.console.PrintLine(fmt.Sprintf("File %s is read only.", s.file.Base))
		return false, nil
	}
	b := s.buffer()
	if err := s.console.SaveFile(s.file.Base, b.Content()); err != nil {
		return false, err
	}
	b.MarkSaved()
	s.status("Written")
	return true, nil
}

func (s *editSession) quit(force bool) {
	if !force && s.buffer().Modified() {
		s.console.PrintLine("Unsaved changes. Use **q force** or **q!** to discard them.")
		return
	}
	s.console.PopContext()
}

func (s *editSession) print() {
	lines := s.buffer().Lines()
	width := len(strconv.Itoa(len(lines)))
	var b strings.Builder
	b.WriteString("```\n")
	for i, l := range lines {
		fmt.Fprintf(&b, "%*d | %s\n", width, i+1, l)
	}
	b.WriteString("```")
	s.console.PrintLine(b.String())
}

func (s *editSession) status(verb string) {
	b := s.buffer()
	mark := ""
	if b.Modified() {
		mark = " [+]"
	}
	s.console.PrintLine(fmt.Sprintf("%s **%s** (%d lines)%s", verb, s.file.Base, len(b.Lines()), mark))
}
