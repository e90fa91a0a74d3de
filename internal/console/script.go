package console

import (
	"github.com/cristianoliveira/questterm/internal/content"
	"github.com/cristianoliveira/questterm/internal/engine"
	"github.com/cristianoliveira/questterm/internal/sandbox"
)

// RunScript runs source as the script behind exe with the arguments and
// additional data of the dispatch.
func (c *Console) RunScript(exe content.Executable, source string, ec *engine.ExecutionContext) error {
	cfg := sandbox.RunConfig{
		Scripts:      []string{source},
		Dialect:      sandbox.Dialect(exe.Dialect),
		RunNamespace: exe.RunNamespace,
		Console:      scriptConsole{c},
	}
	if ec != nil {
		cfg.Arguments = ec.Arguments
		cfg.AdditionalData = ec.Data
	}
	c.logger.Debug("running executable", "command", exe.Name, "file", exe.File)
	return c.scripts.Run(c.ctx, cfg)
}

// scriptConsole adapts Console to the script side console.
type scriptConsole struct {
	*Console
}

var _ sandbox.ScriptConsole = scriptConsole{}

func (s scriptConsole) StartContext(showInput bool) sandbox.ScriptContext {
	return scriptContext{s.PushContext(ContextConfig{ShowInput: showInput})}
}

type scriptContext struct {
	*Context
}

func (s scriptContext) Register(cmd engine.Command, handler engine.Handler, completer engine.Completer) {
	s.RegisterCommand(cmd, handler, completer)
}
