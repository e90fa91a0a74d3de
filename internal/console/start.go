package console

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cristianoliveira/questterm/internal/content"
)

// ConnectView tells Start that a front end is attached. Front ends without a
// view call it right away.
func (c *Console) ConnectView() {
	c.viewOnce.Do(func() { close(c.viewReady) })
}

// Start loads the content of name and waits for the view. The root context
// and the built-in commands are installed either way; on success the content
// executables are registered and the welcome text printed. On failure the
// error is printed and returned. Later calls return the first outcome.
func (c *Console) Start(ctx context.Context, name string) error {
	c.startOnce.Do(func() {
		c.startErr = c.start(ctx, name)
	})
	return c.startErr
}

func (c *Console) start(ctx context.Context, name string) error {
	var loaded *content.Content

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		loaded, err = c.load(gctx, name)
		return err
	})
	g.Go(func() error {
		select {
		case <-c.viewReady:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	err := g.Wait()

	root := c.PushContext(ContextConfig{ShowInput: true})
	if c.installer != nil {
		c.installer.Defaults(c, root)
	}

	if err != nil {
		c.logger.Error("console start failed", "console", name, "error", err)
		c.PrintLine(err.Error())
		return err
	}

	c.fs.Init(loaded.Files)
	if c.installer != nil {
		c.installer.Executables(c, root, loaded.Executables)
	}
	if loaded.Welcome != "" {
		c.PrintLine(loaded.Welcome)
	}
	c.logger.Info("console started", "console", name, "files", len(loaded.Files), "executables", len(loaded.Executables))
	return nil
}
