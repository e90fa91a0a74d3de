// Package app wires configuration, storage and content into consoles the
// front ends run.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/cristianoliveira/questterm/internal/commands"
	"github.com/cristianoliveira/questterm/internal/config"
	"github.com/cristianoliveira/questterm/internal/console"
	"github.com/cristianoliveira/questterm/internal/content"
	qerrors "github.com/cristianoliveira/questterm/internal/errors"
	"github.com/cristianoliveira/questterm/internal/events"
	"github.com/cristianoliveira/questterm/internal/filesystem"
	"github.com/cristianoliveira/questterm/internal/logging"
	"github.com/cristianoliveira/questterm/internal/progress"
	"github.com/cristianoliveira/questterm/internal/sandbox"
	"github.com/cristianoliveira/questterm/internal/storage"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	// Home is the console disconnect returns to.
	Home string
	// ContentDir is searched before Assets.
	ContentDir string
	// Assets holds the bundled consoles.
	Assets        fs.FS
	Storage       storage.Storage
	StepDelay     time.Duration
	ScriptTimeout time.Duration
	Logger        logging.Logger
	// Sleep replaces the wait between timed steps. Nil waits for real.
	Sleep func(context.Context, time.Duration) error
}

// Session opens consoles that share storage and level progress. A console
// asking to connect elsewhere is closed and the target is remembered for
// Next.
type Session struct {
	opts     SessionOptions
	scripts  *sandbox.Engine
	progress *progress.Manager

	mu      sync.Mutex
	current *console.Console
	next    string
	hasNext bool
}

// NewSession loads the saved progress and prepares the script engine.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	if opts.Storage == nil {
		opts.Storage = storage.NewMemoryStore()
	}
	if opts.Home == "" {
		opts.Home = "intro"
	}

	s := &Session{opts: opts}
	s.scripts = sandbox.New(sandbox.WithTimeout(opts.ScriptTimeout), sandbox.WithLogger(opts.Logger))
	s.progress = progress.NewManager(opts.Storage, opts.Logger, s.levelCompleted)
	if err := s.progress.Init(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return s, nil
}

// NewSessionFromConfig builds a session from the loaded configuration.
func NewSessionFromConfig(assets fs.FS, logger logging.Logger) (*Session, error) {
	store, err := storage.NewFromConfig()
	if err != nil {
		return nil, err
	}
	return NewSession(SessionOptions{
		Home:          config.Get("console_name", "intro"),
		ContentDir:    config.Get("content_dir", ""),
		Assets:        assets,
		Storage:       store,
		StepDelay:     time.Duration(config.GetInt("step_delay_ms", 400)) * time.Millisecond,
		ScriptTimeout: time.Duration(config.GetInt("script_timeout_ms", 2000)) * time.Millisecond,
		Logger:        logger,
	})
}

// Home is the name of the first console.
func (s *Session) Home() string {
	return s.opts.Home
}

// Progress returns the level manager shared by all consoles.
func (s *Session) Progress() *progress.Manager {
	return s.progress
}

// Open creates the console for name. It is not started.
func (s *Session) Open(name string) *console.Console {
	logger := s.opts.Logger.With("console", name)
	opts := []console.Option{
		console.WithLogger(logger),
		console.WithLoader(s.load),
		console.WithSandbox(s.scripts),
		console.WithInstaller(commands.Installer{StepDelay: s.opts.StepDelay}),
		console.WithFileSystem(filesystem.NewOverlay(scopedStore{prefix: name + "/", store: s.opts.Storage}, logger)),
	}
	if s.opts.Sleep != nil {
		opts = append(opts, console.WithSleep(s.opts.Sleep))
	}
	c := console.New(opts...)
	c.RegisterAdditionalData(progress.DataName, s.progress)

	c.Events.On(events.ServerConnect, func(data any) {
		target, ok := data.(string)
		if !ok || target == "" {
			logger.Warn("server.connect without a console name", "data", data)
			return
		}
		s.handOver(c, target)
	})
	c.Events.On(events.ServerDisconnected, func(any) {
		if name == s.opts.Home {
			qerrors.NewTranscriptHandler(c).Info("You are not connected to any server.")
			return
		}
		s.handOver(c, s.opts.Home)
	})

	s.mu.Lock()
	s.current = c
	s.hasNext = false
	s.mu.Unlock()
	return c
}

// handOver records target and closes c.
func (s *Session) handOver(c *console.Console, target string) {
	s.mu.Lock()
	s.next, s.hasNext = target, true
	s.mu.Unlock()
	s.opts.Logger.Info("switching console", "to", target)
	c.Close()
}

// Next reports the console the closed one handed over to. It returns false
// when the user closed the console without connecting elsewhere.
func (s *Session) Next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.next, s.hasNext
	s.next, s.hasNext = "", false
	return name, ok
}

// Close releases the storage backend.
func (s *Session) Close() error {
	s.mu.Lock()
	c := s.current
	s.mu.Unlock()
	if c != nil {
		c.Shutdown()
	}
	return s.opts.Storage.Close()
}

func (s *Session) levelCompleted(level string) {
	s.mu.Lock()
	c := s.current
	s.mu.Unlock()
	if c == nil {
		return
	}
	qerrors.NewTranscriptHandler(c).Success(fmt.Sprintf("Level **%s** complete!", level))
	c.Events.Fire(events.LevelComplete, level)
}

// load reads name from ContentDir, falling back to the bundled assets.
func (s *Session) load(_ context.Context, name string) (*content.Content, error) {
	if s.opts.ContentDir != "" {
		c, err := content.LoadDir(s.opts.ContentDir, name)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, fs.ErrNotExist) || s.opts.Assets == nil {
			return nil, err
		}
		s.opts.Logger.Debug("console not in content dir, using bundled assets", "console", name)
	}
	if s.opts.Assets == nil {
		return nil, fmt.Errorf("app: console %q: %w", name, fs.ErrNotExist)
	}
	return content.Load(s.opts.Assets, name)
}

// scopedStore keeps the file overrides of each console apart.
type scopedStore struct {
	prefix string
	store  storage.FileStore
}

func (s scopedStore) Find(name string) (string, bool, error) { return s.store.Find(s.prefix + name) }
func (s scopedStore) Save(name, data string) error           { return s.store.Save(s.prefix+name, data) }
func (s scopedStore) Delete(name string) error               { return s.store.Delete(s.prefix + name) }
