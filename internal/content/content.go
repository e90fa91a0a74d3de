// Package content loads the bundle that drives a console: the welcome text,
// the executable commands backed by scripts, and the file tree.
package content

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/cristianoliveira/questterm/internal/engine"
	"gopkg.in/yaml.v3"
)

// Manifest file names tried in order. yaml.v3 reads both.
var manifestNames = []string{"content.yaml", "content.yml", "content.json"}

// Dialect is the authoring language of a script.
type Dialect string

const (
	DialectTypeScript Dialect = "typescript"
	DialectJavaScript Dialect = "javascript"
)

// File is one file of a console. Content is decoded.
type File struct {
	Name       string `yaml:"name"`
	Ext        string `yaml:"ext"`
	Base       string `yaml:"base"`
	Content    string `yaml:"content"`
	Path       string `yaml:"path"`
	Readable   bool   `yaml:"readable"`
	Writeable  bool   `yaml:"writeable"`
	Executable bool   `yaml:"executable"`
}

// Permissions renders the rwe flags the way ls shows them.
func (f File) Permissions() string {
	flag := func(set bool, c byte) byte {
		if set {
			return c
		}
		return '-'
	}
	return string([]byte{flag(f.Readable, 'r'), flag(f.Writeable, 'w'), flag(f.Executable, 'e')})
}

// Hidden reports whether the file is listed only by "ls all".
func (f File) Hidden() bool {
	return strings.HasPrefix(f.Base, ".")
}

// Executable is a command whose handler runs a script file.
type Executable struct {
	engine.Command `yaml:",inline"`
	File           string  `yaml:"file"`
	RunNamespace   string  `yaml:"runNamespace"`
	Dialect        Dialect `yaml:"dialect"`
}

// Content is a loaded console bundle.
type Content struct {
	Welcome     string
	Executables []Executable
	Files       map[string]File
}

type manifest struct {
	Welcome     string          `yaml:"welcome"`
	WelcomePath string          `yaml:"welcomePath"`
	Executables []Executable    `yaml:"executables"`
	Files       map[string]File `yaml:"files"`
}

// LoadDir loads <baseDir>/<consoleName> from disk.
func LoadDir(baseDir, consoleName string) (*Content, error) {
	return Load(os.DirFS(baseDir), consoleName)
}

// Load reads the manifest of consoleName from fsys. Inline content is
// base64; a path entry is read relative to the console directory.
func Load(fsys fs.FS, consoleName string) (*Content, error) {
	if consoleName == "" || strings.ContainsAny(consoleName, `/\`) || consoleName == ".." {
		return nil, fmt.Errorf("content: invalid console name %q", consoleName)
	}

	data, name, err := readManifest(fsys, consoleName)
	if err != nil {
		return nil, err
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", name, err)
	}

	c := &Content{Executables: m.Executables, Files: make(map[string]File, len(m.Files))}

	switch {
	case m.WelcomePath != "":
		raw, err := fs.ReadFile(fsys, path.Join(consoleName, m.WelcomePath))
		if err != nil {
			return nil, fmt.Errorf("content: welcome: %w", err)
		}
		c.Welcome = string(raw)
	case m.Welcome != "":
		if c.Welcome, err = decode(m.Welcome); err != nil {
			return nil, fmt.Errorf("content: welcome: %w", err)
		}
	}

	for key, f := range m.Files {
		f = normalize(key, f)
		if f.Path != "" {
			raw, err := fs.ReadFile(fsys, path.Join(consoleName, f.Path))
			if err != nil {
				return nil, fmt.Errorf("content: file %s: %w", key, err)
			}
			f.Content = string(raw)
		} else if f.Content, err = decode(f.Content); err != nil {
			return nil, fmt.Errorf("content: file %s: %w", key, err)
		}
		c.Files[f.Base] = f
	}

	for i, exe := range c.Executables {
		if exe.Name == "" {
			return nil, fmt.Errorf("content: executable %d has no command name", i)
		}
		if exe.Dialect == "" {
			c.Executables[i].Dialect = dialectFor(exe.File)
		}
	}
	return c, nil
}

// Names returns the base names of all files, sorted.
func (c *Content) Names() []string {
	names := make([]string, 0, len(c.Files))
	for name := range c.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func readManifest(fsys fs.FS, consoleName string) ([]byte, string, error) {
	for _, n := range manifestNames {
		p := path.Join(consoleName, n)
		data, err := fs.ReadFile(fsys, p)
		if err == nil {
			return data, p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, p, fmt.Errorf("content: read %s: %w", p, err)
		}
	}
	return nil, "", fmt.Errorf("content: console %q: %w", consoleName, fs.ErrNotExist)
}

// normalize fills name, ext and base from the manifest key when absent.
func normalize(key string, f File) File {
	if f.Base == "" {
		f.Base = key
	}
	if f.Ext == "" {
		f.Ext = strings.TrimPrefix(path.Ext(f.Base), ".")
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(f.Base, path.Ext(f.Base))
	}
	return f
}

func decode(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func dialectFor(file string) Dialect {
	switch strings.ToLower(path.Ext(file)) {
	case ".js", ".mjs":
		return DialectJavaScript
	default:
		return DialectTypeScript
	}
}
