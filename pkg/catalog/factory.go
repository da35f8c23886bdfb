package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-tplworker/pkg/engine"
	"github.com/goliatone/go-tplworker/pkg/engines/fasttemplate"
	"github.com/goliatone/go-tplworker/pkg/engines/gostd"
	"github.com/goliatone/go-tplworker/pkg/engines/gotemplate"
	"github.com/goliatone/go-tplworker/pkg/engines/jet"
	"github.com/goliatone/go-tplworker/pkg/engines/mustache"
	"github.com/goliatone/go-tplworker/pkg/engines/pongo2"
)

// Built-in engine kinds.
const (
	KindGoText       = "text/template"
	KindGoHTML       = "html/template"
	KindGoHTMLUGC    = "html/template+bluemonday"
	KindPongo2       = "pongo2"
	KindPongo2File   = "pongo2-file"
	KindJet          = "jet"
	KindMustache     = "mustache"
	KindFastTemplate = "fasttemplate"
	KindGoTemplate   = "go-template"
)

// Env carries process-level settings factories may need.
type Env struct {
	// ScratchDir is the parent for temporary template files. Empty uses the
	// system temp directory.
	ScratchDir string
}

// Factory builds an engine for a catalog entry.
type Factory func(entry Entry, env Env) (engine.Engine, error)

// Kinds maps engine kinds to factories.
type Kinds struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewKinds returns a kind registry with the built-in factories registered.
func NewKinds() *Kinds {
	k := &Kinds{factories: make(map[string]Factory)}
	k.registerBuiltins()
	return k
}

// Register adds or replaces the factory for kind.
func (k *Kinds) Register(kind string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(kind))
	if key == "" || factory == nil {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.factories[key] = factory
}

// Lookup returns the factory for kind.
func (k *Kinds) Lookup(kind string) (Factory, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	f, ok := k.factories[strings.ToLower(strings.TrimSpace(kind))]
	return f, ok
}

// List returns the sorted registered kinds.
func (k *Kinds) List() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	kinds := make([]string, 0, len(k.factories))
	for kind := range k.factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Build constructs a registry holding one engine per catalog entry. A nil
// kinds uses NewKinds.
func Build(c Catalog, kinds *Kinds, env Env) (*engine.Registry, error) {
	if kinds == nil {
		kinds = NewKinds()
	}
	reg := engine.NewRegistry()
	for _, entry := range c.Engines {
		entry.Name = strings.TrimSpace(entry.Name)
		factory, ok := kinds.Lookup(entry.Kind)
		if !ok {
			return nil, fmt.Errorf("%w %q (engine %q)", ErrUnknownKind, entry.Kind, entry.Name)
		}
		e, err := factory(entry, env)
		if err != nil {
			return nil, fmt.Errorf("catalog: build engine %q: %w", entry.Name, err)
		}
		if err := reg.Register(e); err != nil {
			return nil, fmt.Errorf("catalog: register engine %q: %w", entry.Name, err)
		}
	}
	return reg, nil
}

func (k *Kinds) registerBuiltins() {
	k.Register(KindGoText, func(entry Entry, _ Env) (engine.Engine, error) {
		return gostd.NewText(entry.Name, gostd.WithDelims(entry.Option("left"), entry.Option("right"))), nil
	})
	k.Register(KindGoHTML, func(entry Entry, _ Env) (engine.Engine, error) {
		return gostd.NewHTML(entry.Name, gostd.WithDelims(entry.Option("left"), entry.Option("right"))), nil
	})
	k.Register(KindGoHTMLUGC, func(entry Entry, _ Env) (engine.Engine, error) {
		return gostd.NewSanitizedHTML(entry.Name, nil, gostd.WithDelims(entry.Option("left"), entry.Option("right"))), nil
	})
	k.Register(KindPongo2, func(entry Entry, _ Env) (engine.Engine, error) {
		return pongo2.New(entry.Name), nil
	})
	k.Register(KindPongo2File, func(entry Entry, env Env) (engine.Engine, error) {
		return pongo2.NewFile(entry.Name,
			pongo2.WithScratchDir(env.ScratchDir),
			pongo2.WithExtension(entry.Option("extension")),
		), nil
	})
	k.Register(KindJet, func(entry Entry, _ Env) (engine.Engine, error) {
		return jet.New(entry.Name, jet.WithDelims(entry.Option("left"), entry.Option("right"))), nil
	})
	k.Register(KindMustache, func(entry Entry, _ Env) (engine.Engine, error) {
		return mustache.New(entry.Name), nil
	})
	k.Register(KindFastTemplate, func(entry Entry, _ Env) (engine.Engine, error) {
		return fasttemplate.New(entry.Name, fasttemplate.WithTags(entry.Option("start"), entry.Option("end"))), nil
	})
	k.Register(KindGoTemplate, func(entry Entry, env Env) (engine.Engine, error) {
		return gotemplate.New(entry.Name, gotemplate.WithScratchDir(env.ScratchDir)), nil
	})
}
