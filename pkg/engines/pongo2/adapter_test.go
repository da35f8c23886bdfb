package pongo2_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-tplworker/pkg/dispatch"
	"github.com/goliatone/go-tplworker/pkg/engine"
	"github.com/goliatone/go-tplworker/pkg/engines/pongo2"
	"github.com/goliatone/go-tplworker/pkg/testsupport"
)

func TestEngine_RenderString(t *testing.T) {
	e := pongo2.New("pongo2")

	cases := []struct {
		name string
		tpl  string
		want string
	}{
		{name: "expression", tpl: "{{ 7*7 }}", want: "49"},
		{name: "filter", tpl: "{{ 'a'|upper }}", want: "A"},
		{name: "literal html", tpl: "<b>hi</b>", want: "<b>hi</b>"},
		{name: "empty", tpl: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Render(context.Background(), tc.tpl)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEngine_ParseError(t *testing.T) {
	_, err := pongo2.New("pongo2").Render(context.Background(), "{% if %}")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.HasPrefix(err.Error(), "pongo2: parse template string:") {
		t.Fatalf("unexpected error prefix: %v", err)
	}
}

func TestFileEngine_RendersAndCleansUp(t *testing.T) {
	root := t.TempDir()
	e := pongo2.NewFile("pongo2_file", pongo2.WithScratchDir(root))

	got, err := e.Render(context.Background(), "{{ 6*7 }}")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "42" {
		t.Fatalf("want 42, got %q", got)
	}

	if _, err := e.Render(context.Background(), "{% endfor %}"); err == nil {
		t.Fatalf("expected parse error from file template")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read scratch root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected scratch root to be empty, found %d entries", len(entries))
	}
}

func TestFileEngine_CannotLoadItself(t *testing.T) {
	root := t.TempDir()
	e := pongo2.NewFile("pongo2_file", pongo2.WithScratchDir(root))

	cases := []struct {
		name string
		tpl  string
	}{
		{name: "include", tpl: `{% include "index.tpl" %}`},
		{name: "extends", tpl: `{% extends "index.tpl" %}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Render(context.Background(), tc.tpl)
			if err == nil && got != "" {
				t.Fatalf("expected failure or empty output, got %q", got)
			}
		})
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read scratch root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected scratch root to be empty, found %d entries", len(entries))
	}
}

func TestFileEngine_SelfReferenceLeavesOtherEnginesServing(t *testing.T) {
	d := dispatch.New(engine.NewSet(
		pongo2.NewFile("pongo2_file", pongo2.WithScratchDir(t.TempDir())),
		testsupport.Static("y", "ok"),
	))

	for _, tpl := range []string{`{% include "index.tpl" %}`, `{% extends "index.tpl" %}`, "after"} {
		resp := d.Dispatch(testsupport.Context(), tpl)
		if resp["y"] != "ok" {
			t.Fatalf("template %q: expected y to answer, got %v", tpl, resp)
		}
		if tpl == "after" && resp["pongo2_file"] != "after" {
			t.Fatalf("expected the engine to keep serving, got %q", resp["pongo2_file"])
		}
	}
}

func TestFileEngine_WithExtension(t *testing.T) {
	got, err := pongo2.NewFile("pongo2_file",
		pongo2.WithScratchDir(t.TempDir()),
		pongo2.WithExtension("html"),
	).Render(context.Background(), "{{ 'x'|upper }}")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "X" {
		t.Fatalf("want X, got %q", got)
	}
}

func TestEngine_FailureValueIsNativeMessage(t *testing.T) {
	_, err := pongo2.New("pongo2").Render(context.Background(), "{% if %}")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	value := engine.Failure(err).String()
	if strings.Contains(value, "pongo2: parse template string") {
		t.Fatalf("adapter stage leaked into response value %q", value)
	}
	if !strings.HasPrefix(value, engine.FailureMarker) {
		t.Fatalf("missing failure marker in %q", value)
	}
}
