package views

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"
)

type page struct {
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

func TestEngine_RenderFromFS(t *testing.T) {
	files := fstest.MapFS{
		"base.html":  {Data: []byte(`<h1>{{ title }}</h1>{% block body %}{% endblock %}<small>{{ site }}</small>`)},
		"child.html": {Data: []byte(`{% extends "base.html" %}{% block body %}{% for f in fields %}[{{ f }}]{% endfor %}{% endblock %}`)},
	}
	engine, err := New(WithFS(files), WithGlobalData(map[string]any{"site": "logreg"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var buf bytes.Buffer
	out, err := engine.Render("child", page{Title: "Log In", Fields: []string{"email", "password"}}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<h1>Log In</h1>[email][password]<small>logreg</small>"
	if out != want || buf.String() != want {
		t.Fatalf("render = %q (writer %q), want %q", out, buf.String(), want)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without template source")
	}
	engine, err := New(WithFS(fstest.MapFS{}), WithExtension("tpl"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.Render("missing", nil); err == nil || !strings.Contains(err.Error(), "missing.tpl") {
		t.Fatalf("expected load error naming missing.tpl, got %v", err)
	}
}

func TestEngine_NumbersRenderAsWritten(t *testing.T) {
	files := fstest.MapFS{"footer.html": {Data: []byte(`&copy; {{ year }}`)}}
	engine, err := New(WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.Render("footer", struct {
		Year int `json:"year"`
	}{Year: 2024})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "&copy; 2024" {
		t.Fatalf("render = %q", out)
	}
}
