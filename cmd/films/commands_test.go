package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"ghibli-films-service/internal/model"
)

func TestPrintFilms_Table(t *testing.T) {
	var buf bytes.Buffer
	st := model.State{
		Films: []model.Film{
			{ID: json.Number("1"), Name: "Castle", Image: "url1", Description: "Sin descripción"},
		},
		Source: model.SourceCache,
	}
	if err := printFilms(&buf, st, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Castle") || !strings.Contains(out, "1 films (source: cache)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPrintFilms_JSON(t *testing.T) {
	var buf bytes.Buffer
	st := model.State{Films: []model.Film{{ID: "a", Name: "N", Description: "D"}}}
	if err := printFilms(&buf, st, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []model.Film
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got) != 1 || got[0].Name != "N" || got[0].Image != "" {
		t.Fatalf("unexpected films %+v", got)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"serve", "list", "show", "reload", "cache"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("missing subcommand %q: %v", name, err)
		}
	}
}
