package service

import (
	"encoding/json"
	"testing"

	"ghibli-films-service/internal/model"
)

func TestNormalizeFilm_EmptyRecordGetsDefaults(t *testing.T) {
	got := NormalizeFilm(model.RawFilm{})
	want := model.Film{ID: nil, Name: "Untitled", Image: "", Description: "Sin descripción"}
	if got != want {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestNormalizeFilm_NilRecord(t *testing.T) {
	got := NormalizeFilm(nil)
	if got.Name != model.DefaultFilmName || got.Description != model.DefaultFilmDescription {
		t.Fatalf("defaults missing: %#v", got)
	}
}

func TestNormalizeFilm_ImageFallbackOrder(t *testing.T) {
	cases := []struct {
		name string
		raw  model.RawFilm
		want string
	}{
		{"image wins", model.RawFilm{"image": "A", "movie_banner": "B"}, "A"},
		{"banner only", model.RawFilm{"movie_banner": "B"}, "B"},
		{"empty image falls through", model.RawFilm{"image": "", "movie_banner": "B"}, "B"},
		{"neither", model.RawFilm{}, ""},
		{"non string image", model.RawFilm{"image": 3}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeFilm(tc.raw).Image; got != tc.want {
				t.Fatalf("image = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeFilm_CopiesFields(t *testing.T) {
	raw := model.RawFilm{
		"id":          "2baf70d1-42bb-4437-b551-e5fed5a87abe",
		"title":       "Castle in the Sky",
		"description": "The orphan Sheeta...",
		"director":    "Hayao Miyazaki",
	}
	got := NormalizeFilm(raw)
	if got.ID != "2baf70d1-42bb-4437-b551-e5fed5a87abe" {
		t.Fatalf("id = %#v", got.ID)
	}
	if got.Name != "Castle in the Sky" || got.Description != "The orphan Sheeta..." {
		t.Fatalf("unexpected film %#v", got)
	}
}

func TestNormalizeFilm_NumericIDVerbatim(t *testing.T) {
	got := NormalizeFilm(model.RawFilm{"id": json.Number("1")})
	if got.ID != json.Number("1") || got.IDString() != "1" {
		t.Fatalf("id = %#v", got.ID)
	}
}

func TestNormalizeFilms_PreservesOrder(t *testing.T) {
	raws := []model.RawFilm{{"title": "b"}, {"title": "a"}, {"title": "c"}}
	got := NormalizeFilms(raws)
	for i, name := range []string{"b", "a", "c"} {
		if got[i].Name != name {
			t.Fatalf("position %d = %q, want %q", i, got[i].Name, name)
		}
	}
	if out := NormalizeFilms(nil); out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}
