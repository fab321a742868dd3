package service

import "ghibli-films-service/internal/model"

// NormalizeFilm maps a raw Ghibli API record onto the stable Film shape.
// It never fails: every missing field gets a default.
func NormalizeFilm(raw model.RawFilm) model.Film {
	film := model.Film{
		ID:          raw["id"],
		Name:        model.DefaultFilmName,
		Description: model.DefaultFilmDescription,
	}

	if title, ok := raw["title"].(string); ok {
		film.Name = title
	}
	film.Image = firstNonEmpty(raw, "image", "movie_banner")
	if desc, ok := raw["description"].(string); ok {
		film.Description = desc
	}

	return film
}

// NormalizeFilms normalizes every record, keeping source order
func NormalizeFilms(raws []model.RawFilm) []model.Film {
	films := make([]model.Film, len(raws))
	for i, raw := range raws {
		films[i] = NormalizeFilm(raw)
	}
	return films
}

func firstNonEmpty(raw model.RawFilm, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
