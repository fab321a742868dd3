package handler

import (
	"html/template"
	"net/http"

	"ghibli-films-service/internal/model"
	"ghibli-films-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Templates holds the browsing UI pages
var Templates = template.Must(template.New("pages").Parse(pageTemplates))

const pageTemplates = `
{{define "header"}}<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<header><nav>
<a href="/">Home</a> <a href="/characters">Characters</a> <a href="/contact">Contact</a> <a href="/game">Game</a>
</nav></header>
<main>{{end}}

{{define "footer"}}</main></body></html>{{end}}

{{define "card"}}<li>
<a href="/characters/{{.IDString}}" style="text-decoration:none;color:inherit">
<h3>{{.Name}}</h3>
{{if .Image}}<img src="{{.Image}}" alt="{{.Name}}" style="width:100%;height:auto">{{end}}
</a>
<p>{{.Description}}</p>
<div><a href="/characters/{{.IDString}}">Ver detalle</a></div>
</li>{{end}}

{{define "home"}}{{template "header" .}}<h1>Studio Ghibli</h1><p>Browse the films catalog.</p>{{template "footer" .}}{{end}}

{{define "list"}}{{template "header" .}}
<h1>Films</h1>
<form method="post" action="/characters/reload"><button type="submit">Recargar</button></form>
{{if .Loading}}<p>Cargando...</p>{{end}}
{{if .Error}}<p role="alert">Error: {{.Error}}</p>{{end}}
<ul>{{range .Films}}{{template "card" .}}{{end}}</ul>
{{template "footer" .}}{{end}}

{{define "detail"}}{{template "header" .}}
{{with .Film}}<h1>{{.Name}}</h1>
{{if .Image}}<img src="{{.Image}}" alt="{{.Name}}" style="max-width:100%">{{end}}
<p>{{.Description}}</p>{{end}}
<a href="/characters">Volver</a>
{{template "footer" .}}{{end}}

{{define "notfound"}}{{template "header" .}}<h1>No encontrada</h1>{{if .Loading}}<p>Cargando...</p>{{end}}<a href="/characters">Volver</a>{{template "footer" .}}{{end}}

{{define "static"}}{{template "header" .}}<h1>{{.Title}}</h1>{{template "footer" .}}{{end}}
`

// PagesHandler renders the browsing UI
type PagesHandler struct {
	films *service.FilmsService
}

// NewPagesHandler creates a new PagesHandler
func NewPagesHandler(films *service.FilmsService) *PagesHandler {
	return &PagesHandler{films: films}
}

type listPage struct {
	Title   string
	Films   []model.Film
	Loading bool
	Error   string
}

type detailPage struct {
	Title   string
	Film    model.Film
	Loading bool
}

// Home renders the landing page
// GET /
func (h *PagesHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home", gin.H{"Title": "Home"})
}

// List renders one card per film
// GET /characters
func (h *PagesHandler) List(c *gin.Context) {
	st := h.films.State()
	markState(c, st)
	page := listPage{Title: "Characters", Films: st.Films, Loading: st.Loading}
	if st.Err != nil {
		page.Error = st.Err.Error()
	}
	c.HTML(http.StatusOK, "list", page)
}

// Detail renders one film
// GET /characters/:id
func (h *PagesHandler) Detail(c *gin.Context) {
	film, ok := h.films.Find(c.Param("id"))
	if !ok {
		c.HTML(http.StatusNotFound, "notfound", detailPage{Title: "Not found", Loading: h.films.State().Loading})
		return
	}
	c.HTML(http.StatusOK, "detail", detailPage{Title: film.Name, Film: film})
}

// Reload refetches and goes back to the list
// POST /characters/reload
func (h *PagesHandler) Reload(c *gin.Context) {
	if err := detachedReload(c, h.films); err != nil {
		log.Warn().Err(err).Msg("Reload from list page finished with error")
	}
	c.Redirect(http.StatusSeeOther, "/characters")
}

// Static renders a titled placeholder page
func (h *PagesHandler) Static(title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "static", gin.H{"Title": title})
	}
}
