// Package render executes the public site templates.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/olegiv/instaview-go/internal/model"
	"github.com/olegiv/instaview-go/internal/seo"
	"github.com/olegiv/instaview-go/internal/service"
)

// Page template names.
const (
	PageHome     = "home"
	PageBlog     = "blog"
	PagePost     = "post"
	PageCustom   = "page"
	PageContact  = "contact"
	PageNotFound = "not_found"
)

// Renderer handles template rendering with parsed templates kept in memory.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
	now       func() time.Time
}

// New parses the layout, partials and every page template in templatesFS.
func New(templatesFS fs.FS) (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		now:   time.Now,
	}

	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return nil, fmt.Errorf("getting partials: %w", err)
	}
	pages, err := templateFiles(templatesFS, "pages")
	if err != nil {
		return nil, fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	for _, tmplPath := range pages {
		name := strings.TrimSuffix(path.Base(tmplPath), ".html")

		files := append([]string{"layouts/base.html"}, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	r.fragments, err = template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, partials...)
	if err != nil {
		return nil, fmt.Errorf("parsing partials: %w", err)
	}
	return r, nil
}

func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
	}
}

// PageData holds data passed to page templates.
type PageData struct {
	Lang        string
	Meta        seo.Meta
	Site        model.SeoSettings
	Pages       []model.Page
	Ads         map[string]service.AdSlot
	Posts       []service.PostView
	Post        *service.PostView
	Page        *service.PageView
	Contact     *service.ContactForm
	CurrentYear int
}

// AdSlots converts resolved slots into the template lookup keyed by location name.
func AdSlots(slots map[model.Location]service.AdSlot) map[string]service.AdSlot {
	out := make(map[string]service.AdSlot, len(slots))
	for loc, slot := range slots {
		out[string(loc)] = slot
	}
	return out
}

// Render executes page name with data and writes it with status.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data PageData) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = r.now().Year()

	// Render to buffer first so a template error never produces a partial page.
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// RenderAd writes the HTML fragment of one ad slot.
func (r *Renderer) RenderAd(w http.ResponseWriter, slot service.AdSlot) error {
	buf := new(bytes.Buffer)
	if err := r.fragments.ExecuteTemplate(buf, "ad", slot); err != nil {
		return fmt.Errorf("executing ad fragment: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
	return nil
}
