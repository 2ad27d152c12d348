package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/sbilibin2017/gw-user-portal/internal/logger"
	"github.com/sbilibin2017/gw-user-portal/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "templates/base.layout.html"

// Page files.
const (
	PageHome      = "home.page.html"
	PageRegister  = "register.page.html"
	PageLogin     = "login.page.html"
	PageDashboard = "dashboard.page.html"
)

var pages = []string{PageHome, PageRegister, PageLogin, PageDashboard}

// PageData is passed to every template.
type PageData struct {
	Flashes  []session.Flash
	LoggedIn bool
	UserName string
	Form     map[string]string // values echoed back into form inputs
}

// Renderer executes the embedded page templates.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses every page together with the base layout.
func New() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		ts, err := template.ParseFS(templatesFS, layoutFile, "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = ts
	}
	return &Renderer{templates: templates}, nil
}

// Render writes page with status 200. Pending flashes are taken from the
// request session and shown once. Output is buffered so a template error
// yields a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, page string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}
	if data.Form == nil {
		data.Form = map[string]string{}
	}

	sess := session.FromContext(r.Context())
	flashes := sess.PopFlashes()
	data.Flashes = append(data.Flashes, flashes...)
	data.LoggedIn = sess.IsAuthenticated()
	if data.UserName == "" {
		data.UserName = sess.UserName
	}

	buf := new(bytes.Buffer)
	if err := rd.execute(buf, page, data); err != nil {
		logger.Log.Errorw("failed to render template", "page", page, "err", err)
		if len(flashes) > 0 {
			sess.Flashes = append(flashes, sess.Flashes...)
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (rd *Renderer) execute(buf *bytes.Buffer, page string, data *PageData) error {
	ts, ok := rd.templates[page]
	if !ok {
		return fmt.Errorf("template %s not found", page)
	}
	return ts.ExecuteTemplate(buf, "base", data)
}
