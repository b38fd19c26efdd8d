package server

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"gohan-planner/internal/mealplan"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageNames = []string{"index", "shopping", "favorites", "login"}

// pageRenderer implements gin's render.HTMLRender with one template set per
// page, each combining the shared layout with the page's content block.
type pageRenderer struct {
	pages map[string]*template.Template
}

func newPageRenderer() (*pageRenderer, error) {
	funcs := template.FuncMap{
		"storageStyle": mealplan.StorageStyleFor,
		"join":         strings.Join,
	}
	r := &pageRenderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *pageRenderer) Instance(name string, data any) render.Render {
	return render.HTML{Template: r.pages[name], Name: "layout", Data: data}
}

type mealCard struct {
	Meal     mealplan.Meal
	Favorite bool
	Action   string
}

type pageData struct {
	Title   string
	Active  string
	ShowNav bool
	Error   string

	Plan      *mealplan.WeeklyPlan
	WeekRange string
	Meals     []mealCard

	Groups    []mealplan.ShoppingGroup
	ItemCount int

	Favorites []mealCard

	Redirect string
}
