package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"crypto_dash/internal/domain"
	"crypto_dash/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"price":   render.Price,
	"money":   render.Money,
	"compact": render.Compact,
	"percent": render.Percent,
	"color":   render.ChangeColor,
	"supply":  render.Supply,
	"date":    render.Date,
	"clock":   render.Clock,
	"updated": render.Updated,
	"upper":   strings.ToUpper,
	"chart":   render.NewChart,
	"integer": render.Integer,
	"timeframes": func() []domain.Timeframe {
		return domain.Timeframes
	},
}

// parsePages builds one template set per page, each sharing the layout.
func parsePages(names ...string) (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}
