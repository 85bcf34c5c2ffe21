package web

import "net/http"

const (
	themeCookie = "theme"
	themeDark   = "dark"
	themeLight  = "light"
)

// theme reads the visitor's theme cookie, falling back to the configured
// default.
func (s *Server) theme(r *http.Request) string {
	c, err := r.Cookie(themeCookie)
	if err != nil {
		return s.defaultTheme
	}
	switch c.Value {
	case themeDark, themeLight:
		return c.Value
	default:
		return s.defaultTheme
	}
}
