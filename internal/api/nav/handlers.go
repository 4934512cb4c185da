// internal/api/nav/handlers.go
package nav

import (
	"net/http"

	"github.com/collegecounter/ccweb/internal/api/auth"
	navtempl "github.com/collegecounter/ccweb/internal/templates/components/nav"
)

func HandleMenu(w http.ResponseWriter, r *http.Request) {
	component := navtempl.Menu(auth.IsAuthenticated(r))
	component.Render(r.Context(), w)
}

func HandleMenuClose(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(""))
}
