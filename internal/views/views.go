package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html
var files embed.FS

// NewEngine returns a Fiber views engine over the embedded templates,
// so rendering works regardless of the process working directory.
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(files), ".html")
}
