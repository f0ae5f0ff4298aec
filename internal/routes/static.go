package routes

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

var sitePages = map[string]string{
	"/":          "index.html",
	"/about":     "about.html",
	"/services":  "services.html",
	"/blog":      "blog.html",
	"/portfolio": "portfolio.html",
	"/courses":   "courses.html",
	"/contact":   "contact.html",
	"/pricing":   "pricing.html",
	"/tools":     "tools.html",
}

// RegisterStaticSite serves the marketing site from dir. It must be mounted
// after the API so unknown GETs can fall back to index.html.
func RegisterStaticSite(app *fiber.App, dir string) {
	for path, file := range sitePages {
		page := filepath.Join(dir, file)
		app.Get(path, func(c *fiber.Ctx) error {
			return c.SendFile(page)
		})
	}
	app.Static("/", dir)

	index := filepath.Join(dir, "index.html")
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(index)
	})
}
