package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"flowtier/internal/usecase"

	"github.com/gin-gonic/gin"
)

var slugPathPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Paths that must never be treated as proposal slugs.
var reservedPages = map[string]bool{
	"api":         true,
	"builder":     true,
	"static":      true,
	"favicon.ico": true,
	"robots.txt":  true,
	"login":       true,
	"logout":      true,
	"ping":        true,
	"swagger":     true,
}

// PageHandler serves the client-facing proposal page. The page itself is a
// static shell that fetches the document over the API, so the handler only
// has to confirm the slug resolves before handing out HTML.

type PageHandler struct {
	usecase   usecase.IProposalUseCase
	staticDir string
}

func NewPageHandler(uc usecase.IProposalUseCase, staticDir string) *PageHandler {
	return &PageHandler{usecase: uc, staticDir: staticDir}
}

// ServeProposalPage handles unmatched GET requests. A single lowercase path
// segment is treated as a proposal slug; everything else is a 404.
func (h *PageHandler) ServeProposalPage(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.Status(http.StatusNotFound)
		return
	}

	slug := strings.Trim(c.Request.URL.Path, "/")
	if slug == "" || strings.Contains(slug, "/") || reservedPages[slug] || !slugPathPattern.MatchString(slug) {
		h.serveNotFound(c)
		return
	}

	if _, err := h.usecase.GetBySlug(c.Request.Context(), slug); err != nil {
		if !errors.Is(err, usecase.ErrProposalNotFound) {
			log.Printf("[page][handler] lookup failed slug=%s err=%v", slug, err)
		}
		h.serveNotFound(c)
		return
	}

	page := filepath.Join(h.staticDir, "proposal.html")
	if _, err := os.Stat(page); err == nil {
		c.File(page)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(proposalShellHTML))
}

func (h *PageHandler) serveNotFound(c *gin.Context) {
	// c.File would reset the status to 200, so the page is emitted by hand.
	if raw, err := os.ReadFile(filepath.Join(h.staticDir, "404.html")); err == nil {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", raw)
		return
	}
	c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(notFoundHTML))
}

const proposalShellHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta name="robots" content="noindex">
  <title>Proposal</title>
</head>
<body>
  <div id="proposal-root" data-slug-source="path"></div>
  <script src="/static/proposal.js"></script>
</body>
</html>
`

const notFoundHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Not Found</title>
</head>
<body>
  <h1>404</h1>
  <p>This proposal does not exist or has been removed.</p>
</body>
</html>
`
