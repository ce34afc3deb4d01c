package handler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// StaticHandler serves the built frontend bundle. Unknown paths fall back to
// index.html so client-side routing works on deep links.
type StaticHandler struct {
	root string
}

func NewStaticHandler(staticDir string) *StaticHandler {
	return &StaticHandler{root: staticDir}
}

// Serve handles every non-API GET. Path traversal is blocked by resolving
// against the static root.
func (h *StaticHandler) Serve(c fiber.Ctx) error {
	reqPath := strings.TrimPrefix(c.Path(), "/")
	if reqPath == "" {
		reqPath = "index.html"
	}

	full := filepath.Join(h.root, filepath.Clean("/"+reqPath))
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		return c.SendFile(full)
	}

	index := filepath.Join(h.root, "index.html")
	if _, err := os.Stat(index); err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Not Found")
	}
	return c.SendFile(index)
}
