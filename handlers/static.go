package handlers

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

//go:embed static/*
var staticAssets embed.FS

// StaticHandler serves embedded static assets
type StaticHandler struct {
	fileServer http.Handler
	types      map[string]string
}

// NewStaticHandler creates a new static assets handler. Content types are
// sniffed once from the embedded bytes.
func NewStaticHandler() *StaticHandler {
	staticFS, err := fs.Sub(staticAssets, "static")
	if err != nil {
		panic("failed to get static subdirectory: " + err.Error())
	}

	types := make(map[string]string)
	fs.WalkDir(staticFS, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		types[name] = assetType(staticFS, name)
		return nil
	})

	return &StaticHandler{
		fileServer: http.FileServer(http.FS(staticFS)),
		types:      types,
	}
}

// assetType trusts the extension for text assets, where sniffing only sees
// plain text, and the content for everything else.
func assetType(fsys fs.FS, name string) string {
	switch path.Ext(name) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "text/javascript; charset=utf-8"
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return ""
	}
	return mimetype.Detect(data).String()
}

// ServeHTTP serves static files
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if ct := h.types[name]; ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	h.fileServer.ServeHTTP(w, r)
}
