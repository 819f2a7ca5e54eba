package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/cors"

	"github.com/iedon/eyebrow-go/config"
)

// staticDir serves files below root without directory listings. Files in a
// gzip directory are stored compressed and sent with Content-Encoding: gzip.
type staticDir struct {
	root    string
	gzip    bool
	handler http.Handler
}

func staticDirs(cfg *config.Config) []*staticDir {
	specs := []struct {
		root       string
		gzip, cors bool
	}{
		{root: cfg.ThemeDir},
		{root: cfg.GzipDir, gzip: true},
		{root: cfg.GzipCORSDir, gzip: true, cors: true},
		{root: cfg.CORSDir, cors: true},
	}

	dirs := make([]*staticDir, 0, len(specs))
	for _, spec := range specs {
		if strings.TrimSpace(spec.root) == "" {
			continue
		}
		dir := &staticDir{root: spec.root, gzip: spec.gzip}
		dir.handler = http.HandlerFunc(dir.serve)
		if spec.cors {
			dir.handler = cors.Default().Handler(dir.handler)
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

// lookup maps a URL path to a regular file inside the directory.
func (d *staticDir) lookup(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}
	target := filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return target, true
}

func (d *staticDir) serve(w http.ResponseWriter, r *http.Request) {
	target, ok := d.lookup(r.URL.Path)
	if !ok {
		httpError(w, http.StatusNotFound)
		return
	}
	f, err := os.Open(target)
	if err != nil {
		httpError(w, http.StatusNotFound)
		return
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		httpError(w, http.StatusInternalServerError)
		return
	}
	if d.gzip {
		w.Header().Set("Content-Encoding", "gzip")
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
}
