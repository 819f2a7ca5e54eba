package site

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// normalizeRoute cleans a request path into a slash-separated path relative
// to the content root. The root itself is "".
func normalizeRoute(input string) (string, error) {
	candidate := strings.TrimSpace(input)
	candidate = strings.ReplaceAll(candidate, "\\", "/")
	if strings.Contains(candidate, "\x00") {
		return "", errors.Wrap(ErrInvalidPath, "contains null byte")
	}

	for _, segment := range strings.Split(candidate, "/") {
		if segment == ".." {
			return "", errors.Wrap(ErrInvalidPath, "path escapes content root")
		}
		if strings.HasPrefix(segment, ".") && segment != "." {
			return "", errors.Wrap(ErrInvalidPath, "hidden path segment")
		}
	}

	cleaned := path.Clean("/" + candidate)
	return strings.TrimPrefix(cleaned, "/"), nil
}

// resolveDocument maps a request path onto a document file. Directories
// resolve to their index document. Filesystem errors are returned as-is.
func (s *Service) resolveDocument(route string) (string, error) {
	rel, err := normalizeRoute(route)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.cfg.ContentDir, filepath.FromSlash(rel))
	info, err := os.Stat(target)
	switch {
	case err == nil && info.IsDir():
		target = filepath.Join(target, s.cfg.IndexDoc+s.cfg.DocumentExt)
	case err == nil:
		if ext := s.cfg.DocumentExt; ext != "" && !strings.HasSuffix(target, ext) {
			return "", &os.PathError{Op: "open", Path: target, Err: os.ErrNotExist}
		}
		return target, nil
	case os.IsNotExist(err) && s.cfg.DocumentExt != "":
		target += s.cfg.DocumentExt
	default:
		return "", err
	}

	info, err = os.Stat(target)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", &os.PathError{Op: "open", Path: target, Err: os.ErrNotExist}
	}
	return target, nil
}

// routeFor is the inverse of resolveDocument for files under the content root.
func (s *Service) routeFor(rel string) string {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), s.cfg.DocumentExt)
	dir, base := path.Split(rel)
	if base == s.cfg.IndexDoc {
		return "/" + dir
	}
	return "/" + rel
}
