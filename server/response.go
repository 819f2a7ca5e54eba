package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func httpError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

// logError logs a failed render; in debug mode the innermost stack trace is attached.
func (s *Server) logError(r *http.Request, err error) {
	if !s.cfg.Debug {
		s.logger.Error("render", "path", r.URL.Path, "error", err)
		return
	}
	var trace string
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if st, ok := cur.(stackTracer); ok {
			trace = fmt.Sprintf("%+v", st.StackTrace())
		}
	}
	s.logger.Error("render", "path", r.URL.Path, "error", err, "stack", trace)
}
