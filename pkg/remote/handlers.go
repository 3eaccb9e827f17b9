package remote

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/urfave/negroni"
)

const requestIDHeader = "X-Request-Id"

type statusResponse struct {
	Name              string   `json:"name"`
	MaxThreads        int      `json:"maxThreads"`
	MaxHash           int      `json:"maxHash"`
	Variants          []string `json:"variants,omitempty"`
	OfficialStockfish bool     `json:"officialStockfish"`
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.authorized(s.handleStatus))
	mux.HandleFunc("/socket", s.authorized(s.handleSocket))
	return mux
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secret := r.URL.Query().Get("secret")
		if subtle.ConstantTimeCompare([]byte(secret), []byte(s.spec.secret)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		Name:              s.spec.name,
		MaxThreads:        s.spec.maxThreads,
		MaxHash:           s.spec.maxHash,
		Variants:          s.spec.variants,
		OfficialStockfish: s.spec.officialStockfish,
	})
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	if !strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		w.Header().Set("Upgrade", "websocket")
		http.Error(w, "websocket upgrade required", http.StatusUpgradeRequired)
		return
	}
	// engine sessions are bridged by the remote-uci worker, not by the applet
	http.Error(w, "engine bridge not available", http.StatusNotImplemented)
}

func requestID(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	id := r.Header.Get(requestIDHeader)
	if id == "" {
		id = xid.New().String()
		r.Header.Set(requestIDHeader, id)
	}
	w.Header().Set(requestIDHeader, id)
	next(w, r)
}

func (s *Server) logRequest(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(w, r)
	res := w.(negroni.ResponseWriter)
	s.log.Debugw("[http] request",
		"id", r.Header.Get(requestIDHeader),
		"method", r.Method,
		"path", r.URL.Path,
		"status", res.Status(),
		"duration", time.Since(start),
	)
}
