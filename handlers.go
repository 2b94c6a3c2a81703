package routesync

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/routesync/internal/errors"
	"github.com/vango-dev/routesync/pkg/addressbar/wsbar"
	"github.com/vango-dev/routesync/pkg/mapper"
	"github.com/vango-dev/routesync/pkg/middleware"
)

// =============================================================================
// Debug server
// =============================================================================

// Handler returns the debug server:
//
//	GET /            page that syncs the browser address bar over /ws
//	GET /match       ?url=<url>
//	GET /signal-url  ?signal=<name>&<key>=<value>...
//	GET /routes      route table
//	GET /metrics     Prometheus metrics, when a registry is configured
//	GET /ws          websocket address bar
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	if a.http != nil {
		r.Use(a.http.Handler)
	}
	if a.config.TracerName != "" {
		r.Use(middleware.OpenTelemetry(middleware.WithTracerName(a.config.TracerName + "/http")))
	}
	r.Get("/", a.handleIndex)
	r.Get("/match", a.handleMatch)
	r.Get("/signal-url", a.handleSignalURL)
	r.Get("/routes", a.handleRoutes)
	r.Get("/ws", a.handleWS)
	if a.config.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.config.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Run serves the debug server on addr until ctx is done.
func (a *App) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("shutdown failed", "error", err)
		}
	}()

	a.logger.Info("debug server listening", "addr", addr, "routes", len(a.Routes()))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) handleMatch(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("url")
	if u == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "missing url parameter"})
		return
	}

	m, err := a.Match(u)
	if err != nil {
		writeError(w, err)
		return
	}
	if m == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Message: fmt.Sprintf("no route matched %s", u)})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) handleSignalURL(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	signal := query.Get("signal")
	if signal == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "missing signal parameter"})
		return
	}

	payload := make(map[string]any, len(query))
	for key, values := range query {
		if key == "signal" || len(values) == 0 {
			continue
		}
		payload[key] = mapper.DecodeValue(values[len(values)-1])
	}

	u, err := a.SignalURL(signal, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"signal": signal, "url": u})
}

type routeInfo struct {
	Path   string `json:"path"`
	Signal string `json:"signal,omitempty"`
}

func (a *App) handleRoutes(w http.ResponseWriter, r *http.Request) {
	out := make([]routeInfo, 0, a.table.Len())
	for _, path := range a.table.Paths() {
		e, _ := a.table.Get(path)
		out = append(out, routeInfo{Path: path, Signal: e.Signal})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) handleWS(w http.ResponseWriter, r *http.Request) {
	bar, err := wsbar.Accept(w, r, "", a.logger)
	if err != nil {
		// The upgrader has already replied.
		a.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer bar.Close()

	// The browser reports its URL once connected.
	if _, err := a.newSession(bar, true); err != nil {
		a.logger.Error("session failed", "error", err)
		return
	}

	a.http.SessionStarted()
	defer a.http.SessionEnded()

	a.logger.Debug("session started", "remote", r.RemoteAddr)
	if err := bar.Serve(r.Context()); err != nil {
		a.logger.Debug("session ended", "remote", r.RemoteAddr, "error", err)
	}
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>routesync</title></head>\n<body>\n<ul>\n")
	for _, path := range a.table.Paths() {
		e, _ := a.table.Get(path)
		fmt.Fprintf(&b, "<li><code>%s</code> %s</li>\n", html.EscapeString(path), html.EscapeString(e.Signal))
	}
	b.WriteString("</ul>\n")
	b.WriteString(wsbar.ClientScript)
	b.WriteString("</body>\n</html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(b.String()))
}

type errorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a RouteError kind to an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	var re *errors.RouteError
	if !errors.As(err, &re) {
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: err.Error()})
		return
	}

	status := http.StatusBadRequest
	switch re.Kind {
	case errors.KindMissingSignal:
		status = http.StatusNotFound
	case errors.KindParam:
		status = http.StatusUnprocessableEntity
	case errors.KindNotImplemented:
		status = http.StatusNotImplemented
	}
	writeJSON(w, status, errorBody{Code: re.Code, Message: re.Message})
}
