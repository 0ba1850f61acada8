// Package monitor serves the liveness, version and metrics probes next
// to a running load.
package monitor

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gobuffalo/packr/v2"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skolemgraph/skolem/clog"
	"github.com/skolemgraph/skolem/version"
)

var assets = packr.New("monitor", "./assets")

// statusWriter wraps http.ResponseWriter and captures the written status code
type statusWriter struct {
	http.ResponseWriter
	code int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{w, 200}
}

func (w *statusWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
	w.code = code
}

// LogRequest wraps a http.Handler and emits logs about the request and the response
func LogRequest(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)
		handler.ServeHTTP(sw, req)
		clog.Infof("%v %s %s in %v", sw.code, req.Method, req.URL.Path, time.Since(start))
	})
}

// indexPage renders the landing page from the bundled assets. When the
// assets cannot be resolved the page degrades to a plain text listing.
func indexPage() httprouter.Handle {
	data, err := assets.FindString("index.html")
	if err != nil {
		clog.Warningf("monitor assets unavailable: %v", err)
		return func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
			fmt.Fprintln(w, "skolem", version.Version)
			fmt.Fprintln(w, "/health /version /metrics")
		}
	}
	t := template.Must(template.New("index.html").Parse(data))
	return func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		err := t.Execute(w, map[string]string{
			"Version": version.Version,
			"Git":     version.GitHash,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// Handler returns the monitoring mux: a landing page, a health probe,
// the build version and the prometheus scrape endpoint.
func Handler() http.Handler {
	r := httprouter.New()
	r.GET("/", indexPage())
	r.GET("/health", func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.GET("/version", func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"version": version.Version,
			"git":     version.GitHash,
		})
	})
	r.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	return LogRequest(r)
}

// Listen serves the monitoring endpoint until the listener fails. It is
// meant to run in the background for the duration of a load.
func Listen(addr string) error {
	clog.Infof("monitoring on http://%s", addr)
	return http.ListenAndServe(addr, Handler())
}
