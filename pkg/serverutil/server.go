package serverutil

import (
	"fmt"
	"net/http"
	"net/http/pprof"

	"github.com/wengyanqing/cdbnode/internal/logger"
	"go.ytsaurus.tech/library/go/core/log"
)

// RunHealthCheckOnPort serves a trivial liveness endpoint. Meant to be run
// in its own goroutine for the whole process lifetime.
func RunHealthCheckOnPort(port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		logger.Log.Error("health check server failed", log.Error(err))
	}
}

// RunPprof exposes the pprof handlers on port 8080.
func RunPprof() {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	if err := http.ListenAndServe(":8080", mux); err != nil {
		logger.Log.Error("pprof server failed", log.Error(err))
	}
}
