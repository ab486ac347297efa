package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/phyten/duskify/internal/engine"
	engineopts "github.com/phyten/duskify/internal/engine/opts"
	"github.com/phyten/duskify/internal/htmldoc"
	"github.com/phyten/duskify/internal/progress"
	"github.com/phyten/duskify/internal/web"
)

const maxBodyBytes = 8 << 20

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: duskify serve [-p PORT]")
	}
	port := fs.Int("p", 8080, "port")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return
		}
		fmt.Fprintf(os.Stderr, "duskify serve: %v\n", err)
		fs.Usage()
		os.Exit(2)
	}

	mux := http.NewServeMux()
	web.Register(mux)
	mux.HandleFunc("/api/transform", apiTransformHandler())
	mux.HandleFunc("/api/transform/stream", apiTransformStreamHandler())

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("duskify serve listening on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

type transformPayload struct {
	HTML   string         `json:"html"`
	Result *engine.Result `json:"result"`
}

// apiTransformHandler accepts an HTML document as the POST body, runs the
// transform with options taken from the query string and returns the
// rewritten document together with the change report.
func apiTransformHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		doc, o, ok := transformFromRequest(w, r)
		if !ok {
			return
		}
		res, err := engine.Run(o, doc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		html, err := doc.HTML()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		// The payload is a JSON API, not an HTML response: colors and
		// markup go back exactly as the engine produced them.
		enc.SetEscapeHTML(false)
		_ = enc.Encode(transformPayload{HTML: html, Result: res})
	}
}

// apiTransformStreamHandler is the SSE variant: progress events while the
// engine runs, then a single result (or error) event.
func apiTransformStreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		doc, o, ok := transformFromRequest(w, r)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		writeEvent := func(event string, payload any) {
			data, err := json.Marshal(payload)
			if err != nil {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
			flusher.Flush()
		}

		// The engine runs synchronously in this handler goroutine, so
		// the observer can write to the stream without locking.
		o.ProgressObserver = progress.ObserverFunc(func(s progress.Snapshot) {
			writeEvent("progress", s)
		})
		res, err := engine.Run(o, doc)
		if err != nil {
			writeEvent("error", map[string]string{"error": err.Error()})
			return
		}
		html, err := doc.HTML()
		if err != nil {
			writeEvent("error", map[string]string{"error": err.Error()})
			return
		}
		writeEvent("result", transformPayload{HTML: html, Result: res})
	}
}

// transformFromRequest validates the query options, reads the body and
// parses it into a document, writing the error response itself when any
// step fails.
func transformFromRequest(w http.ResponseWriter, r *http.Request) (*htmldoc.Document, engine.Options, bool) {
	q := r.URL.Query()
	o, err := engineopts.ApplyWebQueryToOptions(engineopts.Defaults(), q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, o, false
	}
	if err := engineopts.NormalizeAndValidate(&o); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, o, false
	}
	// Progress reporting belongs to the stream endpoint's observer, never
	// to the server's stderr.
	o.Progress = false

	baseline := true
	if len(q["baseline"]) > 0 {
		v, err := parseBoolParam(q, "baseline")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil, o, false
		}
		baseline = v
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		return nil, o, false
	}
	doc, err := htmldoc.ParseString(string(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, o, false
	}
	if baseline {
		doc.InjectStylesheet(htmldoc.BaselineCSS)
	}
	return doc, o, true
}

// parseBoolParam reads an optional boolean query parameter. Absent keys
// and empty values mean false; the last occurrence wins.
func parseBoolParam(q map[string][]string, key string) (bool, error) {
	vals := q[key]
	if len(vals) == 0 {
		return false, nil
	}
	raw := strings.TrimSpace(vals[len(vals)-1])
	if raw == "" {
		return false, nil
	}
	return engineopts.ParseBool(raw, key)
}
