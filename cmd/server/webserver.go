package main

import (
	"fmt"
	"log"
	"net/http"
	"time"
)

// webServer creates server serving files in staticDir (index.html,
// main.wasm, wasm_exec.js) along with the websocket endpoint at /ws
func webServer(port int, staticDir string, ws http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost:%d", port)
	return srv
}
