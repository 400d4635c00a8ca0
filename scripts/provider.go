// Provider is a mock model provider server used for local testing of
// the health monitor. It answers completion requests with a configurable
// success rate and artificial latency.
//
// Usage:
//
//	go run provider.go -port 9001 -availability 0.8 -latency 300ms
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CompletionResponse is a minimal provider-style completion payload.
type CompletionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Model   string `json:"model"`
	Content string `json:"content"`
}

// CompletionRequest mirrors the probe's test request payload.
type CompletionRequest struct {
	Model string `json:"model"`
}

func main() {
	port := flag.String("port", "9001", "port to listen on")
	availability := flag.Float64("availability", 1.0, "fraction of requests that succeed")
	latency := flag.Duration("latency", 0, "artificial delay before answering")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req CompletionRequest
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		log.Printf("request: model=%s from=%s", req.Model, r.RemoteAddr)

		time.Sleep(*latency)

		if rand.Float64() >= *availability {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CompletionResponse{
			ID:      uuid.NewString(),
			Object:  "chat.completion",
			Model:   req.Model,
			Content: "pong",
		})
	})

	log.Printf("mock provider listening on :%s (availability=%.2f latency=%s)", *port, *availability, *latency)
	if err := http.ListenAndServe(":"+*port, mux); err != nil {
		log.Fatal(err)
	}
}
