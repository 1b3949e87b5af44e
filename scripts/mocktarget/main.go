// Command mocktarget runs a local HTTP endpoint with tunable latency and
// failure behavior, useful for exercising pummel against a controlled peer.
//
// Usage:
//
//	go run ./scripts/mocktarget -port 8080 -latency 50ms -jitter 20ms -error-rate 0.05
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"
)

func main() {
	port := flag.Int("port", 8080, "Listening port")
	latency := flag.Duration("latency", 0, "Base response latency")
	jitter := flag.Duration("jitter", 0, "Random extra latency in [0, jitter)")
	errorRate := flag.Float64("error-rate", 0, "Fraction of requests answered with 500, in [0,1]")
	hangRate := flag.Float64("hang-rate", 0, "Fraction of requests that stall past client timeouts, in [0,1]")
	flag.Parse()

	if *errorRate < 0 || *errorRate > 1 || *hangRate < 0 || *hangRate > 1 {
		log.Fatalf("error-rate and hang-rate must be within [0,1]")
	}

	var served int64

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&served, 1)

		if *hangRate > 0 && rand.Float64() < *hangRate {
			// Longer than any sane client timeout.
			time.Sleep(10 * time.Minute)
			return
		}

		delay := *latency
		if *jitter > 0 {
			delay += time.Duration(rand.Int63n(int64(*jitter)))
		}
		if delay > 0 {
			time.Sleep(delay)
		}

		if r.Body != nil {
			_, _ = io.Copy(io.Discard, r.Body)
		}

		if *errorRate > 0 && rand.Float64() < *errorRate {
			http.Error(w, "injected failure", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"served": n,
			"method": r.Method,
			"agent":  r.UserAgent(),
		})
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("mock target listening on %s (latency=%v jitter=%v error-rate=%.2f hang-rate=%.2f)",
		addr, *latency, *jitter, *errorRate, *hangRate)
	log.Fatal(http.ListenAndServe(addr, nil))
}
