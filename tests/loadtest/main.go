package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numPets      = 500
)

var species = []string{"Dog", "Cat", "Rabbit", "Bird"}

var checklistItems = []string{"meet-and-greet", "home-visit", "application-submitted", "supplies-ready"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== AdoptWatch Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Pets: %d\n\n", numWorkers, testDuration, numPets)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Writes (favorites, seen, checklists) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.4:
			return doAddFavorite(rng)
		case r < 0.8:
			return doMarkSeen(rng)
		default:
			return doUpdateChecklist(rng)
		}
	})

	fmt.Println("\n--- Phase 2: Mixed load (50% write, 50% read) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.20:
			return doAddFavorite(rng)
		case r < 0.30:
			return doDeleteFavorite(rng)
		case r < 0.50:
			return doMarkSeen(rng)
		case r < 0.70:
			return doGet("/favorites")
		case r < 0.85:
			return doGet("/seen")
		default:
			return doGet("/preferences")
		}
	})

	fmt.Println("\n--- Phase 3: Backup export under read load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.05:
			return doGet("/backup")
		case r < 0.55:
			return doGet("/favorites")
		default:
			return doGet("/seen")
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Inc()
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

// do sends one request and reports it under endpoint. Any status other than
// want counts as an error.
func do(method, endpoint, path string, body any, want ...int) result {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return result{endpoint, 0, 0, true}
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	ok := false
	for _, w := range want {
		ok = ok || resp.StatusCode == w
	}
	return result{endpoint, resp.StatusCode, lat, !ok}
}

func petID(rng *rand.Rand) string {
	return fmt.Sprintf("%d", rng.Intn(numPets)+1)
}

func doAddFavorite(rng *rand.Rand) result {
	id := petID(rng)
	body := map[string]any{
		"ID":      id,
		"Name":    "Pet " + id,
		"Species": species[rng.Intn(len(species))],
		"Age":     rng.Intn(180),
	}
	return do(http.MethodPost, "POST /favorites", "/favorites", body, http.StatusCreated)
}

func doDeleteFavorite(rng *rand.Rand) result {
	return do(http.MethodDelete, "DELETE /favorites/{id}", "/favorites/"+petID(rng), nil,
		http.StatusNoContent, http.StatusNotFound)
}

func doMarkSeen(rng *rand.Rand) result {
	body := map[string]any{"id": petID(rng), "species": species[rng.Intn(len(species))]}
	return do(http.MethodPost, "POST /seen", "/seen", body, http.StatusOK)
}

func doUpdateChecklist(rng *rand.Rand) result {
	item := checklistItems[rng.Intn(len(checklistItems))]
	body := map[string]any{"items": map[string]bool{item: rng.Intn(2) == 1}}
	return do(http.MethodPut, "PUT /checklists/{id}", "/checklists/"+petID(rng), body, http.StatusOK)
}

func doGet(path string) result {
	return do(http.MethodGet, "GET "+path, path, nil, http.StatusOK)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
