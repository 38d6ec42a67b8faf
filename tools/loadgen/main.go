// Command loadgen drives a running aporte web API: it posts random allocation requests and keeps
// journal stream subscribers open, then reports request latency percentiles.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

type portfolio struct {
	Assets []struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	} `json:"assets"`
}

func main() {
	var (
		baseURL     string
		requests    int
		concurrency int
		subscribers int
	)
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "aporte web API base URL")
	flag.IntVar(&requests, "requests", 500, "number of allocation requests to send")
	flag.IntVar(&concurrency, "conc", 16, "concurrent allocation requests")
	flag.IntVar(&subscribers, "subs", 10, "journal stream subscribers to keep open")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 0}

	p, err := fetchPortfolio(ctx, client, baseURL)
	if err != nil {
		log.Fatalf("load portfolio: %v", err)
	}
	log.Printf("portfolio has %d assets, sending %d requests with concurrency %d", len(p.Assets), requests, concurrency)

	streamCtx, cancelStreams := context.WithCancel(ctx)
	var events atomic.Int64
	var streams sync.WaitGroup
	for i := 0; i < subscribers; i++ {
		streams.Add(1)
		go func() {
			defer streams.Done()
			if err := subscribe(streamCtx, client, baseURL+"/allocations/stream", &events); err != nil && streamCtx.Err() == nil {
				log.Printf("stream: %v", err)
			}
		}()
	}

	var (
		mu        sync.Mutex
		latencies = make([]float64, 0, requests)
		failures  atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	start := time.Now()
	for i := 0; i < requests; i++ {
		body := randomRequest(p)
		g.Go(func() error {
			t := time.Now()
			if err := allocate(gctx, client, baseURL+"/api/allocate", body); err != nil {
				failures.Add(1)
				return nil
			}
			mu.Lock()
			latencies = append(latencies, float64(time.Since(t).Milliseconds()))
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	// give subscribers one poll interval to catch up with the journal
	time.Sleep(3 * time.Second)
	cancelStreams()
	streams.Wait()

	p50, _ := stats.Percentile(latencies, 50)
	p95, _ := stats.Percentile(latencies, 95)
	p99, _ := stats.Percentile(latencies, 99)
	fmt.Printf("done: ok=%d failed=%d elapsed=%s p50=%.0fms p95=%.0fms p99=%.0fms stream_events=%d\n",
		len(latencies), failures.Load(), elapsed.Truncate(time.Millisecond), p50, p95, p99, events.Load())
}

func fetchPortfolio(ctx context.Context, client *http.Client, baseURL string) (*portfolio, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/portfolio", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var p portfolio
	return &p, json.NewDecoder(resp.Body).Decode(&p)
}

func randomRequest(p *portfolio) []byte {
	holdings := make(map[string]string, len(p.Assets))
	for _, a := range p.Assets {
		if a.Kind == "cash" {
			holdings[a.ID] = fmt.Sprintf("%d.%02d", rand.Intn(5000), rand.Intn(100))
			continue
		}
		holdings[a.ID] = fmt.Sprintf("%d", rand.Intn(50))
	}
	body, _ := json.Marshal(map[string]any{
		"holdings":     holdings,
		"contribution": fmt.Sprintf("%d", 100+rand.Intn(10000)),
	})
	return body
}

func allocate(ctx context.Context, client *http.Client, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func subscribe(ctx context.Context, client *http.Client, url string, events *atomic.Int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		if strings.HasPrefix(line, "event: allocation") {
			events.Add(1)
		}
	}
}
