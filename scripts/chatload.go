//go:build ignore

// Chatload drives concurrent conversations against the assistant backend and
// reports throughput and latency percentiles per opening message.
//
// Usage:
//
//	go run scripts/chatload.go -concurrency 10 -conversations 200
//	go run scripts/chatload.go -platform android -csv results.csv
//
// Each conversation sends one opening message and then asks for the next step
// until the backend reports there is none.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angeloszaimis/health-assistant/internal/api"
	"github.com/angeloszaimis/health-assistant/internal/client"
	"github.com/angeloszaimis/health-assistant/internal/environment"
	"github.com/angeloszaimis/health-assistant/internal/platform"
)

var openers = []string{
	"my nose is bleeding",
	"I burned my hand on the stove",
	"someone is choking",
	"my child has a fever",
	"I have a small cut",
	"how do I sleep better",
}

type messageStats struct {
	count     int
	failures  int
	latencies []time.Duration
}

func main() {
	var (
		platformName  = flag.String("platform", "", "Resolve the backend as this platform (android, ios, web)")
		concurrency   = flag.Int("concurrency", 10, "Number of concurrent conversations")
		conversations = flag.Int("conversations", 100, "Total number of conversations")
		lang          = flag.String("lang", "en", "Conversation language")
		timeout       = flag.Duration("timeout", 10*time.Second, "Per-request timeout")
		outCSV        = flag.String("csv", "", "Write per-request CSV to this file (optional)")
	)
	flag.Parse()

	base := environment.APIBaseURL()
	if *platformName != "" {
		base = environment.Resolve(platform.Parse(*platformName))
	}
	c := client.New(base, client.WithTimeout(*timeout), client.WithBreaker(*concurrency*2, 5*time.Second))

	var csvWriter *csv.Writer
	if *outCSV != "" {
		f, err := os.Create(*outCSV)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create csv file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		csvWriter = csv.NewWriter(f)
		_ = csvWriter.Write([]string{"conversation", "opener", "turn", "ok", "duration_ms"})
	}

	var (
		mu       sync.Mutex
		stats    = make(map[string]*messageStats)
		requests int64
		failures int64
	)

	record := func(conv int, opener string, turn int, dur time.Duration, err error) {
		atomic.AddInt64(&requests, 1)
		if err != nil {
			atomic.AddInt64(&failures, 1)
		}

		mu.Lock()
		defer mu.Unlock()
		s, ok := stats[opener]
		if !ok {
			s = &messageStats{}
			stats[opener] = s
		}
		s.count++
		s.latencies = append(s.latencies, dur)
		if err != nil {
			s.failures++
		}
		if csvWriter != nil {
			_ = csvWriter.Write([]string{
				strconv.Itoa(conv),
				opener,
				strconv.Itoa(turn),
				strconv.FormatBool(err == nil),
				fmt.Sprintf("%.3f", float64(dur.Microseconds())/1000.0),
			})
		}
	}

	ctx := context.Background()
	jobs := make(chan int)
	var wg sync.WaitGroup

	testStart := time.Now()
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for conv := range jobs {
				opener := openers[conv%len(openers)]

				start := time.Now()
				res, err := c.Chat(ctx, api.ChatRequest{Message: opener, Lang: *lang})
				record(conv, opener, 0, time.Since(start), err)

				for turn := 1; err == nil && res.HasNext; turn++ {
					start = time.Now()
					res, err = c.Next(ctx, res.SessionID, *lang)
					record(conv, opener, turn, time.Since(start), err)
				}
			}
		}()
	}

	for i := 0; i < *conversations; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(testStart)
	if csvWriter != nil {
		csvWriter.Flush()
	}

	fmt.Println("--- Chat Load Summary ---")
	fmt.Printf("Target: %s\n", base)
	fmt.Printf("Conversations: %d  Concurrency: %d\n", *conversations, *concurrency)
	fmt.Printf("Requests: %d  Failures: %d\n", requests, failures)
	fmt.Printf("Duration: %v  Throughput: %.2f req/s\n", elapsed, float64(requests)/elapsed.Seconds())
	fmt.Printf("Breaker: %s  Backend EWMA: %v\n", c.BreakerState(), c.Endpoint().EWMATime())

	fmt.Println("\nPer opening message:")
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s := stats[k]
		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		pick := func(p float64) time.Duration { return s.latencies[int(float64(len(s.latencies)-1)*p)] }
		fmt.Printf("  %q -> requests=%d failures=%d p50=%v p95=%v p99=%v\n",
			k, s.count, s.failures, pick(0.50), pick(0.95), pick(0.99))
	}

	if failures > 0 {
		os.Exit(2)
	}
}
