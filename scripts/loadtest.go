package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

type LoadTestConfig struct {
	BaseURL       string
	TotalRequests int
	Concurrency   int
	Duration      time.Duration
}

type Stats struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalLatency    int64
	MinLatency      int64
	MaxLatency      int64
	Errors          sync.Map
}

var categories = []string{"antiques", "art", "books", "electronics"}

var httpClient = &http.Client{Timeout: 10 * time.Second}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Service base URL")
	requests := flag.Int("requests", 1000, "Total number of requests")
	concurrency := flag.Int("concurrency", 10, "Number of parallel requests")
	duration := flag.Duration("duration", 0, "Test duration (0 = use -requests)")
	operation := flag.String("operation", "create", "Operation type: create, get, list, category, cart, mixed")
	flag.Parse()

	config := LoadTestConfig{
		BaseURL:       *baseURL,
		TotalRequests: *requests,
		Concurrency:   *concurrency,
		Duration:      *duration,
	}

	fmt.Printf("🚀 Starting load test\n")
	fmt.Printf("URL: %s\n", config.BaseURL)
	fmt.Printf("Operation: %s\n", *operation)
	if config.Duration > 0 {
		fmt.Printf("Duration: %v\n", config.Duration)
	} else {
		fmt.Printf("Requests: %d\n", config.TotalRequests)
	}
	fmt.Printf("Concurrency: %d\n\n", config.Concurrency)

	stats := &Stats{
		MinLatency: int64(^uint64(0) >> 1), // max int64
	}

	startTime := time.Now()

	switch *operation {
	case "create":
		run(config, func(int64) { createProduct(config.BaseURL, stats) })
	case "get":
		ids := seedProducts(config.BaseURL, 100)
		if len(ids) == 0 {
			fmt.Println("❌ Failed to create products for test")
			return
		}
		run(config, func(i int64) { getProduct(config.BaseURL, ids[i%int64(len(ids))], stats) })
	case "list":
		run(config, func(int64) { listProducts(config.BaseURL, stats) })
	case "category":
		run(config, func(i int64) { listCategory(config.BaseURL, categories[i%int64(len(categories))], stats) })
	case "cart":
		runCartTest(config, stats)
	case "mixed":
		runMixedTest(config, stats)
	default:
		fmt.Printf("Unknown operation: %s\n", *operation)
		return
	}

	elapsed := time.Since(startTime)

	printResults(stats, elapsed)
}

// run calls fn until the request count or the duration is exhausted, with
// at most config.Concurrency calls in flight.
func run(config LoadTestConfig, fn func(index int64)) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.Concurrency)

	requestCount := int64(0)
	endTime := time.Now().Add(config.Duration)

	for (config.Duration <= 0 || !time.Now().After(endTime)) &&
		(config.Duration != 0 || requestCount < int64(config.TotalRequests)) {
		wg.Add(1)
		semaphore <- struct{}{}
		idx := atomic.AddInt64(&requestCount, 1)

		go func(index int64) {
			defer wg.Done()
			defer func() { <-semaphore }()

			fn(index)
		}(idx)
	}

	wg.Wait()
}

func runCartTest(config LoadTestConfig, stats *Stats) {
	userID := signup(config.BaseURL)
	ids := seedProducts(config.BaseURL, 20)
	if userID == "" || len(ids) == 0 {
		fmt.Println("❌ Failed to prepare user and products for cart test")
		return
	}

	fmt.Printf("✅ Created user %s and %d products\n\n", userID, len(ids))

	run(config, func(i int64) {
		productID := ids[i%int64(len(ids))]
		if i%2 == 0 {
			editCart(config.BaseURL, "add-to-cart", userID, productID, stats)
		} else {
			editCart(config.BaseURL, "increase-cart", userID, productID, stats)
		}
	})
}

func runMixedTest(config LoadTestConfig, stats *Stats) {
	ids := seedProducts(config.BaseURL, 50)

	fmt.Printf("✅ Created %d products for mixed test\n\n", len(ids))

	run(config, func(index int64) {
		op := index % 10
		switch {
		case op < 2:
			createProduct(config.BaseURL, stats)
		case op < 6:
			if len(ids) > 0 {
				getProduct(config.BaseURL, ids[index%int64(len(ids))], stats)
			}
		case op < 8:
			listProducts(config.BaseURL, stats)
		default:
			listCategory(config.BaseURL, categories[index%int64(len(categories))], stats)
		}
	})
}

func productPayload(i int64) map[string]interface{} {
	return map[string]interface{}{
		"name":        fmt.Sprintf("Lot-%d", time.Now().UnixNano()),
		"description": "load test item",
		"price":       100 + i%900,
		"category":    categories[i%int64(len(categories))],
		"images":      []interface{}{},
	}
}

func createProduct(baseURL string, stats *Stats) string {
	return makeRequest("POST", baseURL+"/products", productPayload(time.Now().UnixNano()), stats)
}

func seedProducts(baseURL string, n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if id := idOf(makeRequestRaw("POST", baseURL+"/products", productPayload(int64(i)))); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func signup(baseURL string) string {
	payload := map[string]interface{}{
		"name":     "Load Tester",
		"email":    fmt.Sprintf("load-%d@example.com", time.Now().UnixNano()),
		"password": "loadtest",
	}
	return idOf(makeRequestRaw("POST", baseURL+"/users/signup", payload))
}

func idOf(body string) string {
	if body == "" {
		return ""
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return ""
	}

	if id, ok := result["_id"].(string); ok {
		return id
	}
	return ""
}

func getProduct(baseURL, productID string, stats *Stats) string {
	return makeRequest("GET", baseURL+"/products/"+productID, nil, stats)
}

func listProducts(baseURL string, stats *Stats) string {
	return makeRequest("GET", baseURL+"/products", nil, stats)
}

func listCategory(baseURL, category string, stats *Stats) string {
	return makeRequest("GET", baseURL+"/products/category/"+category, nil, stats)
}

func editCart(baseURL, action, userID, productID string, stats *Stats) string {
	payload := map[string]interface{}{
		"userId":    userID,
		"productId": productID,
		"price":     100,
	}
	return makeRequest("POST", baseURL+"/products/"+action, payload, stats)
}

func makeRequest(method, url string, payload interface{}, stats *Stats) string {
	start := time.Now()
	atomic.AddInt64(&stats.TotalRequests, 1)

	req, err := newRequest(method, url, payload)
	if err != nil {
		recordError(stats, err)
		return ""
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		recordError(stats, err)
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	latency := time.Since(start).Milliseconds()
	recordLatency(stats, latency)

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		atomic.AddInt64(&stats.SuccessRequests, 1)
		return string(body)
	}
	recordError(stats, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body)))
	return ""
}

func makeRequestRaw(method, url string, payload interface{}) string {
	req, err := newRequest(method, url, payload)
	if err != nil {
		return ""
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func newRequest(method, url string, payload interface{}) (*http.Request, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func recordLatency(stats *Stats, latency int64) {
	atomic.AddInt64(&stats.TotalLatency, latency)

	for {
		old := atomic.LoadInt64(&stats.MinLatency)
		if latency >= old {
			break
		}
		if atomic.CompareAndSwapInt64(&stats.MinLatency, old, latency) {
			break
		}
	}

	for {
		old := atomic.LoadInt64(&stats.MaxLatency)
		if latency <= old {
			break
		}
		if atomic.CompareAndSwapInt64(&stats.MaxLatency, old, latency) {
			break
		}
	}
}

func recordError(stats *Stats, err error) {
	atomic.AddInt64(&stats.FailedRequests, 1)
	val, _ := stats.Errors.LoadOrStore(err.Error(), new(int64))
	atomic.AddInt64(val.(*int64), 1)
}

func printResults(stats *Stats, elapsed time.Duration) {
	total := atomic.LoadInt64(&stats.TotalRequests)
	success := atomic.LoadInt64(&stats.SuccessRequests)
	failed := atomic.LoadInt64(&stats.FailedRequests)
	totalLatency := atomic.LoadInt64(&stats.TotalLatency)
	minLatency := atomic.LoadInt64(&stats.MinLatency)
	maxLatency := atomic.LoadInt64(&stats.MaxLatency)

	if total == 0 {
		fmt.Println("\nNo requests were made")
		return
	}

	fmt.Printf("\n📊 Load Test Results\n")
	fmt.Printf("═══════════════════════════════════════════════════\n")
	fmt.Printf("Total time:           %v\n", elapsed)
	fmt.Printf("Total requests:       %d\n", total)
	fmt.Printf("Successful:           %d (%.2f%%)\n", success, float64(success)/float64(total)*100)
	fmt.Printf("Failed:               %d (%.2f%%)\n", failed, float64(failed)/float64(total)*100)
	fmt.Printf("\n")
	fmt.Printf("Throughput:           %.2f req/sec\n", float64(total)/elapsed.Seconds())
	fmt.Printf("\n")
	fmt.Printf("Latency:\n")
	fmt.Printf("  Average:            %d ms\n", totalLatency/total)
	fmt.Printf("  Minimum:            %d ms\n", minLatency)
	fmt.Printf("  Maximum:            %d ms\n", maxLatency)

	if failed > 0 {
		fmt.Printf("\n❌ Errors:\n")
		stats.Errors.Range(func(key, value interface{}) bool {
			count := atomic.LoadInt64(value.(*int64))
			fmt.Printf("  [%d] %s\n", count, key.(string))
			return true
		})
	}
	fmt.Printf("═══════════════════════════════════════════════════\n")
}
