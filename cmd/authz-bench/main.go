// Command authz-bench seeds an ACL tree and measures decision throughput
// under concurrent load, with an optional mutation churn phase to exercise
// cache invalidation.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goAuthz "github.com/MrEthical07/goAuthz"
	"github.com/MrEthical07/goAuthz/permission"
)

func main() {
	var (
		resources   = flag.Int("resources", 10000, "number of resources to seed")
		principals  = flag.Int("principals", 1000, "number of distinct principals")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (decide + churn)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "authz", "ACL key prefix")
		cacheSize   = flag.Int("cache-size", 100000, "decision cache size")
	)
	flag.Parse()

	if *resources <= 0 || *principals <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "resources, principals, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  *redis.Client
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := goAuthz.DefaultConfig()
	cfg.Cache.Size = *cacheSize
	cfg.Storage.RedisPrefix = *prefix

	engine, err := goAuthz.New().
		WithConfig(cfg).
		WithRedis(client).
		WithMetricsEnabled(true).
		WithRule("doc.read", goAuthz.Rule{RequiredMask: permission.Read}).
		WithRule("doc.write", goAuthz.Rule{RequiredMask: permission.Write}).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	admin := goAuthz.Principal{ID: "seed-admin", Authorities: []string{"ROLE_ADMIN"}}

	fmt.Printf("seeding %d resources for %d principals...\n", *resources, *principals)
	startSeed := time.Now()
	oids := make([]goAuthz.ResourceIdentity, *resources)
	for i := 0; i < *resources; i++ {
		oid := goAuthz.ResourceIdentity{Type: "Document", ID: fmt.Sprintf("doc-%d", i)}
		oids[i] = oid
		if err := engine.CreateResource(ctx, admin, oid, nil, false); err != nil {
			fmt.Fprintf(os.Stderr, "seed create failed: %v\n", err)
			os.Exit(1)
		}
		// One principal gets read per resource, round-robin, so the decide
		// phase exercises both grant and deny paths.
		sid := fmt.Sprintf("user-%d", i%*principals)
		if err := engine.GrantPermission(ctx, admin, oid, sid, permission.Read); err != nil {
			fmt.Fprintf(os.Stderr, "seed grant failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	decideStats := runDecidePhase(ctx, engine, oids, *principals, *ops, *concurrency)
	churnStats := runChurnPhase(ctx, engine, admin, oids, *principals, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("decide", decideStats)
	printStats("churn", churnStats)

	snap := engine.MetricsSnapshot()
	fmt.Printf("cache: hits=%d misses=%d\n",
		snap.Counters[goAuthz.MetricCacheHit],
		snap.Counters[goAuthz.MetricCacheMiss],
	)
}

func runDecidePhase(ctx context.Context, engine *goAuthz.Engine, oids []goAuthz.ResourceIdentity, principals, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(oids))
				p := goAuthz.Principal{ID: fmt.Sprintf("user-%d", r.Intn(principals))}
				res := &goAuthz.Resource{Identity: oids[idx]}

				t0 := time.Now()
				d := engine.Decide(ctx, p, "doc.read", res)
				dur := time.Since(t0)
				if d.Err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, dur)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runChurnPhase(ctx context.Context, engine *goAuthz.Engine, admin goAuthz.Principal, oids []goAuthz.ResourceIdentity, principals, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				oid := oids[r.Intn(len(oids))]
				sid := fmt.Sprintf("churn-%d", r.Intn(principals))

				t0 := time.Now()
				var err error
				if i%2 == 0 {
					err = engine.GrantPermission(ctx, admin, oid, sid, permission.Write)
				} else {
					err = engine.RevokePermission(ctx, admin, oid, sid)
				}
				dur := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, dur)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
