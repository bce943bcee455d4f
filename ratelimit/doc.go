// Package ratelimit throttles outgoing calls before they are submitted.
//
// Two Limiter implementations are provided:
//
//   - TokenBucket is an in-process token bucket (rate per second plus burst).
//   - Redis is a fixed-window counter shared by every process pointing at the
//     same Redis key, for API quotas enforced per consumer key.
//
// Both implement Limiter and are consumed by httpclient.WithLimiter:
//
//	lim, err := ratelimit.New(ratelimit.Config{Backend: "memory", Rate: 5, Burst: 10}, log)
//	client, err := httpclient.New(cfg, httpclient.WithLimiter(lim))
package ratelimit
