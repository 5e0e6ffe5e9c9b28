package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ratewindow/redis-rate-limit/pkg/ratelimit"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	v := viper.New()
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("max_requests", 5)
	v.SetDefault("window", time.Second)
	v.AutomaticEnv()

	client := redis.NewClient(&redis.Options{Addr: v.GetString("redis_addr")})

	store, err := ratelimit.NewRedisStore(client,
		ratelimit.WithPrefix("demo:"),
		ratelimit.WithTimeout(100*time.Millisecond),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to redis")
	}

	reg := prometheus.NewRegistry()
	recorder := ratelimit.NewPrometheusRecorder(reg)

	// One quota configuration policing every client IP independently.
	limiter := ratelimit.NewRateLimiter(store, "ping",
		v.GetInt64("max_requests"), v.GetDuration("window"),
		ratelimit.WithRecorder(recorder),
	)

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	http.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		ip, _, _ := net.SplitHostPort(r.RemoteAddr)

		err := limiter.Limit(ip).Do(r.Context(), func(usage int64) error {
			w.Header().Set("X-RateLimit-Used", fmt.Sprintf("%d", usage))
			_, err := w.Write([]byte("Pong!\n"))
			return err
		})
		if err == nil {
			return
		}

		var rejected *ratelimit.LimitExceededError
		if errors.As(err, &rejected) {
			w.Header().Set("Retry-After", fmt.Sprintf("%.2f", rejected.RetryAfter.Seconds()))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("Rate limit exceeded\n"))
			return
		}

		// Fail open or closed? Here we fail open: allow traffic when the
		// store is unreachable, but say so.
		logger.Warn().Err(err).Str("ip", ip).Msg("limiter unavailable, allowing request")
		w.Write([]byte("Pong!\n"))
	})

	addr := v.GetString("listen_addr")
	logger.Info().
		Str("addr", addr).
		Str("redis", v.GetString("redis_addr")).
		Int64("max_requests", v.GetInt64("max_requests")).
		Dur("window", v.GetDuration("window")).
		Msg("server listening")
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
