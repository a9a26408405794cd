package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/chainregistry/warden/adapters/allowlist"
	"github.com/chainregistry/warden/adapters/challenge"
	"github.com/chainregistry/warden/adapters/events"
	"github.com/chainregistry/warden/adapters/tokenizer"
	"github.com/chainregistry/warden/adapters/verifier"
	"github.com/chainregistry/warden/ports"
	"github.com/chainregistry/warden/service"
	"github.com/chainregistry/warden/transport/http"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	signKey, err := loadSigningKey(log)
	if err != nil {
		log.Error("failed to load signing key", "error", err)
		os.Exit(1)
	}

	entries, err := allowlist.LoadFile(allowlistPath())
	if err != nil {
		log.Error("failed to load allow-list", "error", err)
		os.Exit(1)
	}
	resolver := allowlist.NewResolver(entries)

	challengeTTL := durationEnv("WARDEN_CHALLENGE_TTL", challenge.DefaultTTL)
	sessionTTL := durationEnv("WARDEN_SESSION_TTL", tokenizer.DefaultSessionTTL)

	opts := []service.Option{service.WithLogger(log)}
	if os.Getenv("WARDEN_ADMIN_GATE") == "true" {
		opts = append(opts, service.WithAdminGate())
	}

	var store ports.ChallengeStore
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Error("failed to parse redis URL", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Error("failed to create event publisher", "error", err)
			os.Exit(1)
		}

		store = challenge.NewRedisStore(redisClient, challengeTTL)
		opts = append(opts, service.WithEventPublisher(events.NewWatermillPublisher(publisher)))
	} else {
		log.Info("REDIS_URL not set, using in-memory challenge store")
		store = challenge.NewMemoryStore(challengeTTL)
	}

	authService := service.NewAuthService(
		store,
		verifier.NewPersonalSign(),
		resolver,
		tokenizer.NewJWTTokenizer(signKey, sessionTTL),
		opts...,
	)

	// SIGHUP re-reads the allow-list and swaps in a fresh snapshot.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			entries, err := allowlist.LoadFile(allowlistPath())
			if err != nil {
				log.Error("allow-list reload failed, keeping current snapshot", "error", err)
				continue
			}
			resolver.Reload(entries)
			log.Info("allow-list reloaded", "entries", len(entries))
		}
	}()

	router := http.SetupRouter(authService)

	addr := os.Getenv("WARDEN_LISTEN")
	if addr == "" {
		addr = ":9000"
	}
	log.Info("starting warden", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func allowlistPath() string {
	if path := os.Getenv("WARDEN_ALLOWLIST"); path != "" {
		return path
	}
	return "allowlist.yaml"
}

// loadSigningKey reads a hex-encoded SEC1 EC key from WARDEN_SIGNING_KEY.
// Without one, a fresh key is generated; tokens then die with the process.
func loadSigningKey(log *slog.Logger) (*ecdsa.PrivateKey, error) {
	raw := os.Getenv("WARDEN_SIGNING_KEY")
	if raw == "" {
		log.Warn("WARDEN_SIGNING_KEY not set, generating ephemeral signing key")
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	}

	der, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("signing key is not valid hex: %w", err)
	}
	key, err := x509.ParseECPrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("signing key is not a valid EC key: %w", err)
	}
	return key, nil
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration, using default", "var", name, "value", raw)
		return fallback
	}
	return d
}
