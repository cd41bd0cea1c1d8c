package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

var ErrNoJWKSource = errors.New("one of ACCOUNTS_JWKS_FILE or ACCOUNTS_JWKS_URL is required")

// loadKeys fills keys from the configured JWKS source. A file takes
// precedence over a URL.
func loadKeys(ctx context.Context, cfg Config, keys *jwtx.KeySet, client *http.Client) error {
	var (
		jwks jwtx.JWKS
		err  error
	)

	switch {
	case cfg.JWKSFile != "":
		jwks, err = jwtx.ReadJWKSFile(cfg.JWKSFile)
	case cfg.JWKSURL != "":
		jwks, err = jwtx.FetchJWKS(ctx, client, cfg.JWKSURL)
	default:
		return ErrNoJWKSource
	}
	if err != nil {
		return err
	}
	if len(jwks.Keys) == 0 {
		return errors.New("JWKS contains no keys")
	}

	if err := keys.Reset(jwks); err != nil {
		return fmt.Errorf("failed to load JWKS: %w", err)
	}
	return nil
}

// KeyRefresher periodically re-fetches a remote JWKS so rotated issuer keys
// are picked up without a restart. A failed fetch keeps the current keys.
type KeyRefresher struct {
	cfg      Config
	keys     *jwtx.KeySet
	client   *http.Client
	logger   *slog.Logger
	interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewKeyRefresher(cfg Config, keys *jwtx.KeySet, logger *slog.Logger) *KeyRefresher {
	interval := cfg.JWKSRefreshInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	return &KeyRefresher{
		cfg:      cfg,
		keys:     keys,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the refresher in the background. Call Stop to shut it down.
func (r *KeyRefresher) Start() {
	go r.run()
	r.logger.Info("jwks refresher started", "url", r.cfg.JWKSURL, "interval", r.interval)
}

// Stop shuts the refresher down.
func (r *KeyRefresher) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *KeyRefresher) run() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Refresh(context.Background())
		case <-r.stopCh:
			return
		}
	}
}

// Refresh performs one fetch.
func (r *KeyRefresher) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.client.Timeout)
	defer cancel()

	if err := loadKeys(ctx, r.cfg, r.keys, r.client); err != nil {
		r.logger.Warn("jwks refresh failed, keeping current keys", "error", err)
		return
	}
	r.logger.Debug("jwks refreshed")
}
