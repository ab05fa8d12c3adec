package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"impresso-sampler/lib/configutil"
	"impresso-sampler/lib/impresso/auth"
	"impresso-sampler/lib/serviceutil"
	"impresso-sampler/services/sampler"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "impresso-sampler",
	Short: "impresso-sampler draws a stratified random sample of article UIDs from the Impresso archive.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type ApiConfig struct {
	BaseUrl string `json:"base_url"`
	// a fixed bearer token; IMPRESSO_API_TOKEN is read when empty
	Token string `json:"token"`
	// a file an external login flow keeps fresh
	TokenFile string `json:"token_file"`
	// argv of an external login flow that prints a token
	TokenCommand []string `json:"token_command"`
}

type SessionConfig struct {
	TtlSeconds  int `json:"ttl_seconds"`
	HintSeconds int `json:"hint_seconds"`
	// sqlite file caching the last acquired token across runs,
	// disabled when empty
	TokenDb string `json:"token_db"`
}

type SamplerConfig struct {
	LimitPerQuery int     `json:"limit_per_query"`
	MaxHits       int     `json:"max_hits"`
	DelaySeconds  float64 `json:"delay_seconds"`
}

type Config struct {
	Api     ApiConfig     `json:"api"`
	Session SessionConfig `json:"session"`
	Sampler SamplerConfig `json:"sampler"`
}

// Most specific wins: command > file > static token > environment.
func providerFromConfig(cfg Config) (auth.Provider, func(), error) {
	var provider auth.Provider
	switch {
	case len(cfg.Api.TokenCommand) > 0:
		provider = auth.CommandProvider{Command: cfg.Api.TokenCommand}
	case cfg.Api.TokenFile != "":
		provider = auth.TokenFileProvider{Path: cfg.Api.TokenFile}
	case cfg.Api.Token != "":
		provider = auth.StaticTokenProvider{Token: cfg.Api.Token}
	case os.Getenv("IMPRESSO_API_TOKEN") != "":
		provider = auth.StaticTokenProvider{Token: os.Getenv("IMPRESSO_API_TOKEN")}
	default:
		return nil, nil, fmt.Errorf("no token source configured, set api.token, api.token_file, api.token_command or IMPRESSO_API_TOKEN")
	}

	cleanup := func() {}
	if cfg.Session.TokenDb != "" {
		store, err := sampler.OpenTokenStore(cfg.Session.TokenDb)
		if err != nil {
			return nil, nil, fmt.Errorf("open token db: %w", err)
		}
		provider = sampler.StoredTokenProvider{
			Store: store,
			Next:  provider,
			TTL:   sessionTTL(cfg),
		}
		cleanup = func() { store.Close() }
	}
	return provider, cleanup, nil
}

func sessionTTL(cfg Config) (ttl time.Duration) {
	ttl = sampler.DefaultSessionTTL
	if cfg.Session.TtlSeconds > 0 {
		ttl = time.Duration(cfg.Session.TtlSeconds) * time.Second
	}
	return ttl
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}
