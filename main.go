package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Saurasai/pmv2/config"
	"github.com/Saurasai/pmv2/generator"
	"github.com/Saurasai/pmv2/logger"
	"github.com/Saurasai/pmv2/publisher"
	"github.com/Saurasai/pmv2/server"
	"github.com/Saurasai/pmv2/store"
)

func main() {
	configPath := flag.String("config", "", "path to config.json (optional, env-only setups supported)")
	addr := flag.String("addr", "", "http listen address (overrides config.server_addr)")
	mockLLM := flag.Bool("mock-llm", false, "use the mock LLM client instead of a live model")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	llm, err := buildLLM(cfg, *mockLLM)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pipeline, err := generator.NewPipeline(llm, generator.NewTemplates(cfg.Templates), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer st.Close()

	var cipher *publisher.TokenCipher
	if cfg.EncryptionKey != "" {
		cipher, err = publisher.NewTokenCipher(cfg.EncryptionKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		log.Warn("no encryption key configured; platform token storage disabled")
	}

	var twitter *publisher.TwitterClient
	if cfg.Twitter != nil && cfg.Twitter.BearerToken != "" {
		twitter, err = publisher.NewTwitterClient(cfg.Twitter.BearerToken, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		log.Warn("no twitter credentials configured; twitter posting disabled")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	pub := publisher.New(twitter, server.NewTokenSource(st, cipher), httpClient, log)

	srv, err := server.New(cfg, st, pipeline, pub, cipher, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	listen := cfg.ServerAddr
	if *addr != "" {
		listen = *addr
	}
	log.Info("starting server", logger.String("addr", listen))
	if err := srv.Routes().Run(listen); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildLLM(cfg config.Config, mock bool) (generator.LLMClient, error) {
	if mock {
		return generator.MockLLM{}, nil
	}
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("llm config missing; set llm.provider/model/api_key or pass -mock-llm")
	}
	settings := &generator.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	}
	switch cfg.LLM.Provider {
	case "openai":
		return generator.NewOpenAILLM(settings)
	case "deepseek", "gemini":
		// OpenAI-compatible gateways; base_url is mandatory.
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider %s requires base_url (OpenAI-compatible endpoint)", cfg.LLM.Provider)
		}
		return generator.NewOpenAILLM(settings)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
