// smsctl is a thin command-line wrapper around the SDK, mostly useful for
// poking at a vendor account during development.
//
// Usage:
//
//	smsctl -provider smshub balance
//	smsctl -provider smsbower prices -service tg -country 0
//	smsctl -provider herosms rent -service tg -country 0
//	smsctl -provider smshub sms -id 12345 -timeout 120s
//	smsctl -provider smshub reactivate -id 12345
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pyhub/pyhub-go"
	"github.com/pyhub/pyhub-go/config"
	"github.com/pyhub/pyhub-go/providers"
)

func main() {
	providerFlag := flag.String("provider", "", "provider name (smshub, herosms, smsactivate, smsbower)")
	baseURLFlag := flag.String("base-url", "", "vendor endpoint override; also selects the provider when -provider is omitted")
	apiKeyFlag := flag.String("api-key", "", "vendor API key; overrides the environment")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: smsctl [-provider NAME | -base-url URL] <balance|prices|rent|sms|reactivate> [args]")
		os.Exit(2)
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client, err := buildClient(cfg, logger, *providerFlag, *baseURLFlag, *apiKeyFlag)
	if err != nil {
		logger.Fatal("client setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, client, flag.Arg(0), flag.Args()[1:]); err != nil {
		logger.Fatal("command failed",
			zap.String("command", flag.Arg(0)),
			zap.String("error_type", string(providers.GetErrorType(err))),
			zap.Error(err),
		)
	}
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Observability.LogFormat == "text" {
		zapCfg.Encoding = "console"
	}
	level, err := zapcore.ParseLevel(cfg.Observability.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Observability.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func buildClient(cfg *config.Config, logger *zap.Logger, provider, baseURL, apiKey string) (*pyhub.Client, error) {
	opts := pyhub.Options{
		Provider: provider,
		BaseURL:  baseURL,
		Logger:   logger,
	}

	// Config is keyed by canonical name, so a URL-only selection resolves
	// the vendor first.
	configName := provider
	if configName == "" && baseURL != "" {
		if name, ok := pyhub.ProviderForURL(baseURL); ok {
			configName = name
		}
	}
	if vendor, ok := cfg.Providers.ByName(configName); ok {
		opts.APIKey = vendor.APIKey
		opts.Timeout = vendor.Timeout
		opts.PollInterval = vendor.PollInterval
		if baseURL == "" && vendor.BaseURL != "" {
			opts.BaseURL = vendor.BaseURL
		}
	}
	if apiKey != "" {
		opts.APIKey = apiKey
	}
	return pyhub.GetClient(opts)
}

func run(ctx context.Context, client *pyhub.Client, command string, args []string) error {
	switch command {
	case "balance":
		balance, err := client.GetBalance(ctx)
		if err != nil {
			return err
		}
		return printJSON(balance)

	case "prices":
		fs := flag.NewFlagSet("prices", flag.ExitOnError)
		service := fs.String("service", "", "canonical service code")
		country := fs.Int("country", -1, "vendor country id")
		fs.Parse(args)

		filter := &providers.PriceFilter{Service: *service}
		if *country >= 0 {
			filter.Country = country
		}
		entries, err := client.GetPrices(ctx, filter)
		if err != nil {
			return err
		}
		return printJSON(entries)

	case "rent":
		fs := flag.NewFlagSet("rent", flag.ExitOnError)
		service := fs.String("service", "", "canonical service code")
		country := fs.Int("country", 0, "vendor country id")
		fs.Parse(args)

		activation, err := client.GetNumber(ctx, *service, *country)
		if err != nil {
			return err
		}
		return printJSON(activation)

	case "sms":
		fs := flag.NewFlagSet("sms", flag.ExitOnError)
		id := fs.String("id", "", "activation id")
		opts := providers.PollOptions{}
		fs.DurationVar(&opts.Timeout, "timeout", 0, "total poll budget (0 = single check)")
		fs.DurationVar(&opts.Interval, "interval", 0, "delay between checks")
		fs.Parse(args)

		code, err := client.GetSMS(ctx, *id, &opts)
		if err != nil {
			return err
		}
		if code == nil {
			fmt.Println("no code yet")
			return nil
		}
		return printJSON(code)

	case "reactivate":
		fs := flag.NewFlagSet("reactivate", flag.ExitOnError)
		id := fs.String("id", "", "activation id")
		fs.Parse(args)

		activation, err := client.ReactivateNumber(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(activation)
	}

	return fmt.Errorf("unknown command %q", command)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
