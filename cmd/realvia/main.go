// Command realvia runs the real estate assistant: `serve` exposes the HTTP
// API and WhatsApp webhook, `chat` opens an interactive console session.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/realvia/realvia"
	anthropicmodel "github.com/realvia/realvia/model/anthropic"
	openaimodel "github.com/realvia/realvia/model/openai"

	"github.com/realvia/realvia/config"
	"github.com/realvia/realvia/core"
	"github.com/realvia/realvia/httpapi"
	"github.com/realvia/realvia/logging"
	"github.com/realvia/realvia/model"
	"github.com/realvia/realvia/realty"
	"github.com/realvia/realvia/session"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "realvia",
		Short:         "Conversational real estate assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	loadConfig := func() (*config.Config, error) {
		if configPath == "" {
			return config.Default(), nil
		}
		return config.Load(configPath)
	}

	root.AddCommand(newServeCmd(loadConfig))
	root.AddCommand(newChatCmd(loadConfig))
	return root
}

func newServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and WhatsApp webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}

			logger, sync := newLogger(cfg.Logging)
			defer sync()

			assistant, err := buildAssistant(cfg, logger)
			if err != nil {
				return err
			}

			server := httpapi.NewServer(assistant, func(o *httpapi.Options) {
				o.VerifyToken = cfg.HTTP.VerifyToken
				o.Logger = logger
				if token := os.Getenv("WHATSAPP_ACCESS_TOKEN"); token != "" {
					o.Sender = httpapi.NewCloudSender(token, os.Getenv("WHATSAPP_PHONE_NUMBER_ID"))
				}
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, cfg.HTTP.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides config")
	return cmd
}

func newChatCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant on the console",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, sync := newLogger(cfg.Logging)
			defer sync()

			assistant, err := buildAssistant(cfg, logger)
			if err != nil {
				return err
			}

			fmt.Printf("%s from %s. Type your message, or \"exit\" to quit.\n",
				cfg.Assistant.AgentName, cfg.Assistant.CompanyName)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				reply, err := assistant.Handle(cmd.Context(), conversationID, line)
				if err != nil {
					return err
				}
				fmt.Println(reply)
			}
		},
	}
	cmd.Flags().StringVar(&conversationID, "conversation", "console", "conversation id for the session")
	return cmd
}

// buildAssistant assembles the assistant from configuration: model provider,
// session store, retry policy and optional SMTP mailer.
func buildAssistant(cfg *config.Config, logger logging.Logger) (*realvia.Assistant, error) {
	llm, err := buildModel(cfg.Model)
	if err != nil {
		return nil, err
	}

	store := session.NewInMemoryStore(func(o *session.Options) {
		o.ShardCount = cfg.Session.ShardCount
		o.MaxSessionsPerShard = cfg.Session.MaxSessionsPerShard
	})

	return realvia.New(llm, func(o *realvia.Options) {
		o.CompanyName = cfg.Assistant.CompanyName
		o.AgentName = cfg.Assistant.AgentName
		o.WindowEntries = cfg.Assistant.WindowEntries
		o.Store = store
		o.Logger = logger
		o.Retry = core.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff:     core.ExponentialBackoff(cfg.Retry.BackoffBaseDuration()),
			Clock:       core.SystemClock,
		}
		if cfg.EmailEnabled() {
			o.Mailer = realty.NewSMTPMailer(cfg.SMTP.Username, cfg.SMTP.Password, func(s *realty.SMTPOptions) {
				s.Host = cfg.SMTP.Host
				s.Port = cfg.SMTP.Port
				s.SenderName = cfg.SMTP.SenderName
			})
		}
	})
}

func buildModel(cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.Name != "" {
				o.Model = anthropic.Model(cfg.Name)
			}
			o.APIKey = cfg.APIKey
		}), nil
	case config.ProviderOpenAI:
		var clientOpts []option.RequestOption
		if cfg.APIKey != "" {
			clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
		}
		client := openaisdk.NewClient(clientOpts...)
		return openaimodel.NewModelFromClient(&client, func(o *openaimodel.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// newLogger builds the zap-backed logger from config, returning a flush
// function for process exit.
func newLogger(cfg config.LoggingConfig) (logging.Logger, func()) {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level = parsed
	}

	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	zl, err := zcfg.Build()
	if err != nil {
		return logging.NewDefaultSlogLogger(), func() {}
	}
	return logging.NewZapAdapter(zl), func() { _ = zl.Sync() }
}
