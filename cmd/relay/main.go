package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rv2ven/rv2-relay/internal/api"
	"github.com/rv2ven/rv2-relay/internal/biz/usecase"
	"github.com/rv2ven/rv2-relay/internal/conf"
	"github.com/rv2ven/rv2-relay/internal/data"
	"github.com/rv2ven/rv2-relay/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts conf.LoadOptions

	root := &cobra.Command{
		Use:           "relay",
		Short:         "Mail and chat relay for the RV2 website",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "env file probed before .env.mail and .env (overrides "+conf.EnvFileVar+")")
	root.PersistentFlags().IntVar(&opts.Port, "port", 0, "listen port (overrides PORT)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	check := &cobra.Command{
		Use:   "check-config",
		Short: "Print the effective configuration without secrets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conf.Load(opts)
			if err != nil {
				return err
			}
			printConfig(cmd, cfg)
			for _, w := range conf.DialectWarnings(conf.EnvFiles(opts)...) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return nil
		},
	}

	root.AddCommand(serve, check)
	return root
}

func runServe(ctx context.Context, opts conf.LoadOptions) error {
	cfg, err := conf.Load(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return err
	}
	defer log.Sync()

	if cfg.Prompts.Source != "" {
		log.Info("prompts loaded", zap.String("path", cfg.Prompts.Source))
	}

	// Initialize repository layer
	repos := data.NewRepositories(cfg, log)

	// Initialize usecase layer
	mailUC := usecase.NewMailUsecase(repos.Mail, cfg.ToMailSettings())
	chatUC := usecase.NewChatUsecase(repos.Chat, cfg.ToChatSettings())

	srv := api.NewServer(mailUC, chatUC, log, cfg.Server.Port)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server listen error", zap.Error(err))
			return err
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
			return err
		}
		log.Info("server shutdown complete")
		return nil
	})

	return eg.Wait()
}

func printConfig(cmd *cobra.Command, cfg *conf.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "port:             %d\n", cfg.Server.Port)
	fmt.Fprintf(out, "resend key:       %s\n", configured(cfg.Mail.APIKey != ""))
	fmt.Fprintf(out, "form from:        %s\n", cfg.Mail.FormFrom)
	fmt.Fprintf(out, "chat from:        %s\n", cfg.Mail.ChatFrom)
	fmt.Fprintf(out, "recipients:       %v\n", cfg.Mail.Recipients)
	fmt.Fprintf(out, "mail time zone:   %s\n", cfg.Mail.Location())
	fmt.Fprintf(out, "chat provider:    %s\n", cfg.Chat.Provider)
	fmt.Fprintf(out, "chat key (%s): %s\n", cfg.Chat.ChatKeyName(), configured(cfg.Chat.ChatKeyConfigured()))
	source := cfg.Prompts.Source
	if source == "" {
		source = "built-in"
	}
	fmt.Fprintf(out, "prompts:          %s\n", source)
}

func configured(ok bool) string {
	if ok {
		return "set"
	}
	return "missing"
}
