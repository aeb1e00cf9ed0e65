package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dovakin0007.com/notes-moderation/internal/auth"
	"dovakin0007.com/notes-moderation/internal/config"
	"dovakin0007.com/notes-moderation/internal/logger"
	"dovakin0007.com/notes-moderation/internal/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := config.New()

	rootCmd := &cobra.Command{
		Use:           "notes-server",
		Short:         "Notes service with a moderation workflow over gRPC and HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (json or console)")
	rootCmd.PersistentFlags().String("store", "", "Store driver (postgres, gorm, memory)")
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("store_driver", rootCmd.PersistentFlags().Lookup("store"))

	rootCmd.AddCommand(newServeCmd(v), newMigrateCmd(v), newTokenCmd(v))
	return rootCmd
}

func newLogger(v *viper.Viper) zerolog.Logger {
	return logger.New(os.Stdout, v.GetString("log_level"), v.GetString("log_format"))
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(v)
			cfg, err := config.Load(v)
			if err != nil {
				log.Error().Err(err).Msg("invalid configuration")
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := serve(ctx, cfg, log); err != nil {
				log.Error().Err(err).Msg("server stopped with error")
				return err
			}
			return nil
		},
	}
	cmd.Flags().Int("grpc-port", 0, "The gRPC server port")
	cmd.Flags().Int("http-port", 0, "The HTTP server port")
	cmd.Flags().Bool("consul", false, "Register the gRPC service in consul")
	_ = v.BindPFlag("grpc_port", cmd.Flags().Lookup("grpc-port"))
	_ = v.BindPFlag("http_port", cmd.Flags().Lookup("http-port"))
	_ = v.BindPFlag("consul_enabled", cmd.Flags().Lookup("consul"))
	return cmd
}

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(v)
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			log.Info().Str("driver", cfg.StoreDriver).Msg("schema migrated")
			return nil
		},
	}
}

func newTokenCmd(v *viper.Viper) *cobra.Command {
	var (
		userID string
		role   string
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, issuer, err := config.LoadToken(v)
			if err != nil {
				return err
			}
			signer, err := auth.NewSigner(secret, issuer)
			if err != nil {
				return err
			}
			r, ok := models.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q", role)
			}
			actor := models.Actor{ID: userID, Role: r}
			if name != "" {
				actor.DisplayName = &name
			}
			tok, err := signer.Issue(actor, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Actor id (token subject)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleUser), "Actor role")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
