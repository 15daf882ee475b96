package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/2beens/liftingdiary/internal/auth"
	"github.com/2beens/liftingdiary/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
)

func newTokenCmd(opts *options) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue bearer tokens for local testing",
	}

	var (
		userID string
		ttl    time.Duration
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a token for a user id, using the configured auth mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			token, err := issueToken(cmd.Context(), cfg, userID, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	issueCmd.Flags().StringVar(&userID, "user", "", "user id the token resolves to")
	issueCmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime (jwt mode only, sessions use session_ttl_hours)")
	_ = issueCmd.MarkFlagRequired("user")

	revokeCmd := &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a session token (session mode only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.AuthMode != config.AuthModeSession {
				return fmt.Errorf("revoke needs auth_mode %q, got %q", config.AuthModeSession, cfg.AuthMode)
			}

			rdb := newRedisClient(cfg)
			defer rdb.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			return auth.NewSessionStore(cfg.SessionTTL(), rdb).Revoke(ctx, args[0])
		},
	}

	tokenCmd.AddCommand(issueCmd, revokeCmd)
	return tokenCmd
}

func newRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: os.Getenv("LIFTING_DIARY_REDIS_PASS"),
	})
}

func issueToken(ctx context.Context, cfg *config.Config, userID string, ttl time.Duration) (string, error) {
	switch cfg.AuthMode {
	case config.AuthModeSession:
		rdb := newRedisClient(cfg)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return auth.NewSessionStore(cfg.SessionTTL(), rdb).Create(ctx, userID, time.Now())
	default:
		secret := os.Getenv("LIFTING_DIARY_JWT_SECRET")
		if secret == "" {
			return "", errors.New("LIFTING_DIARY_JWT_SECRET not set")
		}
		return auth.NewJWTResolver(secret, cfg.JWTIssuer).Issue(userID, time.Now(), ttl)
	}
}
