package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/liftingdiary/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultSessionTTL = 24 * 7 * time.Hour
	sessionKeyPrefix  = "lifting-diary-session||"
	tokensSetKey      = "lifting-diary-sessions"

	fieldUserID    = "user_id"
	fieldCreatedAt = "created_at"
)

// SessionStore keeps opaque session tokens in redis, each mapped to the user
// it was created for.
type SessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewSessionStore(ttl time.Duration, redisClient *redis.Client) *SessionStore {
	return &SessionStore{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (s *SessionStore) Create(ctx context.Context, userID string, createdAt time.Time) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("create session: empty user id")
	}

	token, err := s.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	cmdHSet := s.redisClient.HSet(ctx, sessionKey, fieldUserID, userID, fieldCreatedAt, createdAt.Unix())
	if err := cmdHSet.Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	cmdSAdd := s.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}

	userID, createdAt, err := s.get(ctx, token)
	if err != nil {
		return "", err
	}
	if time.Since(createdAt) > s.ttl {
		return "", fmt.Errorf("%w: session expired", ErrInvalidToken)
	}

	return userID, nil
}

func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	sessionKey := sessionKeyPrefix + token
	if err := s.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return err
	}

	// remove token from the list of sessions
	return s.redisClient.SRem(ctx, tokensSetKey, token).Err()
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (s *SessionStore) ScanAndClean(ctx context.Context) {
	cmd := s.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("session store, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("session store, scan and clean abort, no sessions")
		return
	}

	log.Debugf("session store, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		_, createdAt, err := s.get(ctx, token)
		if err != nil {
			log.Warnf("session store, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}
		if time.Since(createdAt) > s.ttl {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := s.Revoke(ctx, token); err != nil {
			log.Errorf("session store, clean token %s: %s", token, err)
		}
	}
	log.Debugf("session store, cleaned %d sessions", len(toRemove))
}

func (s *SessionStore) get(ctx context.Context, token string) (string, time.Time, error) {
	cmd := s.redisClient.HGetAll(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("get session: %w", err)
	}

	fields := cmd.Val()
	userID := fields[fieldUserID]
	if userID == "" {
		return "", time.Time{}, ErrInvalidToken
	}

	createdAtUnix, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: bad session timestamp: %w", ErrInvalidToken, err)
	}

	return userID, time.Unix(createdAtUnix, 0), nil
}
