package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/apperror"
	"edupath-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "edupath:session:"

// Hash fields. Each entity field is stored as its own JSON-encoded value so
// a stage can overwrite exactly the fields it owns in one HSET.
const (
	hashId            = "id"
	hashConversation  = "conversation"
	hashProfileText   = "profile_text"
	hashProfileVector = "profile_vector"
	hashStatus        = entity.SessionFieldStatus
	hashTargetList    = entity.SessionFieldTargetList
	hashReachList     = entity.SessionFieldReachList
	hashTimeline      = entity.SessionFieldTimeline
	hashCreatedAt     = "created_at"
	hashUpdatedAt     = "updated_at"
)

// createScript writes the whole hash and its TTL only if the key is new.
// ARGV[1] is the TTL in milliseconds (0 keeps the hash forever), the rest are field/value pairs.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV, 2))
local ttl = tonumber(ARGV[1])
if ttl > 0 then
	redis.call('PEXPIRE', KEYS[1], ttl)
end
return 1
`)

// updateScript writes ARGV pairs into the hash only if it still exists.
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepository stores one hash per session. ttl <= 0 keeps sessions forever.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration) contract.AdvisingSessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func (r *SessionRepository) Create(ctx context.Context, session *entity.AdvisingSession) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	values, err := EncodeSession(session)
	if err != nil {
		return err
	}

	created, err := createScript.Run(ctx, r.rdb, []string{sessionKey(session.Id)}, createArgs(values, r.ttl)...).Int()
	if err != nil {
		return err
	}
	if created == 0 {
		return fmt.Errorf("session %s already exists", session.Id)
	}
	return nil
}

// createArgs lays out createScript's ARGV: TTL first, then field/value pairs in field order.
func createArgs(values map[string]string, ttl time.Duration) []interface{} {
	fields := make([]string, 0, len(values))
	for k := range values {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	args := make([]interface{}, 0, 1+2*len(fields))
	args = append(args, max(ttl.Milliseconds(), 0))
	for _, f := range fields {
		args = append(args, f, values[f])
	}
	return args
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*entity.AdvisingSession, error) {
	values, err := r.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return DecodeSession(values)
}

func (r *SessionRepository) Update(ctx context.Context, session *entity.AdvisingSession, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	now := time.Now()
	session.UpdatedAt = &now

	all, err := EncodeSession(session)
	if err != nil {
		return err
	}

	args := make([]interface{}, 0, 2*(len(fields)+1))
	for _, f := range fields {
		switch f {
		case hashStatus, hashTargetList, hashReachList, hashTimeline:
			args = append(args, f, all[f])
		default:
			return fmt.Errorf("%w: session field %q is not updatable", apperror.ErrInvalidInput, f)
		}
	}
	args = append(args, hashUpdatedAt, all[hashUpdatedAt])

	ok, err := updateScript.Run(ctx, r.rdb, []string{sessionKey(session.Id)}, args...).Int()
	if err != nil {
		return err
	}
	if ok == 0 {
		return apperror.ErrSessionNotFound
	}
	return nil
}

// EncodeSession flattens a session into hash field values.
func EncodeSession(s *entity.AdvisingSession) (map[string]string, error) {
	out := map[string]string{
		hashId:          s.Id,
		hashProfileText: s.ProfileText,
		hashStatus:      string(s.Status),
		hashCreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if s.UpdatedAt != nil {
		out[hashUpdatedAt] = s.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	jsonFields := map[string]interface{}{
		hashConversation:  s.Conversation,
		hashProfileVector: s.ProfileVector,
		hashTargetList:    s.TargetList,
		hashReachList:     s.ReachList,
		hashTimeline:      s.Timeline,
	}
	for field, v := range jsonFields {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", field, err)
		}
		out[field] = string(b)
	}
	return out, nil
}

// DecodeSession rebuilds a session from hash field values. Missing fields stay zero.
func DecodeSession(values map[string]string) (*entity.AdvisingSession, error) {
	s := &entity.AdvisingSession{
		Id:          values[hashId],
		ProfileText: values[hashProfileText],
		Status:      entity.SessionStatus(values[hashStatus]),
	}

	if v := values[hashCreatedAt]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", hashCreatedAt, err)
		}
		s.CreatedAt = t
	}
	if v := values[hashUpdatedAt]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", hashUpdatedAt, err)
		}
		s.UpdatedAt = &t
	}

	targets := map[string]interface{}{
		hashConversation:  &s.Conversation,
		hashProfileVector: &s.ProfileVector,
		hashTargetList:    &s.TargetList,
		hashReachList:     &s.ReachList,
		hashTimeline:      &s.Timeline,
	}
	for field, dst := range targets {
		raw, ok := values[field]
		if !ok || raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", field, err)
		}
	}
	return s, nil
}
