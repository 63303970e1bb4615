package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"veriflow/internal/quota/models"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/sentinel"
	"veriflow/pkg/requestcontext"
)

// Record hashes and the per-customer index share a {customer} hash tag so the
// scripts touch a single cluster slot.
func recordKey(key models.Key) string {
	return fmt.Sprintf("quota:{%s}:%s:%d", key.CustomerID, key.RequestorID, key.Year)
}

func indexKey(customerID id.UserID, year int) string {
	return fmt.Sprintf("quota:{%s}:requestors:%d", customerID, year)
}

var recordFields = []string{"request_count", "total_requests", "max_allowed", "created_at", "updated_at"}

// KEYS[1] record hash, KEYS[2] customer index.
// ARGV: default max allowed, rolling cap, block flag, now (unix nanos), now (unix millis), requestor id.
var incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	redis.call('HSET', KEYS[1],
		'request_count', 1,
		'total_requests', 1,
		'max_allowed', ARGV[1],
		'created_at', ARGV[4],
		'updated_at', ARGV[4])
	redis.call('ZADD', KEYS[2], ARGV[5], ARGV[6])
else
	local count = tonumber(redis.call('HGET', KEYS[1], 'request_count'))
	if ARGV[3] == '0' and count >= tonumber(ARGV[2]) then
		count = 1
	else
		count = count + 1
	end
	redis.call('HSET', KEYS[1], 'request_count', count, 'updated_at', ARGV[4])
	redis.call('HINCRBY', KEYS[1], 'total_requests', 1)
end
return redis.call('HMGET', KEYS[1], 'request_count', 'total_requests', 'max_allowed', 'created_at', 'updated_at')
`)

// KEYS[1] record hash, KEYS[2] customer index.
// ARGV: max allowed, now (unix nanos), now (unix millis), requestor id.
var setMaxScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	redis.call('HSET', KEYS[1],
		'request_count', 0,
		'total_requests', 0,
		'created_at', ARGV[2])
	redis.call('ZADD', KEYS[2], ARGV[3], ARGV[4])
end
redis.call('HSET', KEYS[1], 'max_allowed', ARGV[1], 'updated_at', ARGV[2])
return redis.call('HMGET', KEYS[1], 'request_count', 'total_requests', 'max_allowed', 'created_at', 'updated_at')
`)

// RedisStore keeps quota records in Redis hashes. Mutations run as Lua
// scripts, which Redis executes atomically.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key models.Key) (*models.QuotaRecord, error) {
	vals, err := s.client.HMGet(ctx, recordKey(key), recordFields...).Result()
	if err != nil {
		return nil, fmt.Errorf("get quota record: %w", err)
	}
	if vals[0] == nil {
		return nil, sentinel.ErrNotFound
	}
	return parseRecord(key, vals)
}

func (s *RedisStore) Increment(ctx context.Context, key models.Key, policy models.Policy) (*models.QuotaRecord, error) {
	now := requestcontext.Now(ctx)
	block := "0"
	if policy.BlockOnRollingCap {
		block = "1"
	}
	vals, err := incrementScript.Run(ctx, s.client,
		[]string{recordKey(key), indexKey(key.CustomerID, key.Year)},
		policy.DefaultMaxAllowed,
		policy.RollingCap,
		block,
		now.UnixNano(),
		now.UnixMilli(),
		key.RequestorID.String(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("increment quota record: %w", err)
	}
	return parseRecord(key, vals)
}

func (s *RedisStore) ListByCustomer(ctx context.Context, customerID id.UserID, year int) ([]*models.QuotaRecord, error) {
	requestors, err := s.client.ZRange(ctx, indexKey(customerID, year), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list quota requestors: %w", err)
	}
	if len(requestors) == 0 {
		return nil, nil
	}

	keys := make([]models.Key, 0, len(requestors))
	cmds := make([]*redis.SliceCmd, 0, len(requestors))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, raw := range requestors {
			u, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("parse indexed requestor %q: %w", raw, err)
			}
			key := models.NewKey(customerID, id.UserID(u), year)
			keys = append(keys, key)
			cmds = append(cmds, p.HMGet(ctx, recordKey(key), recordFields...))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load quota records: %w", err)
	}

	out := make([]*models.QuotaRecord, 0, len(cmds))
	for i, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil {
			return nil, fmt.Errorf("load quota record: %w", err)
		}
		if vals[0] == nil {
			continue
		}
		rec, err := parseRecord(keys[i], vals)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) SetMaxAllowed(ctx context.Context, key models.Key, maxAllowed int) (*models.QuotaRecord, error) {
	now := requestcontext.Now(ctx)
	vals, err := setMaxScript.Run(ctx, s.client,
		[]string{recordKey(key), indexKey(key.CustomerID, key.Year)},
		maxAllowed,
		now.UnixNano(),
		now.UnixMilli(),
		key.RequestorID.String(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("set quota max allowed: %w", err)
	}
	return parseRecord(key, vals)
}

func parseRecord(key models.Key, vals []any) (*models.QuotaRecord, error) {
	if len(vals) != len(recordFields) {
		return nil, errors.New("unexpected quota record shape")
	}
	ints := make([]int64, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("quota field %s missing", recordFields[i])
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse quota field %s: %w", recordFields[i], err)
		}
		ints[i] = n
	}
	return &models.QuotaRecord{
		CustomerID:         key.CustomerID,
		RequestorID:        key.RequestorID,
		Year:               key.Year,
		RequestCount:       int(ints[0]),
		TotalRequests:      int(ints[1]),
		MaxAllowedRequests: int(ints[2]),
		CreatedAt:          time.Unix(0, ints[3]).UTC(),
		UpdatedAt:          time.Unix(0, ints[4]).UTC(),
	}, nil
}
