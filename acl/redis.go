package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage persists ACL records in Redis: one JSON blob per node plus a
// set per node listing its children, so subtree operations need no scans.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage creates a storage over the given client. The prefix
// namespaces all keys; empty defaults to "authz".
func NewRedisStorage(client *redis.Client, prefix string) (*RedisStorage, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if prefix == "" {
		prefix = "authz"
	}
	return &RedisStorage{client: client, prefix: prefix}, nil
}

func (s *RedisStorage) nodeKey(oid ObjectIdentity) string {
	return fmt.Sprintf("%s:node:%s:%s", s.prefix, oid.Type, oid.ID)
}

func (s *RedisStorage) childrenKey(oid ObjectIdentity) string {
	return fmt.Sprintf("%s:children:%s:%s", s.prefix, oid.Type, oid.ID)
}

func memberOf(oid ObjectIdentity) string {
	b, _ := json.Marshal(oid)
	return string(b)
}

// Load implements [Storage].
func (s *RedisStorage) Load(ctx context.Context, oid ObjectIdentity) (*Record, error) {
	data, err := s.client.Get(ctx, s.nodeKey(oid)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := &Record{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("corrupt acl record %s: %w", oid, err)
	}
	return rec, nil
}

// Children implements [Storage].
func (s *RedisStorage) Children(ctx context.Context, oid ObjectIdentity) ([]Record, error) {
	members, err := s.client.SMembers(ctx, s.childrenKey(oid)).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	out := make([]Record, 0, len(members))
	for _, member := range members {
		var child ObjectIdentity
		if err := json.Unmarshal([]byte(member), &child); err != nil {
			return nil, fmt.Errorf("corrupt child index on %s: %w", oid, err)
		}
		rec, err := s.Load(ctx, child)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// Save implements [Storage]. The child index of the previous parent is not
// touched here: the only flow that changes a parent link is detachment
// during parent deletion, and Delete drops that index wholesale.
func (s *RedisStorage) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.nodeKey(rec.Identity), data, 0)
	if rec.Parent != nil {
		pipe.SAdd(ctx, s.childrenKey(*rec.Parent), memberOf(rec.Identity))
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Delete implements [Storage].
func (s *RedisStorage) Delete(ctx context.Context, rec Record) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.nodeKey(rec.Identity))
	pipe.Del(ctx, s.childrenKey(rec.Identity))
	if rec.Parent != nil {
		pipe.SRem(ctx, s.childrenKey(*rec.Parent), memberOf(rec.Identity))
	}
	_, err := pipe.Exec(ctx)
	return err
}
