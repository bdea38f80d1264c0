package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	setErr error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	client := &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
	s := NewRedisStore(client, "storefront:", time.Hour)

	_, err := s.Get(ctx, "cart")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "cart", []byte(`[{"id":7}]`)))
	require.Equal(t, `[{"id":7}]`, client.values["storefront:cart"])
	require.Equal(t, time.Hour, client.ttls["storefront:cart"])

	got, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	require.Equal(t, `[{"id":7}]`, string(got))
}

func TestRedisStore_SetError(t *testing.T) {
	client := &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}, setErr: errors.New("READONLY")}
	err := NewRedisStore(client, "", 0).Put(context.Background(), "cart", []byte(`[]`))
	require.Error(t, err)
}
