package adapter

import (
	"context"
	"testing"
	"time"

	"mockanytime/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapterGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectGet("mockanytime:extraction:questions:abc").SetVal(`[{"text":"q"}]`)

	val, err := cache.Get(context.Background(), "mockanytime:extraction:questions:abc")
	require.NoError(t, err)
	assert.Equal(t, `[{"text":"q"}]`, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterGetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectGet("missing-key").RedisNil()

	_, err := cache.Get(context.Background(), "missing-key")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectSet("key", "value", time.Hour).SetVal("OK")

	err := cache.Set(context.Background(), "key", "value", time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(db)

	mock.ExpectDel("key").SetVal(1)

	err := cache.Delete(context.Background(), "key")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
