package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastcart-api/internal/model"
)

func TestCategoryCache_Miss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewCategoryCache(client, time.Minute)

	mock.ExpectGet(categoryListKey).RedisNil()

	got, hit, err := c.GetList(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryCache_SetThenHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewCategoryCache(client, time.Minute)

	list := []model.Category{{ID: "c-1", ImageURL: "https://img/1.png", CategoryName: "shoes", ItemCount: 2}}
	payload, err := json.Marshal(list)
	require.NoError(t, err)

	mock.ExpectSet(categoryListKey, payload, time.Minute).SetVal("OK")
	mock.ExpectGet(categoryListKey).SetVal(string(payload))

	require.NoError(t, c.SetList(context.Background(), list))

	got, hit, err := c.GetList(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, "shoes", got[0].CategoryName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryCache_CorruptPayload(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewCategoryCache(client, time.Minute)

	mock.ExpectGet(categoryListKey).SetVal("{not json")

	_, hit, err := c.GetList(context.Background())
	require.Error(t, err)
	assert.False(t, hit)
}

func TestCategoryCache_Invalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewCategoryCache(client, 0)

	mock.ExpectDel(categoryListKey).SetVal(1)
	require.NoError(t, c.Invalidate(context.Background()))

	mock.ExpectDel(categoryListKey).SetErr(errors.New("connection refused"))
	err := c.Invalidate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
