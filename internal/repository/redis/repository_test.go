package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/acai-manager/internal/config"
	"github.com/mamadbah2/acai-manager/internal/repository"
)

type fakeStore struct {
	values map[string]string
	setErr error
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.values[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func TestSaveAndLoadAreNamespaced(t *testing.T) {
	store := &fakeStore{values: map[string]string{}}
	repo := &Repository{store: store}
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "acai_products", []byte(`[]`)))
	assert.Equal(t, `[]`, store.values["acai:acai_products"])

	data, err := repo.Load(ctx, "acai_products")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestLoadMissingKey(t *testing.T) {
	repo := &Repository{store: &fakeStore{values: map[string]string{}}}

	_, err := repo.Load(context.Background(), "acai_sales")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSaveFailure(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &Repository{store: &fakeStore{values: map[string]string{}, setErr: boom}}

	err := repo.Save(context.Background(), "acai_sales", []byte(`[]`))
	assert.ErrorIs(t, err, boom)
}

func TestCloseWithoutClient(t *testing.T) {
	repo := &Repository{store: &fakeStore{}}
	assert.NoError(t, repo.Close(context.Background()))
}

func TestNewRepositoryRequiresAddress(t *testing.T) {
	_, err := NewRepository(context.Background(), config.RedisConfig{})
	assert.Error(t, err)
}
