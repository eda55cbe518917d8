package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBackend implementa Backend em memória, com pub/sub rudimentar,
// para testar o KVStore sem Redis.
type memoryBackend struct {
	mu     sync.Mutex
	data   map[string]string
	subs   []chan string
	setErr error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: map[string]string{}}
}

func (b *memoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *memoryBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.setErr != nil {
		return b.setErr
	}
	b.data[key] = value
	return nil
}

func (b *memoryBackend) Del(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

func (b *memoryBackend) Publish(ctx context.Context, channel, payload string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *memoryBackend) Subscribe(ctx context.Context, channel string) (<-chan string, func(), error) {
	ch := make(chan string, 16)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch, func() {}, nil
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestKVStoreLoad(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	store := NewKVStore(backend)

	t.Run("chave ausente mantém o valor padrão", func(t *testing.T) {
		dest := sample{Name: "padrão", Count: 7}
		require.NoError(t, store.Load(ctx, "missing", &dest))
		assert.Equal(t, "padrão", dest.Name)
		assert.Equal(t, 7, dest.Count)
	})

	t.Run("valor corrompido mantém o valor padrão", func(t *testing.T) {
		backend.data["broken"] = "{isto não é json"
		dest := sample{Name: "padrão"}
		require.NoError(t, store.Load(ctx, "broken", &dest))
		assert.Equal(t, "padrão", dest.Name)
	})

	t.Run("ida e volta", func(t *testing.T) {
		in := sample{Name: "epitélio", Count: 3}
		require.NoError(t, store.Save(ctx, "sample", in))

		var out sample
		require.NoError(t, store.Load(ctx, "sample", &out))
		assert.Equal(t, in, out)
	})
}

func TestKVStoreSaveFull(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	backend.setErr = errors.New("OOM command not allowed when used memory > 'maxmemory'")
	store := NewKVStore(backend)

	err := store.Save(ctx, "k", sample{Name: "x"})
	assert.ErrorIs(t, err, util.ErrStoreFull)
}

func TestKVStoreDelete(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	store := NewKVStore(backend)

	require.NoError(t, store.Save(ctx, "k", sample{Name: "x"}))
	require.NoError(t, store.Delete(ctx, "k"))

	dest := sample{Name: "padrão"}
	require.NoError(t, store.Load(ctx, "k", &dest))
	assert.Equal(t, "padrão", dest.Name)
}

func TestKVStoreSubscribeIgnoresOwnWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := newMemoryBackend()
	writer := NewKVStore(backend)
	reader := NewKVStore(backend)

	writerEvents := make(chan string, 4)
	readerEvents := make(chan string, 4)
	require.NoError(t, writer.Subscribe(ctx, func(key string) { writerEvents <- key }))
	require.NoError(t, reader.Subscribe(ctx, func(key string) { readerEvents <- key }))

	require.NoError(t, writer.Save(ctx, "shared", sample{Name: "x"}))

	select {
	case key := <-readerEvents:
		assert.Equal(t, "shared", key)
	case <-time.After(time.Second):
		t.Fatal("a outra instância não recebeu o evento")
	}

	select {
	case <-writerEvents:
		t.Fatal("a instância que escreveu não deve receber o próprio evento")
	case <-time.After(100 * time.Millisecond):
	}
}
