package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/imanoela-sketch/apphistomed/internal/util"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend é o armazenamento bruto de chave/valor por trás do KVStore.
// A implementação padrão usa Redis; os testes usam um fake em memória.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	Publish(ctx context.Context, channel, payload string) error
	Subscribe(ctx context.Context, channel string) (<-chan string, func(), error)
}

// RedisBackend implementa Backend sobre um cliente go-redis.
type RedisBackend struct {
	Client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{Client: client}
}

func (b *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := b.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key, value string) error {
	return b.Client.Set(ctx, key, value, 0).Err()
}

func (b *RedisBackend) Del(ctx context.Context, key string) error {
	return b.Client.Del(ctx, key).Err()
}

func (b *RedisBackend) Publish(ctx context.Context, channel, payload string) error {
	return b.Client.Publish(ctx, channel, payload).Err()
}

func (b *RedisBackend) Subscribe(ctx context.Context, channel string) (<-chan string, func(), error) {
	sub := b.Client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		return nil, nil, err
	}
	out := make(chan string, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			out <- msg.Payload
		}
	}()
	return out, func() { _ = sub.Close() }, nil
}

// kvEvent é a notificação publicada após cada escrita. Origin identifica
// a instância que escreveu, para que ela ignore os próprios eventos.
type kvEvent struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// KVStore serializa coleções inteiras como JSON sob uma chave única e
// notifica outras instâncias via pub/sub. Último a escrever vence.
type KVStore struct {
	backend Backend
	channel string
	origin  string
}

func NewKVStore(backend Backend) *KVStore {
	return &KVStore{
		backend: backend,
		channel: "histomed:kv_events",
		origin:  uuid.NewString(),
	}
}

// Load desserializa o valor da chave em dest. Chave ausente ou valor
// corrompido deixam dest intacto (o chamador fornece o padrão) e o caso
// corrompido é registrado em log.
func (s *KVStore) Load(ctx context.Context, key string, dest interface{}) error {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Log.Warn("valor corrompido no KV store, usando padrão",
			zap.String("key", key),
			zap.Error(err))
		return nil
	}
	return nil
}

// Save serializa value e grava sob key. Falta de espaço no backend vira
// util.ErrStoreFull; o estado em memória do chamador não é revertido.
func (s *KVStore) Save(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, key, string(raw)); err != nil {
		if isOutOfMemory(err) {
			return util.ErrStoreFull
		}
		return err
	}
	s.notify(ctx, key)
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.backend.Del(ctx, key); err != nil {
		return err
	}
	s.notify(ctx, key)
	return nil
}

func (s *KVStore) notify(ctx context.Context, key string) {
	payload, _ := json.Marshal(kvEvent{Key: key, Origin: s.origin})
	if err := s.backend.Publish(ctx, s.channel, string(payload)); err != nil {
		logger.Log.Warn("falha ao publicar evento do KV store",
			zap.String("key", key),
			zap.Error(err))
	}
}

// Subscribe entrega a chave de cada escrita feita por OUTRA instância.
// Escritas da própria instância são filtradas pela origem, então o
// chamador nunca recarrega por causa de uma mudança que ele mesmo fez.
func (s *KVStore) Subscribe(ctx context.Context, handler func(key string)) error {
	msgs, closeFn, err := s.backend.Subscribe(ctx, s.channel)
	if err != nil {
		return err
	}
	go func() {
		defer closeFn()
		for {
			select {
			case <-ctx.Done():
				return
			case payload, ok := <-msgs:
				if !ok {
					return
				}
				var ev kvEvent
				if err := json.Unmarshal([]byte(payload), &ev); err != nil {
					continue
				}
				if ev.Origin == s.origin {
					continue
				}
				handler(ev.Key)
			}
		}
	}()
	return nil
}

func isOutOfMemory(err error) bool {
	return err != nil && strings.Contains(strings.ToUpper(err.Error()), "OOM")
}

// SessionKey monta a chave de sessão de um usuário.
func SessionKey(userID string) string {
	return util.SessionKeyPrefix + userID
}
