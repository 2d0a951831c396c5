package redisstore_test

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Magacin-api/internal/infrastructure/redisstore"
)

func newStorage(t *testing.T) (*redisstore.Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := redisstore.New(client, "idem:")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStorage_SetGetDelete(t *testing.T) {
	s, mr := newStorage(t)

	val, err := s.Get("k1")
	require.NoError(t, err)
	assert.Nil(t, val, "clave inexistente = nil, nil")

	require.NoError(t, s.Set("k1", []byte("respuesta"), time.Minute))
	assert.True(t, mr.Exists("idem:k1"), "la clave lleva prefijo")

	val, err = s.Get("k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("respuesta"), val)

	require.NoError(t, s.Delete("k1"))
	val, err = s.Get("k1")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStorage_Expira(t *testing.T) {
	s, mr := newStorage(t)
	require.NoError(t, s.Set("k1", []byte("x"), time.Minute))
	mr.FastForward(2 * time.Minute)
	val, err := s.Get("k1")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStorage_ResetSoloPrefijo(t *testing.T) {
	s, mr := newStorage(t)
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("otra:clave", "x"))

	require.NoError(t, s.Reset())
	assert.False(t, mr.Exists("idem:a"))
	assert.False(t, mr.Exists("idem:b"))
	assert.True(t, mr.Exists("otra:clave"))
}
