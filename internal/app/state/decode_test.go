package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
)

func TestListPayload(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		list := listPayload[models.Hotel](json.RawMessage(`[{"_id":"h1"},{"_id":"h2"}]`), "hotels")
		require.Len(t, list, 2)
		assert.Equal(t, "h1", list[0].ID)
	})

	t.Run("resource-keyed wrapper", func(t *testing.T) {
		list := listPayload[models.Hotel](json.RawMessage(`{"hotels":[{"_id":"h1"}]}`), "hotels")
		require.Len(t, list, 1)
	})

	t.Run("data wrapper", func(t *testing.T) {
		list := listPayload[models.Hotel](json.RawMessage(`{"data":[{"_id":"h1"}]}`), "hotels")
		require.Len(t, list, 1)
	})

	t.Run("nested data wrapper", func(t *testing.T) {
		list := listPayload[models.Hotel](json.RawMessage(`{"data":{"hotels":[{"_id":"h1"}]}}`), "hotels")
		require.Len(t, list, 1)
	})

	t.Run("null and empty payloads yield empty non-nil slices", func(t *testing.T) {
		for _, raw := range []string{`null`, ``, `{}`, `{"other":[]}`} {
			list := listPayload[models.Hotel](json.RawMessage(raw), "hotels")
			assert.NotNil(t, list, "payload %q", raw)
			assert.Empty(t, list, "payload %q", raw)
		}
	})
}

func TestObjectPayload(t *testing.T) {
	t.Run("bare object", func(t *testing.T) {
		user, ok := objectPayload[models.User](json.RawMessage(`{"id":"u1","name":"Asha"}`), "user")
		require.True(t, ok)
		assert.Equal(t, "Asha", user.Name)
	})

	t.Run("keyed wrapper", func(t *testing.T) {
		user, ok := objectPayload[models.User](json.RawMessage(`{"user":{"id":"u1"}}`), "user")
		require.True(t, ok)
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("null payload reports absent", func(t *testing.T) {
		_, ok := objectPayload[models.User](json.RawMessage(`null`), "user")
		assert.False(t, ok)
	})
}
