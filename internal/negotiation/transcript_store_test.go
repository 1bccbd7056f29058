package negotiation

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTranscriptStore(t *testing.T) *TranscriptStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTranscriptStore(client)
}

func TestTranscriptAppendAndList(t *testing.T) {
	store := newTestTranscriptStore(t)
	ctx := context.Background()

	turns := []Turn{
		{Speaker: SpeakerAgent, Text: "Hi, booking please."},
		{Speaker: SpeakerReceptionist, Text: "One moment."},
	}
	for _, turn := range turns {
		require.NoError(t, store.Append(ctx, "neg-1", turn))
	}

	got, err := store.List(ctx, "neg-1")
	require.NoError(t, err)
	assert.Equal(t, turns, got)
}

func TestTranscriptIsolatedByNegotiation(t *testing.T) {
	store := newTestTranscriptStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "neg-1", Turn{Speaker: SpeakerAgent, Text: "one"}))
	require.NoError(t, store.Append(ctx, "neg-2", Turn{Speaker: SpeakerAgent, Text: "two"}))

	got, err := store.List(ctx, "neg-2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "two", got[0].Text)
}

func TestTranscriptRequiresID(t *testing.T) {
	store := newTestTranscriptStore(t)

	err := store.Append(context.Background(), "", Turn{Speaker: SpeakerAgent, Text: "x"})
	assert.Error(t, err)
}

func TestTranscriptNilStoreIsNoop(t *testing.T) {
	var store *TranscriptStore

	assert.NoError(t, store.Append(context.Background(), "neg-1", Turn{Speaker: SpeakerAgent, Text: "x"}))

	got, err := store.List(context.Background(), "neg-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
