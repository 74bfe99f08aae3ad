package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	id       string
	received chan Envelope
}

func newRecordingHandler(id string) *recordingHandler {
	return &recordingHandler{id: id, received: make(chan Envelope, 16)}
}

func (h *recordingHandler) InstanceID() string { return h.id }

func (h *recordingHandler) HandleMessage(env Envelope) error {
	h.received <- env
	return nil
}

func waitFor(t *testing.T, ch chan Envelope) Envelope {
	t.Helper()
	select {
	case env := <-ch:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for envelope")
		return Envelope{}
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(InstanceHub, InstanceLeagues, KindCreateTournament, CreateTournamentPayload{
		GameID:          "game_1",
		Name:            "Weekly Draft",
		EntryFee:        1_000_000,
		MaxParticipants: 100,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, InstanceHub, env.Source)
	assert.Equal(t, InstanceLeagues, env.Destination)

	var decoded CreateTournamentPayload
	require.NoError(t, env.Decode(&decoded))
	assert.Equal(t, "game_1", decoded.GameID)
	assert.Equal(t, uint64(1_000_000), decoded.EntryFee)
}

func TestRouterDeliversInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := NewRouter()
	leagues := newRecordingHandler(InstanceLeagues)
	router.Register(leagues)
	router.Start(ctx)

	kinds := []string{KindCreateTournament, KindSyncPortfolio, KindVerifyPlayer}
	for _, kind := range kinds {
		env, err := NewEnvelope(InstanceHub, InstanceLeagues, kind, struct{}{})
		require.NoError(t, err)
		router.Send(env)
	}

	for _, kind := range kinds {
		env := waitFor(t, leagues.received)
		assert.Equal(t, kind, env.Kind)
	}
}

func TestRouterRoutesByDestination(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := NewRouter()
	hub := newRecordingHandler(InstanceHub)
	leagues := newRecordingHandler(InstanceLeagues)
	router.Register(hub)
	router.Register(leagues)
	router.Start(ctx)

	toHub, err := NewEnvelope(InstanceLeagues, InstanceHub, KindTournamentCreated, struct{}{})
	require.NoError(t, err)
	router.Send(toHub)

	env := waitFor(t, hub.received)
	assert.Equal(t, KindTournamentCreated, env.Kind)
	assert.Empty(t, leagues.received)
}

func TestRouterDropsUndeliverable(t *testing.T) {
	router := NewRouter()
	env, err := NewEnvelope(InstanceHub, "nowhere", KindVerifyPlayer, struct{}{})
	require.NoError(t, err)
	// Must not panic or block.
	router.Send(env)
}

func TestRouterSendNeverBlocksOnFullInbox(t *testing.T) {
	router := NewRouter()
	leagues := newRecordingHandler(InstanceLeagues)
	router.Register(leagues)
	// Router never started, so nothing drains the inbox. Overfilling it must
	// drop the overflow instead of blocking the sender.
	for i := 0; i < inboxCapacity+10; i++ {
		env, err := NewEnvelope(InstanceHub, InstanceLeagues, KindSyncPortfolio, struct{}{})
		require.NoError(t, err)
		router.Send(env)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router.Start(ctx)

	// The queued messages still arrive in order once consumption starts.
	env := waitFor(t, leagues.received)
	assert.Equal(t, KindSyncPortfolio, env.Kind)
}
