package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lcadapter "github.com/aretw0/notesync/pkg/adapters/lifecycle"
	"github.com/aretw0/notesync/pkg/core"
)

type echoRemote struct{}

func (echoRemote) List(context.Context) ([]core.Note, error) {
	return []core.Note{{ID: "a1", Title: "first"}}, nil
}

func (echoRemote) Create(_ context.Context, d core.Draft) (core.Note, error) {
	return core.Note{ID: "n1", Title: d.Title}, nil
}

func (echoRemote) Delete(context.Context, string) error { return nil }

func (echoRemote) Update(context.Context, string, core.Draft) error { return nil }

func TestSource_BridgesStoreEvents(t *testing.T) {
	store := core.NewStore(echoRemote{}, core.StoreConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := lcadapter.NewSource(store)
	require.NoError(t, source.Start(ctx))

	require.NoError(t, store.Connect(ctx))
	require.NoError(t, store.Add(ctx, core.Draft{Title: "second"}))

	want := []string{"REPLACE (1 notes)", "CREATE n1 (2 notes)"}
	for _, w := range want {
		select {
		case ev := <-source.Events():
			assert.Equal(t, w, ev.String())
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", w)
		}
	}

	cancel()
	select {
	case _, ok := <-source.Events():
		assert.False(t, ok, "events channel should close after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestSource_ClosesWhenStoreCloses(t *testing.T) {
	store := core.NewStore(echoRemote{}, core.StoreConfig{})
	source := lcadapter.NewSource(store)
	require.NoError(t, source.Start(context.Background()))

	require.NoError(t, store.Close())

	select {
	case _, ok := <-source.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}
