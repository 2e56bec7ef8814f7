package inmem

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trustlane/identity-gateway/internal/session"
)

func newDriver(t *testing.T, lifetime time.Duration) *Driver {
	t.Helper()
	driver, err := New(lifetime)
	require.NoError(t, err)
	return driver
}

func TestDriver_Create(t *testing.T) {
	driver := newDriver(t, time.Hour)
	ctx := context.Background()

	ses, err := driver.Create(ctx, "inv-1", "supervisor")
	require.NoError(t, err)
	assert.Equal(t, "inv-1", ses.InvitationID)
	assert.Equal(t, session.StatusPending, ses.Status)
	assert.Equal(t, "supervisor", ses.Role)
	assert.Empty(t, ses.Token)

	_, err = driver.Create(ctx, "inv-1", "developer")
	assert.ErrorIs(t, err, session.ErrAlreadyExists, "a reused invitation ID must not replace an in-flight session")

	ses, err = driver.Get(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "supervisor", ses.Role, "the original session must survive a duplicate create")
}

func TestDriver_GetUnknown(t *testing.T) {
	driver := newDriver(t, time.Hour)

	ses, err := driver.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, ses)
}

func TestDriver_Activate(t *testing.T) {
	driver := newDriver(t, time.Hour)
	ctx := context.Background()

	_, err := driver.Create(ctx, "inv-1", "regulator")
	require.NoError(t, err)

	ses, err := driver.Activate(ctx, "inv-1", "conn-1", "signed-token")
	require.NoError(t, err)
	assert.Equal(t, session.StatusActive, ses.Status)
	assert.Equal(t, "conn-1", ses.ConnectionID)
	assert.Equal(t, "signed-token", ses.Token)

	// The transition must happen at most once
	_, err = driver.Activate(ctx, "inv-1", "conn-2", "other-token")
	assert.ErrorIs(t, err, session.ErrNotPending)

	ses, err = driver.Get(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "conn-1", ses.ConnectionID, "an active session must never regress")

	ses, err = driver.Activate(ctx, "unknown", "conn-3", "token")
	require.NoError(t, err)
	assert.Nil(t, ses)
}

func TestDriver_Fail(t *testing.T) {
	driver := newDriver(t, time.Hour)
	ctx := context.Background()

	_, err := driver.Create(ctx, "inv-1", "developer")
	require.NoError(t, err)

	ses, err := driver.Fail(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, session.StatusFailed, ses.Status)

	_, err = driver.Activate(ctx, "inv-1", "conn-1", "token")
	assert.ErrorIs(t, err, session.ErrNotPending, "a failed session must not become active afterwards")
}

func TestDriver_DeleteExpired(t *testing.T) {
	ctx := context.Background()

	expiring := newDriver(t, 0)
	_, err := expiring.Create(ctx, "inv-1", "developer")
	require.NoError(t, err)
	_, err = expiring.Create(ctx, "inv-2", "regulator")
	require.NoError(t, err)

	deleted, err := expiring.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	ses, err := expiring.Get(ctx, "inv-1")
	require.NoError(t, err)
	assert.Nil(t, ses)

	keeping := newDriver(t, time.Hour)
	_, err = keeping.Create(ctx, "inv-1", "developer")
	require.NoError(t, err)

	deleted, err = keeping.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
	ses, err = keeping.Get(ctx, "inv-1")
	require.NoError(t, err)
	assert.NotNil(t, ses)
}

func TestDriver_ConcurrentCreates(t *testing.T) {
	driver := newDriver(t, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := driver.Create(ctx, fmt.Sprintf("inv-%d", n), "developer")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		ses, err := driver.Get(ctx, fmt.Sprintf("inv-%d", i))
		require.NoError(t, err)
		require.NotNil(t, ses)
	}
}
