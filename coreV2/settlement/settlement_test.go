package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"

	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/types"
)

func getState(t *testing.T, events eventsdb.IEventsDB) *state.State {
	t.Helper()

	cState, err := state.NewState(0, db.NewMemDB(), events, 1024, 0)
	require.NoError(t, err)

	err = cState.Import(types.AppState{
		Admin:         "admin",
		TotalStranded: "0",
		Accounts: []types.Account{
			{Address: types.EscrowAccount, Balance: "300"},
		},
		NextPayoutID: 3,
		Payouts: []types.Payout{
			{ID: 0, PoolKey: "p1", Owner: "admin", Recipient: "alice", Amount: "100", Status: types.PayoutStatusPending},
			{ID: 1, PoolKey: "p1", Owner: "admin", Recipient: "Not Valid", Amount: "150", Status: types.PayoutStatusPending},
			{ID: 2, PoolKey: "p1", Owner: "admin", Recipient: "bob", Amount: "50", Status: types.PayoutStatusFailed},
		},
	})
	require.NoError(t, err)

	return cState
}

func TestSettle(t *testing.T) {
	t.Parallel()

	events := eventsdb.NewEventsStore(db.NewMemDB())
	cState := getState(t, events)

	result := NewSettler(nil).Settle(cState, 1)
	assert.Equal(t, 1, result.Settled)
	assert.Equal(t, 1, result.Failed)

	assert.Equal(t, "100", cState.Accounts.GetBalance("alice").String())
	assert.Equal(t, "200", cState.Accounts.GetBalance(types.EscrowAccount).String())
	assert.Nil(t, cState.Payouts.GetPayout(0))

	failed := cState.Payouts.GetPayout(1)
	require.NotNil(t, failed)
	assert.True(t, failed.IsFailed())
	assert.Equal(t, uint32(1), failed.GetAttempts())

	assert.True(t, cState.Payouts.GetPayout(2).IsFailed())
	require.NoError(t, cState.Check())

	require.NoError(t, events.CommitEvents(1))
	loaded := events.LoadEvents(1)
	require.Len(t, loaded, 2)
	assert.Equal(t, eventsdb.TypePayoutSettledEvent, loaded[0].Type())
	assert.Equal(t, eventsdb.TypePayoutFailedEvent, loaded[1].Type())
	assert.Equal(t, "Not Valid", loaded[1].(*eventsdb.PayoutFailedEvent).Recipient)
}

func TestSettleRetried(t *testing.T) {
	t.Parallel()

	cState := getState(t, &eventsdb.MockEvents{})
	settler := NewSettler(nil)
	settler.Settle(cState, 1)

	cState.Payouts.Retry(1, "carol")
	cState.Payouts.Retry(2, "")

	result := settler.Settle(cState, 2)
	assert.Equal(t, 2, result.Settled)
	assert.Equal(t, 0, result.Failed)

	assert.Equal(t, "150", cState.Accounts.GetBalance("carol").String())
	assert.Equal(t, "50", cState.Accounts.GetBalance("bob").String())
	assert.Equal(t, "0", cState.Accounts.GetBalance(types.EscrowAccount).String())
	assert.Empty(t, cState.Payouts.Pending())
	require.NoError(t, cState.Check())
}

func TestSettleToEscrowFails(t *testing.T) {
	t.Parallel()

	cState, err := state.NewState(0, db.NewMemDB(), &eventsdb.MockEvents{}, 1024, 0)
	require.NoError(t, err)

	require.NoError(t, cState.Import(types.AppState{
		Admin:         "admin",
		TotalStranded: "0",
		Accounts: []types.Account{
			{Address: types.EscrowAccount, Balance: "200"},
		},
		NextPayoutID: 1,
		Payouts: []types.Payout{
			{ID: 0, PoolKey: "p1", Owner: "admin", Recipient: types.EscrowAccount, Amount: "200", Status: types.PayoutStatusPending},
		},
	}))

	result := NewSettler(nil).Settle(cState, 1)
	assert.Equal(t, 0, result.Settled)
	assert.Equal(t, 1, result.Failed)

	require.NotNil(t, cState.Payouts.GetPayout(0))
	assert.True(t, cState.Payouts.GetPayout(0).IsFailed())
	assert.Equal(t, "200", cState.Accounts.GetBalance(types.EscrowAccount).String())
	require.NoError(t, cState.Check())
}
