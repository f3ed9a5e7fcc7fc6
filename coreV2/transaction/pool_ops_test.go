package transaction

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolescrow/poold/coreV2/code"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/types"
)

func createPool(t *testing.T, cState *state.State, key string, stake int64, max uint32) {
	t.Helper()

	response := runTx(t, cState, admin, TypeCreatePool, CreatePoolData{Key: key, Stake: big.NewInt(stake), MaxParticipants: max}, 0)
	require.Equal(t, code.OK, response.Code, response.Log)
}

func joinPool(t *testing.T, cState *state.State, key string, accounts ...types.AccountRef) {
	t.Helper()

	stake := cState.Pools.GetPool(key).GetStake().Int64()
	for _, account := range accounts {
		response := runTx(t, cState, account, TypeJoinPool, JoinPoolData{Key: key}, stake)
		require.Equal(t, code.OK, response.Code, response.Log)
	}
}

func resolvePool(t *testing.T, cState *state.State, key string, winners ...types.AccountRef) Distribution {
	t.Helper()

	response := runTx(t, cState, admin, TypeResolvePool, ResolvePoolData{Key: key, Winners: winners}, 0)
	require.Equal(t, code.OK, response.Code, response.Log)

	var distribution Distribution
	require.NoError(t, json.Unmarshal(response.Data, &distribution))

	return distribution
}

func balance(cState *state.State, account types.AccountRef) string {
	return cState.Accounts.GetBalance(account).String()
}

func TestPoolLifecycle(t *testing.T) {
	t.Parallel()
	cState := getState()

	createPool(t, cState, "p1", 100, 4)
	pool := cState.Pools.GetPool("p1")
	require.NotNil(t, pool)
	assert.Equal(t, admin, pool.GetCreator())
	assert.Equal(t, blockTime, pool.GetCreatedAt())
	assert.Equal(t, uint32(0), pool.GetCurrentParticipants())

	joinPool(t, cState, "p1", alice, bob, carol)
	assert.Equal(t, uint32(3), cState.Pools.GetPool("p1").GetCurrentParticipants())
	assert.Equal(t, "300", balance(cState, types.EscrowAccount))
	assert.Equal(t, "900", balance(cState, alice))

	response := runTx(t, cState, dave, TypeJoinPool, JoinPoolData{Key: "p1"}, 50)
	assert.Equal(t, code.WrongDeposit, response.Code)
	assert.Equal(t, "1000", balance(cState, dave))
	assert.Equal(t, "300", balance(cState, types.EscrowAccount))
	assert.Equal(t, uint32(3), cState.Pools.GetPool("p1").GetCurrentParticipants())
	assert.False(t, cState.Pools.IsParticipant("p1", dave))

	response = runTx(t, cState, carol, TypeLeavePool, LeavePoolData{Key: "p1"}, 0)
	require.Equal(t, code.OK, response.Code, response.Log)
	assert.Equal(t, uint32(2), cState.Pools.GetPool("p1").GetCurrentParticipants())
	assert.False(t, cState.Pools.IsParticipant("p1", carol))
	require.NoError(t, checkState(cState))

	distribution := resolvePool(t, cState, "p1", alice, bob)
	assert.Equal(t, "100", distribution.Payout.String())
	assert.Equal(t, "200", distribution.Pot.String())
	assert.Equal(t, "0", distribution.Residual.String())
	assert.False(t, cState.Pools.Exists("p1"))
	require.NoError(t, checkState(cState))

	result := settle(cState)
	assert.Equal(t, 3, result.Settled)
	assert.Equal(t, 0, result.Failed)

	assert.Equal(t, "1000", balance(cState, alice))
	assert.Equal(t, "1000", balance(cState, bob))
	assert.Equal(t, "1000", balance(cState, carol))
	assert.Equal(t, "0", balance(cState, types.EscrowAccount))
	require.NoError(t, checkState(cState))

	for _, txType := range []TxType{TypeJoinPool, TypeLeavePool} {
		response = runTx(t, cState, alice, txType, JoinPoolData{Key: "p1"}, 0)
		assert.Equal(t, code.PoolNotFound, response.Code)
	}

	response = runTx(t, cState, admin, TypeResolvePool, ResolvePoolData{Key: "p1", Winners: []types.AccountRef{alice}}, 0)
	assert.Equal(t, code.PoolNotFound, response.Code)
}

func TestResolveRounding(t *testing.T) {
	t.Parallel()
	cState := getState()

	createPool(t, cState, "p1", 101, 3)
	joinPool(t, cState, "p1", alice, bob, carol)

	distribution := resolvePool(t, cState, "p1", alice, bob)
	assert.Equal(t, "150", distribution.Payout.String())
	assert.Equal(t, "303", distribution.Pot.String())
	assert.Equal(t, "3", distribution.Residual.String())
	assert.Equal(t, "3", cState.App.GetTotalStranded().String())
	require.NoError(t, checkState(cState))

	settle(cState)
	assert.Equal(t, "1049", balance(cState, alice))
	assert.Equal(t, "1049", balance(cState, bob))
	assert.Equal(t, "899", balance(cState, carol))
	assert.Equal(t, "3", balance(cState, types.EscrowAccount))
	require.NoError(t, checkState(cState))

	response := runTx(t, cState, alice, TypeSweepStranded, SweepStrandedData{}, 0)
	assert.Equal(t, code.Unauthorized, response.Code)

	response = runTx(t, cState, admin, TypeSweepStranded, SweepStrandedData{}, 0)
	require.Equal(t, code.OK, response.Code, response.Log)
	assert.Equal(t, "0", cState.App.GetTotalStranded().String())
	require.NoError(t, checkState(cState))

	settle(cState)
	assert.Equal(t, "1003", balance(cState, admin))
	assert.Equal(t, "0", balance(cState, types.EscrowAccount))

	response = runTx(t, cState, admin, TypeSweepStranded, SweepStrandedData{}, 0)
	assert.Equal(t, code.NothingToSweep, response.Code)
}

func TestDistribute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		stake        int64
		participants uint32
		winners      int
		payout       int64
		residual     int64
	}{
		{stake: 100, participants: 3, winners: 1, payout: 300, residual: 0},
		{stake: 100, participants: 3, winners: 3, payout: 99, residual: 3},
		{stake: 7, participants: 5, winners: 2, payout: 15, residual: 5},
		{stake: 1, participants: 4, winners: 3, payout: 0, residual: 4},
	}

	for _, c := range cases {
		distribution := Distribute(big.NewInt(c.stake), c.participants, c.winners)
		assert.Equal(t, c.payout, distribution.Payout.Int64())
		assert.Equal(t, c.residual, distribution.Residual.Int64())
		assert.Equal(t, c.stake*int64(c.participants), distribution.Pot.Int64())
		assert.True(t, distribution.Residual.Sign() >= 0)
	}
}

func TestCreatePoolChecks(t *testing.T) {
	t.Parallel()
	cState := getState()

	response := runTx(t, cState, alice, TypeCreatePool, CreatePoolData{Key: "p1", Stake: big.NewInt(100), MaxParticipants: 4}, 0)
	assert.Equal(t, code.Unauthorized, response.Code)

	response = runTx(t, cState, admin, TypeCreatePool, CreatePoolData{Key: "p1", Stake: big.NewInt(100), MaxParticipants: 4}, 10)
	assert.Equal(t, code.UnexpectedDeposit, response.Code)
	assert.Equal(t, "1000", balance(cState, admin))
	assert.False(t, cState.Pools.Exists("p1"))

	createPool(t, cState, "p1", 100, 4)
	joinPool(t, cState, "p1", alice)

	response = runTx(t, cState, admin, TypeCreatePool, CreatePoolData{Key: "p1", Stake: big.NewInt(1), MaxParticipants: 1}, 0)
	assert.Equal(t, code.PoolAlreadyExists, response.Code)

	pool := cState.Pools.GetPool("p1")
	assert.Equal(t, "100", pool.GetStake().String())
	assert.Equal(t, uint32(1), pool.GetCurrentParticipants())
	assert.True(t, cState.Pools.IsParticipant("p1", alice))
}

func TestJoinPoolChecks(t *testing.T) {
	t.Parallel()
	cState := getState()

	response := runTx(t, cState, alice, TypeJoinPool, JoinPoolData{Key: "missing"}, 100)
	assert.Equal(t, code.PoolNotFound, response.Code)

	createPool(t, cState, "p1", 100, 2)
	joinPool(t, cState, "p1", alice)

	response = runTx(t, cState, alice, TypeJoinPool, JoinPoolData{Key: "p1"}, 100)
	assert.Equal(t, code.AlreadyJoined, response.Code)
	assert.Equal(t, "900", balance(cState, alice))

	response = runTx(t, cState, bob, TypeJoinPool, JoinPoolData{Key: "p1"}, 0)
	assert.Equal(t, code.WrongDeposit, response.Code)

	joinPool(t, cState, "p1", bob)

	response = runTx(t, cState, carol, TypeJoinPool, JoinPoolData{Key: "p1"}, 100)
	assert.Equal(t, code.PoolFull, response.Code)
	assert.Equal(t, "1000", balance(cState, carol))
	assert.Equal(t, uint32(2), cState.Pools.GetPool("p1").GetCurrentParticipants())
	require.NoError(t, checkState(cState))
}

func TestLeavePoolChecks(t *testing.T) {
	t.Parallel()
	cState := getState()

	createPool(t, cState, "p1", 100, 4)
	joinPool(t, cState, "p1", alice)

	response := runTx(t, cState, bob, TypeLeavePool, LeavePoolData{Key: "p1"}, 0)
	assert.Equal(t, code.NotAMember, response.Code)

	response = runTx(t, cState, alice, TypeLeavePool, LeavePoolData{Key: "p1"}, 10)
	assert.Equal(t, code.UnexpectedDeposit, response.Code)
	assert.True(t, cState.Pools.IsParticipant("p1", alice))

	response = runTx(t, cState, alice, TypeLeavePool, LeavePoolData{Key: "p1"}, 0)
	require.Equal(t, code.OK, response.Code, response.Log)

	pending, failed := cState.Payouts.Count()
	assert.Equal(t, 1, pending)
	assert.Equal(t, 0, failed)

	response = runTx(t, cState, alice, TypeLeavePool, LeavePoolData{Key: "p1"}, 0)
	assert.Equal(t, code.NotAMember, response.Code)

	settle(cState)
	assert.Equal(t, "1000", balance(cState, alice))
	require.NoError(t, checkState(cState))
}

func TestResolvePoolChecks(t *testing.T) {
	t.Parallel()
	cState := getState()
	cState.App.SetVerifyWinners(true)

	createPool(t, cState, "p1", 100, 4)
	joinPool(t, cState, "p1", alice, bob)

	response := runTx(t, cState, alice, TypeResolvePool, ResolvePoolData{Key: "p1", Winners: []types.AccountRef{alice}}, 0)
	assert.Equal(t, code.Unauthorized, response.Code)

	response = runTx(t, cState, admin, TypeResolvePool, ResolvePoolData{Key: "p1"}, 0)
	assert.Equal(t, code.NoWinners, response.Code)

	response = runTx(t, cState, admin, TypeResolvePool, ResolvePoolData{Key: "p1", Winners: []types.AccountRef{alice, bob, carol}}, 0)
	assert.Equal(t, code.TooManyWinners, response.Code)

	response = runTx(t, cState, admin, TypeResolvePool, ResolvePoolData{Key: "p1", Winners: []types.AccountRef{carol}}, 0)
	assert.Equal(t, code.WinnerNotParticipant, response.Code)

	response = runTx(t, cState, admin, TypeResolvePool, ResolvePoolData{Key: "p1", Winners: []types.AccountRef{alice}}, 5)
	assert.Equal(t, code.UnexpectedDeposit, response.Code)

	assert.True(t, cState.Pools.Exists("p1"))
	pending, _ := cState.Payouts.Count()
	assert.Equal(t, 0, pending)

	cState.App.SetVerifyWinners(false)
	distribution := resolvePool(t, cState, "p1", carol)
	assert.Equal(t, "200", distribution.Payout.String())

	settle(cState)
	assert.Equal(t, "1200", balance(cState, carol))
	require.NoError(t, checkState(cState))
}

func TestResolveDuplicateWinners(t *testing.T) {
	t.Parallel()
	cState := getState()

	createPool(t, cState, "p1", 100, 4)
	joinPool(t, cState, "p1", alice, bob)

	distribution := resolvePool(t, cState, "p1", alice, alice)
	assert.Equal(t, "100", distribution.Payout.String())

	settle(cState)
	assert.Equal(t, "1100", balance(cState, alice))
	assert.Equal(t, "900", balance(cState, bob))
	require.NoError(t, checkState(cState))
}

func TestPoolKeyReuse(t *testing.T) {
	t.Parallel()
	cState := getState()

	createPool(t, cState, "p1", 100, 4)
	joinPool(t, cState, "p1", alice, bob)
	resolvePool(t, cState, "p1", alice)

	_, err := cState.Commit()
	require.NoError(t, err)

	createPool(t, cState, "p1", 10, 2)
	assert.Equal(t, uint32(0), cState.Pools.GetPool("p1").GetCurrentParticipants())
	assert.Empty(t, cState.Pools.Participants("p1"))
	assert.False(t, cState.Pools.IsParticipant("p1", alice))

	joinPool(t, cState, "p1", alice)
	assert.Equal(t, []types.AccountRef{alice}, cState.Pools.Participants("p1"))

	_, err = cState.Commit()
	require.NoError(t, err)
	assert.Equal(t, []types.AccountRef{alice}, cState.Pools.Participants("p1"))
}

func TestPoolsAreIsolated(t *testing.T) {
	t.Parallel()
	cState := getState()

	createPool(t, cState, "p1", 100, 4)
	createPool(t, cState, "p2", 50, 4)
	joinPool(t, cState, "p1", alice, bob)
	joinPool(t, cState, "p2", carol)

	resolvePool(t, cState, "p1", bob)

	assert.True(t, cState.Pools.Exists("p2"))
	assert.Equal(t, []types.AccountRef{carol}, cState.Pools.Participants("p2"))
	require.NoError(t, checkState(cState))
}

func TestRotateAdmin(t *testing.T) {
	t.Parallel()
	cState := getState()

	response := runTx(t, cState, alice, TypeRotateAdmin, RotateAdminData{NewAdmin: alice}, 0)
	assert.Equal(t, code.Unauthorized, response.Code)

	response = runTx(t, cState, admin, TypeRotateAdmin, RotateAdminData{NewAdmin: ""}, 0)
	assert.Equal(t, code.WrongAdmin, response.Code)

	response = runTx(t, cState, admin, TypeRotateAdmin, RotateAdminData{NewAdmin: "Not Valid"}, 0)
	assert.Equal(t, code.WrongAdmin, response.Code)

	response = runTx(t, cState, admin, TypeRotateAdmin, RotateAdminData{NewAdmin: carol}, 1)
	assert.Equal(t, code.UnexpectedDeposit, response.Code)

	response = runTx(t, cState, admin, TypeRotateAdmin, RotateAdminData{NewAdmin: carol}, 0)
	require.Equal(t, code.OK, response.Code, response.Log)
	assert.Equal(t, carol, cState.App.GetAdmin())

	response = runTx(t, cState, admin, TypeCreatePool, CreatePoolData{Key: "p1", Stake: big.NewInt(10), MaxParticipants: 2}, 0)
	assert.Equal(t, code.Unauthorized, response.Code)

	response = runTx(t, cState, carol, TypeCreatePool, CreatePoolData{Key: "p1", Stake: big.NewInt(10), MaxParticipants: 2}, 0)
	require.Equal(t, code.OK, response.Code, response.Log)
	assert.Equal(t, carol, cState.Pools.GetPool("p1").GetCreator())
}

func TestRetryPayoutChecks(t *testing.T) {
	t.Parallel()
	cState := getState()

	createPool(t, cState, "p1", 100, 2)
	joinPool(t, cState, "p1", alice, bob)
	resolvePool(t, cState, "p1", "Not Valid")

	result := settle(cState)
	assert.Equal(t, 1, result.Failed)
	require.True(t, cState.Payouts.GetPayout(0).IsFailed())
	assert.Equal(t, "200", balance(cState, types.EscrowAccount))
	require.NoError(t, checkState(cState))

	response := runTx(t, cState, admin, TypeRetryPayout, RetryPayoutData{ID: 5, Recipient: alice}, 0)
	assert.Equal(t, code.PayoutNotFound, response.Code)

	response = runTx(t, cState, alice, TypeRetryPayout, RetryPayoutData{ID: 0, Recipient: alice}, 0)
	assert.Equal(t, code.Unauthorized, response.Code)

	response = runTx(t, cState, admin, TypeRetryPayout, RetryPayoutData{ID: 0, Recipient: "Still Not Valid"}, 0)
	assert.Equal(t, code.WrongRecipient, response.Code)

	response = runTx(t, cState, admin, TypeRetryPayout, RetryPayoutData{ID: 0, Recipient: alice}, 10)
	assert.Equal(t, code.UnexpectedDeposit, response.Code)

	response = runTx(t, cState, admin, TypeRetryPayout, RetryPayoutData{ID: 0, Recipient: alice}, 0)
	require.Equal(t, code.OK, response.Code, response.Log)

	response = runTx(t, cState, admin, TypeRetryPayout, RetryPayoutData{ID: 0, Recipient: alice}, 0)
	assert.Equal(t, code.PayoutNotFailed, response.Code)

	result = settle(cState)
	assert.Equal(t, 1, result.Settled)
	assert.Nil(t, cState.Payouts.GetPayout(0))
	assert.Equal(t, "1100", balance(cState, alice))
	assert.Equal(t, "0", balance(cState, types.EscrowAccount))
	require.NoError(t, checkState(cState))
}

func TestEscrowAccountIsReserved(t *testing.T) {
	t.Parallel()
	cState := getState()

	createPool(t, cState, "p1", 100, 3)
	joinPool(t, cState, "p1", alice, bob)

	response := runTx(t, cState, types.EscrowAccount, TypeJoinPool, JoinPoolData{Key: "p1"}, 100)
	assert.Equal(t, code.ReservedAccount, response.Code)
	assert.Equal(t, uint32(2), cState.Pools.GetPool("p1").GetCurrentParticipants())

	response = runTx(t, cState, admin, TypeResolvePool, ResolvePoolData{Key: "p1", Winners: []types.AccountRef{alice, types.EscrowAccount}}, 0)
	assert.Equal(t, code.WrongRecipient, response.Code)
	require.NotNil(t, cState.Pools.GetPool("p1"))

	response = runTx(t, cState, admin, TypeRotateAdmin, RotateAdminData{NewAdmin: types.EscrowAccount}, 0)
	assert.Equal(t, code.WrongAdmin, response.Code)
	assert.Equal(t, admin, cState.App.GetAdmin())
	require.NoError(t, checkState(cState))

	resolvePool(t, cState, "p1", "Not Valid")
	settle(cState)
	require.True(t, cState.Payouts.GetPayout(0).IsFailed())

	response = runTx(t, cState, admin, TypeRetryPayout, RetryPayoutData{ID: 0, Recipient: types.EscrowAccount}, 0)
	assert.Equal(t, code.WrongRecipient, response.Code)
	assert.True(t, cState.Payouts.GetPayout(0).IsFailed())
}
