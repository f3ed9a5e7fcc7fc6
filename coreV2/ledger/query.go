package ledger

import (
	"encoding/json"
	"strconv"
	"strings"

	abciTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/poolescrow/poold/coreV2/code"
	"github.com/poolescrow/poold/coreV2/types"
)

// PoolResult is a pool as returned by queries
type PoolResult struct {
	Key                 string             `json:"key"`
	Creator             types.AccountRef   `json:"creator"`
	Stake               string             `json:"stake"`
	MaxParticipants     uint32             `json:"max_participants"`
	CurrentParticipants uint32             `json:"current_participants"`
	CreatedAt           uint64             `json:"created_at"`
	Pot                 string             `json:"pot"`
	Participants        []types.AccountRef `json:"participants"`
}

// PayoutResult is a payout as returned by queries
type PayoutResult struct {
	ID        uint64           `json:"id"`
	PoolKey   string           `json:"pool_key"`
	Owner     types.AccountRef `json:"owner"`
	Recipient types.AccountRef `json:"recipient"`
	Amount    string           `json:"amount"`
	Status    string           `json:"status"`
	Attempts  uint32           `json:"attempts"`
}

// AccountResult is an account as returned by queries
type AccountResult struct {
	Address types.AccountRef `json:"address"`
	Balance string           `json:"balance"`
	Nonce   uint64           `json:"nonce"`
}

// Query serves reads of the current state. Supported paths are
// pool/<key>, payout/<id> and account/<account>.
func (ledger *Ledger) Query(req abciTypes.RequestQuery) abciTypes.ResponseQuery {
	kind, arg, _ := cut(req.Path, "/")

	var result interface{}
	var found bool

	switch kind {
	case "pool":
		result, found = ledger.PoolInfo(arg)
	case "payout":
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return abciTypes.ResponseQuery{Code: code.DecodeError, Log: err.Error()}
		}
		result, found = ledger.PayoutInfo(id)
	case "account":
		result, found = ledger.AccountInfo(types.AccountRef(arg)), true
	default:
		return abciTypes.ResponseQuery{Code: code.DecodeError, Log: "unknown query path " + req.Path}
	}

	if !found {
		return abciTypes.ResponseQuery{Code: notFoundCode(kind), Log: req.Path + " not found"}
	}

	value, err := json.Marshal(result)
	if err != nil {
		panic(err)
	}

	return abciTypes.ResponseQuery{
		Code:   code.OK,
		Key:    []byte(req.Path),
		Value:  value,
		Height: int64(ledger.Height()),
	}
}

// PoolInfo reads a live pool with its participants
func (ledger *Ledger) PoolInfo(key string) (*PoolResult, bool) {
	cState := ledger.CurrentState()
	cState.RLock()
	defer cState.RUnlock()

	pool := cState.Pools().GetPool(key)
	if pool == nil {
		return nil, false
	}

	return &PoolResult{
		Key:                 key,
		Creator:             pool.GetCreator(),
		Stake:               pool.GetStake().String(),
		MaxParticipants:     pool.GetMaxParticipants(),
		CurrentParticipants: pool.GetCurrentParticipants(),
		CreatedAt:           pool.GetCreatedAt(),
		Pot:                 pool.Pot().String(),
		Participants:        cState.Pools().Participants(key),
	}, true
}

func (ledger *Ledger) PayoutInfo(id uint64) (*PayoutResult, bool) {
	cState := ledger.CurrentState()
	cState.RLock()
	defer cState.RUnlock()

	payout := cState.Payouts().GetPayout(id)
	if payout == nil {
		return nil, false
	}

	return &PayoutResult{
		ID:        id,
		PoolKey:   payout.GetPoolKey(),
		Owner:     payout.GetOwner(),
		Recipient: payout.GetRecipient(),
		Amount:    payout.GetAmount().String(),
		Status:    payout.StatusString(),
		Attempts:  payout.GetAttempts(),
	}, true
}

func (ledger *Ledger) AccountInfo(account types.AccountRef) *AccountResult {
	cState := ledger.CurrentState()
	cState.RLock()
	defer cState.RUnlock()

	return &AccountResult{
		Address: account,
		Balance: cState.Accounts().GetBalance(account).String(),
		Nonce:   cState.Accounts().GetNonce(account),
	}
}

func notFoundCode(kind string) uint32 {
	if kind == "payout" {
		return code.PayoutNotFound
	}

	return code.PoolNotFound
}

func cut(s, sep string) (before, after string, found bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
