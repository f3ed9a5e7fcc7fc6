package types

import (
	"fmt"
	"math/big"

	"github.com/poolescrow/poold/helpers"
)

// Payout statuses as exported to genesis
const (
	PayoutStatusPending = "pending"
	PayoutStatusFailed  = "failed"
)

type AppState struct {
	Note          string     `json:"note"`
	Admin         AccountRef `json:"admin"`
	VerifyWinners bool       `json:"verify_winners_are_participants"`
	TotalStranded string     `json:"total_stranded"`
	NextPayoutID  uint64     `json:"next_payout_id"`
	Accounts      []Account  `json:"accounts,omitempty"`
	Pools         []Pool     `json:"pools,omitempty"`
	Payouts       []Payout   `json:"payouts,omitempty"`
}

func (s *AppState) Verify() error {
	if s.Admin.IsEmpty() {
		return fmt.Errorf("admin is not set")
	}

	if s.Admin.IsReserved() {
		return fmt.Errorf("admin: %w", ErrReservedAccount)
	}

	if !helpers.IsValidBigInt(s.TotalStranded) {
		return fmt.Errorf("total stranded is not valid BigInt")
	}

	accounts := map[AccountRef]struct{}{}
	escrowBalance := big.NewInt(0)
	for _, acc := range s.Accounts {
		// check for account duplication
		if _, exists := accounts[acc.Address]; exists {
			return fmt.Errorf("duplicated account %s", acc.Address)
		}

		accounts[acc.Address] = struct{}{}

		if !helpers.IsValidBigInt(acc.Balance) || !helpers.IsValidAmount(helpers.StringToBigInt(acc.Balance)) {
			return fmt.Errorf("wrong balance of account %s", acc.Address)
		}

		if acc.Address == EscrowAccount {
			escrowBalance = helpers.StringToBigInt(acc.Balance)
		}
	}

	custody := helpers.StringToBigInt(s.TotalStranded)

	pools := map[string]struct{}{}
	for _, pool := range s.Pools {
		if _, exists := pools[pool.Key]; exists {
			return fmt.Errorf("duplicated pool %s", pool.Key)
		}

		pools[pool.Key] = struct{}{}

		if !helpers.IsValidBigInt(pool.Stake) || !helpers.IsValidAmount(helpers.StringToBigInt(pool.Stake)) {
			return fmt.Errorf("wrong stake of pool %s", pool.Key)
		}

		if pool.CurrentParticipants > pool.MaxParticipants {
			return fmt.Errorf("pool %s has more participants than allowed", pool.Key)
		}

		if int(pool.CurrentParticipants) != len(pool.Participants) {
			return fmt.Errorf("pool %s participants count mismatch: %d != %d", pool.Key, pool.CurrentParticipants, len(pool.Participants))
		}

		participants := map[AccountRef]struct{}{}
		for _, participant := range pool.Participants {
			if _, exists := participants[participant]; exists {
				return fmt.Errorf("duplicated participant %s in pool %s", participant, pool.Key)
			}
			if participant.IsReserved() {
				return fmt.Errorf("pool %s participant: %w", pool.Key, ErrReservedAccount)
			}
			participants[participant] = struct{}{}
		}

		pot := big.NewInt(0).Mul(helpers.StringToBigInt(pool.Stake), big.NewInt(int64(pool.CurrentParticipants)))
		custody.Add(custody, pot)
	}

	payouts := map[uint64]struct{}{}
	for _, payout := range s.Payouts {
		if _, exists := payouts[payout.ID]; exists {
			return fmt.Errorf("duplicated payout %d", payout.ID)
		}

		payouts[payout.ID] = struct{}{}

		if payout.ID >= s.NextPayoutID {
			return fmt.Errorf("payout %d is out of id sequence %d", payout.ID, s.NextPayoutID)
		}

		if !helpers.IsValidBigInt(payout.Amount) {
			return fmt.Errorf("wrong amount of payout %d", payout.ID)
		}

		if payout.Status != PayoutStatusPending && payout.Status != PayoutStatusFailed {
			return fmt.Errorf("unknown status %q of payout %d", payout.Status, payout.ID)
		}

		custody.Add(custody, helpers.StringToBigInt(payout.Amount))
	}

	if custody.Cmp(escrowBalance) != 0 {
		return fmt.Errorf("escrow balance %s does not match custody %s", escrowBalance, custody)
	}

	return nil
}

type Account struct {
	Address AccountRef `json:"address"`
	Balance string     `json:"balance"`
	Nonce   uint64     `json:"nonce"`
}

type Pool struct {
	Key                 string       `json:"key"`
	Creator             AccountRef   `json:"creator"`
	Stake               string       `json:"stake"`
	MaxParticipants     uint32       `json:"max_participants"`
	CurrentParticipants uint32       `json:"current_participants"`
	CreatedAt           uint64       `json:"created_at"`
	Participants        []AccountRef `json:"participants,omitempty"`
}

type Payout struct {
	ID        uint64     `json:"id"`
	PoolKey   string     `json:"pool_key"`
	Owner     AccountRef `json:"owner"`
	Recipient AccountRef `json:"recipient"`
	Amount    string     `json:"amount"`
	Status    string     `json:"status"`
}
