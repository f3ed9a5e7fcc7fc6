package settlement

import (
	"github.com/tendermint/tendermint/libs/log"

	eventsdb "github.com/poolescrow/poold/coreV2/events"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/types"
)

// Result counts payouts processed in one block
type Result struct {
	Settled int
	Failed  int
}

// Settler completes transfers requested by pool operations. Value leaves
// escrow custody only here.
type Settler struct {
	logger log.Logger
}

func NewSettler(logger log.Logger) *Settler {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Settler{logger: logger.With("module", "settlement")}
}

// Settle processes pending payouts in id order. A transfer the ledger rejects
// leaves the value in escrow and marks the payout failed, it can be retried
// later with RetryPayout.
func (s *Settler) Settle(deliverState *state.State, height uint64) Result {
	var result Result

	for _, payout := range deliverState.Payouts.Pending() {
		recipient := payout.GetRecipient()
		amount := payout.GetAmount()

		if err := recipient.ValidateRecipient(); err != nil {
			deliverState.Payouts.MarkFailed(payout.ID())
			deliverState.Events().AddEvent(&eventsdb.PayoutFailedEvent{
				PayoutID:  payout.ID(),
				PoolKey:   payout.GetPoolKey(),
				Recipient: recipient.String(),
				Amount:    amount.String(),
				Reason:    err.Error(),
			})

			s.logger.Error("Payout failed",
				"height", height,
				"id", payout.ID(),
				"pool", payout.GetPoolKey(),
				"recipient", recipient,
				"amount", amount,
				"err", err)

			result.Failed++
			continue
		}

		deliverState.Accounts.Transfer(types.EscrowAccount, recipient, amount)
		deliverState.Payouts.Settle(payout.ID())
		deliverState.Events().AddEvent(&eventsdb.PayoutSettledEvent{
			PayoutID:  payout.ID(),
			PoolKey:   payout.GetPoolKey(),
			Recipient: recipient.String(),
			Amount:    amount.String(),
		})

		s.logger.Debug("Payout settled", "height", height, "id", payout.ID(), "recipient", recipient, "amount", amount)
		result.Settled++
	}

	return result
}
