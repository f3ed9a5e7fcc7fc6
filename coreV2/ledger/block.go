package ledger

import (
	"time"

	abciTypes "github.com/tendermint/tendermint/abci/types"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
)

// ApplyBlock runs the next block with given transactions through the whole
// block lifecycle and returns delivery results with the new app hash
func (ledger *Ledger) ApplyBlock(blockTime time.Time, txs ...[]byte) ([]abciTypes.ResponseDeliverTx, []byte) {
	height := int64(ledger.Height()) + 1

	ledger.BeginBlock(abciTypes.RequestBeginBlock{
		Header: tmproto.Header{
			Height: height,
			Time:   blockTime,
		},
	})

	responses := make([]abciTypes.ResponseDeliverTx, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, ledger.DeliverTx(abciTypes.RequestDeliverTx{Tx: tx}))
	}

	ledger.EndBlock(abciTypes.RequestEndBlock{Height: height})
	commit := ledger.Commit()

	return responses, commit.Data
}
