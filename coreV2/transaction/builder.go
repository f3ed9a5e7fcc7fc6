package transaction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/poolescrow/poold/coreV2/types"
)

// Encode builds a raw transaction calling data on behalf of caller
func Encode(caller types.AccountRef, nonce uint64, data Data, value *big.Int, payload []byte) ([]byte, error) {
	encodedData, err := rlp.EncodeToBytes(data)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		Nonce:   nonce,
		ChainID: types.CurrentChainID,
		Type:    data.TxType(),
		Data:    encodedData,
		Caller:  caller,
		Value:   value,
		Payload: payload,
	}

	return tx.Serialize()
}
