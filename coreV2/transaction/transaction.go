package transaction

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/poolescrow/poold/coreV2/state"
	"github.com/poolescrow/poold/coreV2/types"
	"golang.org/x/crypto/sha3"
)

// TxType of transaction is determined by a single byte.
type TxType byte

func (t TxType) String() string {
	return "0x" + hex.EncodeToString([]byte{byte(t)})
}

func (t TxType) UInt64() uint64 {
	return uint64(t)
}

const (
	TypeCreatePool    TxType = 0x01
	TypeJoinPool      TxType = 0x02
	TypeLeavePool     TxType = 0x03
	TypeResolvePool   TxType = 0x04
	TypeRotateAdmin   TxType = 0x05
	TypeRetryPayout   TxType = 0x06
	TypeSweepStranded TxType = 0x07
)

// Transaction is a call of a pool operation. The host ledger authenticates
// Caller and debits Value, the attached deposit, from the caller balance.
type Transaction struct {
	Nonce   uint64
	ChainID types.ChainID
	Type    TxType
	Data    RawData
	Caller  types.AccountRef
	Value   *big.Int
	Payload []byte

	decodedData Data
}

type RawData []byte

type Data interface {
	String() string
	Run(tx *Transaction, context state.Interface, runtime Runtime) Response
	TxType() TxType
}

// poolScoped operations bind requested transfers to a pool
type poolScoped interface {
	poolKey() string
}

func (tx *Transaction) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(tx)
}

func (tx *Transaction) String() string {
	return fmt.Sprintf("TX nonce:%d from:%s value:%s payload:%s data:%s",
		tx.Nonce, tx.Caller, tx.AttachedValue(), tx.Payload, tx.decodedData.String())
}

// AttachedValue returns the deposit bundled with the call, zero when absent
func (tx *Transaction) AttachedValue() *big.Int {
	if tx.Value == nil {
		return big.NewInt(0)
	}

	return big.NewInt(0).Set(tx.Value)
}

func (tx *Transaction) Hash() types.Hash {
	return rlpHash([]interface{}{
		tx.Nonce,
		tx.ChainID,
		tx.Type,
		tx.Data,
		tx.Caller,
		tx.AttachedValue(),
		tx.Payload,
	})
}

func (tx *Transaction) SetDecodedData(data Data) {
	tx.decodedData = data
}

func (tx *Transaction) GetDecodedData() Data {
	return tx.decodedData
}

func rlpHash(x interface{}) (h types.Hash) {
	hw := sha3.NewLegacyKeccak256()
	err := rlp.Encode(hw, x)
	if err != nil {
		panic(err)
	}
	hw.Sum(h[:0])
	return h
}
