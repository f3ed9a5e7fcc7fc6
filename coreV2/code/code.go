package code

import (
	"strconv"
)

// Codes for transaction checks and delivers responses
const (
	// general
	OK                uint32 = 0
	WrongNonce        uint32 = 101
	DecodeError       uint32 = 106
	InsufficientFunds uint32 = 107
	TxTooLarge        uint32 = 105
	WrongChainID      uint32 = 115
	ValueOverflow     uint32 = 116
	UnexpectedDeposit uint32 = 117

	// access
	Unauthorized    uint32 = 201
	WrongAdmin      uint32 = 202
	ReservedAccount uint32 = 203

	// pools
	PoolNotFound         uint32 = 301
	PoolAlreadyExists    uint32 = 302
	PoolFull             uint32 = 303
	WrongDeposit         uint32 = 304
	AlreadyJoined        uint32 = 305
	NotAMember           uint32 = 306
	NoWinners            uint32 = 307
	TooManyWinners       uint32 = 308
	WinnerNotParticipant uint32 = 309

	// payouts
	PayoutNotFound  uint32 = 401
	PayoutNotFailed uint32 = 402
	NothingToSweep  uint32 = 403
	WrongRecipient  uint32 = 404
)

type wrongNonce struct {
	Code          string `json:"code,omitempty"`
	ExpectedNonce string `json:"expected_nonce,omitempty"`
	GotNonce      string `json:"got_nonce,omitempty"`
}

func NewWrongNonce(expectedNonce string, gotNonce string) *wrongNonce {
	return &wrongNonce{Code: strconv.Itoa(int(WrongNonce)), ExpectedNonce: expectedNonce, GotNonce: gotNonce}
}

type decodeError struct {
	Code string `json:"code,omitempty"`
}

func NewDecodeError() *decodeError {
	return &decodeError{Code: strconv.Itoa(int(DecodeError))}
}

type insufficientFunds struct {
	Code        string `json:"code,omitempty"`
	Sender      string `json:"sender,omitempty"`
	NeededValue string `json:"needed_value,omitempty"`
	HasValue    string `json:"has_value,omitempty"`
}

func NewInsufficientFunds(sender string, neededValue string, hasValue string) *insufficientFunds {
	return &insufficientFunds{Code: strconv.Itoa(int(InsufficientFunds)), Sender: sender, NeededValue: neededValue, HasValue: hasValue}
}

type txTooLarge struct {
	Code        string `json:"code,omitempty"`
	MaxTxLength string `json:"max_tx_length,omitempty"`
	GotTxLength string `json:"got_tx_length,omitempty"`
}

func NewTxTooLarge(maxTxLength string, gotTxLength string) *txTooLarge {
	return &txTooLarge{Code: strconv.Itoa(int(TxTooLarge)), MaxTxLength: maxTxLength, GotTxLength: gotTxLength}
}

type wrongChainID struct {
	Code           string `json:"code,omitempty"`
	CurrentChainId string `json:"current_chain_id,omitempty"`
	GotChainId     string `json:"got_chain_id,omitempty"`
}

func NewWrongChainID(currentChainId string, gotChainId string) *wrongChainID {
	return &wrongChainID{Code: strconv.Itoa(int(WrongChainID)), CurrentChainId: currentChainId, GotChainId: gotChainId}
}

type valueOverflow struct {
	Code     string `json:"code,omitempty"`
	Value    string `json:"value,omitempty"`
	MaxValue string `json:"max_value,omitempty"`
}

func NewValueOverflow(value string, maxValue string) *valueOverflow {
	return &valueOverflow{Code: strconv.Itoa(int(ValueOverflow)), Value: value, MaxValue: maxValue}
}

type unexpectedDeposit struct {
	Code   string `json:"code,omitempty"`
	TxType string `json:"tx_type,omitempty"`
	Value  string `json:"value,omitempty"`
}

func NewUnexpectedDeposit(txType string, value string) *unexpectedDeposit {
	return &unexpectedDeposit{Code: strconv.Itoa(int(UnexpectedDeposit)), TxType: txType, Value: value}
}

type unauthorized struct {
	Code     string `json:"code,omitempty"`
	Caller   string `json:"caller,omitempty"`
	Expected string `json:"expected,omitempty"`
}

func NewUnauthorized(caller string, expected string) *unauthorized {
	return &unauthorized{Code: strconv.Itoa(int(Unauthorized)), Caller: caller, Expected: expected}
}

type wrongAdmin struct {
	Code  string `json:"code,omitempty"`
	Admin string `json:"admin,omitempty"`
}

func NewWrongAdmin(admin string) *wrongAdmin {
	return &wrongAdmin{Code: strconv.Itoa(int(WrongAdmin)), Admin: admin}
}

type reservedAccount struct {
	Code    string `json:"code,omitempty"`
	Account string `json:"account,omitempty"`
}

func NewReservedAccount(account string) *reservedAccount {
	return &reservedAccount{Code: strconv.Itoa(int(ReservedAccount)), Account: account}
}

type poolNotFound struct {
	Code string `json:"code,omitempty"`
	Key  string `json:"key,omitempty"`
}

func NewPoolNotFound(key string) *poolNotFound {
	return &poolNotFound{Code: strconv.Itoa(int(PoolNotFound)), Key: key}
}

type poolAlreadyExists struct {
	Code    string `json:"code,omitempty"`
	Key     string `json:"key,omitempty"`
	Creator string `json:"creator,omitempty"`
}

func NewPoolAlreadyExists(key string, creator string) *poolAlreadyExists {
	return &poolAlreadyExists{Code: strconv.Itoa(int(PoolAlreadyExists)), Key: key, Creator: creator}
}

type poolFull struct {
	Code            string `json:"code,omitempty"`
	Key             string `json:"key,omitempty"`
	MaxParticipants string `json:"max_participants,omitempty"`
}

func NewPoolFull(key string, maxParticipants string) *poolFull {
	return &poolFull{Code: strconv.Itoa(int(PoolFull)), Key: key, MaxParticipants: maxParticipants}
}

type wrongDeposit struct {
	Code          string `json:"code,omitempty"`
	Key           string `json:"key,omitempty"`
	NeededValue   string `json:"needed_value,omitempty"`
	AttachedValue string `json:"attached_value,omitempty"`
}

func NewWrongDeposit(key string, neededValue string, attachedValue string) *wrongDeposit {
	return &wrongDeposit{Code: strconv.Itoa(int(WrongDeposit)), Key: key, NeededValue: neededValue, AttachedValue: attachedValue}
}

type membership struct {
	Code    string `json:"code,omitempty"`
	Key     string `json:"key,omitempty"`
	Account string `json:"account,omitempty"`
}

func NewAlreadyJoined(key string, account string) *membership {
	return &membership{Code: strconv.Itoa(int(AlreadyJoined)), Key: key, Account: account}
}

func NewNotAMember(key string, account string) *membership {
	return &membership{Code: strconv.Itoa(int(NotAMember)), Key: key, Account: account}
}

func NewWinnerNotParticipant(key string, account string) *membership {
	return &membership{Code: strconv.Itoa(int(WinnerNotParticipant)), Key: key, Account: account}
}

type noWinners struct {
	Code string `json:"code,omitempty"`
	Key  string `json:"key,omitempty"`
}

func NewNoWinners(key string) *noWinners {
	return &noWinners{Code: strconv.Itoa(int(NoWinners)), Key: key}
}

type tooManyWinners struct {
	Code                string `json:"code,omitempty"`
	Key                 string `json:"key,omitempty"`
	Winners             string `json:"winners,omitempty"`
	CurrentParticipants string `json:"current_participants,omitempty"`
}

func NewTooManyWinners(key string, winners string, currentParticipants string) *tooManyWinners {
	return &tooManyWinners{Code: strconv.Itoa(int(TooManyWinners)), Key: key, Winners: winners, CurrentParticipants: currentParticipants}
}

type payoutNotFound struct {
	Code string `json:"code,omitempty"`
	ID   string `json:"id,omitempty"`
}

func NewPayoutNotFound(id string) *payoutNotFound {
	return &payoutNotFound{Code: strconv.Itoa(int(PayoutNotFound)), ID: id}
}

type payoutNotFailed struct {
	Code   string `json:"code,omitempty"`
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}

func NewPayoutNotFailed(id string, status string) *payoutNotFailed {
	return &payoutNotFailed{Code: strconv.Itoa(int(PayoutNotFailed)), ID: id, Status: status}
}

type nothingToSweep struct {
	Code string `json:"code,omitempty"`
}

func NewNothingToSweep() *nothingToSweep {
	return &nothingToSweep{Code: strconv.Itoa(int(NothingToSweep))}
}

type wrongRecipient struct {
	Code      string `json:"code,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func NewWrongRecipient(recipient string, reason string) *wrongRecipient {
	return &wrongRecipient{Code: strconv.Itoa(int(WrongRecipient)), Recipient: recipient, Reason: reason}
}
