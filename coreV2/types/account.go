package types

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	minAccountLength = 2
	maxAccountLength = 64
)

var accountRegexp = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`)

// AccountRef is an opaque identity of a ledger account. The host ledger
// authenticates it, the pools only compare and store it.
type AccountRef string

func (a AccountRef) String() string {
	return string(a)
}

func (a AccountRef) Bytes() []byte {
	return []byte(a)
}

func (a AccountRef) IsEmpty() bool {
	return len(a) == 0
}

// Validate checks the ledger naming rules. A transfer to an account which does
// not pass them is rejected by the ledger.
func (a AccountRef) Validate() error {
	if len(a) < minAccountLength || len(a) > maxAccountLength {
		return fmt.Errorf("account %q length should be between %d and %d", string(a), minAccountLength, maxAccountLength)
	}

	if !accountRegexp.MatchString(string(a)) {
		return fmt.Errorf("account %q contains invalid characters", string(a))
	}

	return nil
}

// ErrReservedAccount is returned for the escrow account where a regular
// account is expected
var ErrReservedAccount = errors.New("account " + string(EscrowAccount) + " is reserved for escrow custody")

// IsReserved reports whether the account is the escrow custody account
func (a AccountRef) IsReserved() bool {
	return a == EscrowAccount
}

// ValidateRecipient checks that a payout out of escrow can reach the account
func (a AccountRef) ValidateRecipient() error {
	if a.IsReserved() {
		return ErrReservedAccount
	}

	return a.Validate()
}

func BytesToAccountRef(b []byte) AccountRef {
	return AccountRef(b)
}

func StringsToAccountRefs(list []string) []AccountRef {
	refs := make([]AccountRef, len(list))
	for i, s := range list {
		refs[i] = AccountRef(s)
	}

	return refs
}

func AccountRefsToStrings(list []AccountRef) []string {
	strs := make([]string, len(list))
	for i, a := range list {
		strs[i] = string(a)
	}

	return strs
}
