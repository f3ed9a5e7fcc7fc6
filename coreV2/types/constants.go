package types

// ChainID is ID of the network (1 - mainnet, 2 - testnet)
type ChainID byte

const (
	// ChainMainnet is mainnet chain ID of the network
	ChainMainnet ChainID = 0x01
	// ChainTestnet is testnet chain ID of the network
	ChainTestnet ChainID = 0x02
)

// CurrentChainID is current ChainID of the network
var CurrentChainID = ChainMainnet

// EscrowAccount is the ledger account holding the custody of all pool deposits
const EscrowAccount AccountRef = "escrow.pools"

// HashLength is the size of content hashes used for storage namespaces
const HashLength = 32
