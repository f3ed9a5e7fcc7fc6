package events

// Event type names
const (
	TypePoolCreatedEvent       = "pools/PoolCreatedEvent"
	TypePoolJoinedEvent        = "pools/PoolJoinedEvent"
	TypePoolLeftEvent          = "pools/PoolLeftEvent"
	TypePoolResolvedEvent      = "pools/PoolResolvedEvent"
	TypeTransferRequestedEvent = "pools/TransferRequestedEvent"
	TypePayoutSettledEvent     = "pools/PayoutSettledEvent"
	TypePayoutFailedEvent      = "pools/PayoutFailedEvent"
	TypeStrandedSweptEvent     = "pools/StrandedSweptEvent"
	TypeAdminRotatedEvent      = "pools/AdminRotatedEvent"
)

type Event interface {
	Type() string
}

type Events []Event

type PoolCreatedEvent struct {
	Key             string `json:"key"`
	Creator         string `json:"creator"`
	Stake           string `json:"stake"`
	MaxParticipants uint32 `json:"max_participants"`
}

func (e *PoolCreatedEvent) Type() string {
	return TypePoolCreatedEvent
}

type PoolJoinedEvent struct {
	Key     string `json:"key"`
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

func (e *PoolJoinedEvent) Type() string {
	return TypePoolJoinedEvent
}

type PoolLeftEvent struct {
	Key     string `json:"key"`
	Account string `json:"account"`
	Refund  string `json:"refund"`
}

func (e *PoolLeftEvent) Type() string {
	return TypePoolLeftEvent
}

// PoolResolvedEvent exposes the stranded residual of a resolution: the payout
// is floor(stake/winners)*participants, so Pot - Payout*len(Winners) can stay in escrow.
type PoolResolvedEvent struct {
	Key          string   `json:"key"`
	Creator      string   `json:"creator"`
	Winners      []string `json:"winners"`
	Participants uint32   `json:"participants"`
	Payout       string   `json:"payout"`
	Pot          string   `json:"pot"`
	Residual     string   `json:"residual"`
}

func (e *PoolResolvedEvent) Type() string {
	return TypePoolResolvedEvent
}

type TransferRequestedEvent struct {
	PayoutID  uint64 `json:"payout_id"`
	PoolKey   string `json:"pool_key"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

func (e *TransferRequestedEvent) Type() string {
	return TypeTransferRequestedEvent
}

type PayoutSettledEvent struct {
	PayoutID  uint64 `json:"payout_id"`
	PoolKey   string `json:"pool_key"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

func (e *PayoutSettledEvent) Type() string {
	return TypePayoutSettledEvent
}

type PayoutFailedEvent struct {
	PayoutID  uint64 `json:"payout_id"`
	PoolKey   string `json:"pool_key"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
}

func (e *PayoutFailedEvent) Type() string {
	return TypePayoutFailedEvent
}

type StrandedSweptEvent struct {
	Admin  string `json:"admin"`
	Amount string `json:"amount"`
}

func (e *StrandedSweptEvent) Type() string {
	return TypeStrandedSweptEvent
}

type AdminRotatedEvent struct {
	OldAdmin string `json:"old_admin"`
	NewAdmin string `json:"new_admin"`
}

func (e *AdminRotatedEvent) Type() string {
	return TypeAdminRotatedEvent
}
