package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poolescrow/poold/coreV2/code"
	"github.com/poolescrow/poold/coreV2/state/payouts"
	"github.com/poolescrow/poold/coreV2/state/pools"
	"github.com/poolescrow/poold/coreV2/types"
)

// Handlers return http methods of the read API
func (s *Service) Handlers() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.limit, s.measure)

	r.GET("/status", s.status)
	r.GET("/pools", s.pools)
	r.GET("/pools/:key", s.pool)
	r.GET("/pools/:key/participants", s.participants)
	r.GET("/payouts", s.payouts)
	r.GET("/payouts/:id", s.payout)
	r.GET("/accounts/:account", s.account)
	r.GET("/events/:height", s.events)

	if data := s.ledger.StatisticData(); data != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(data.Registry(), promhttp.HandlerOpts{})))
	}

	return r
}

func (s *Service) limit(c *gin.Context) {
	select {
	case s.requests <- struct{}{}:
		defer func() { <-s.requests }()
		c.Next()
	default:
		s.error(c, http.StatusTooManyRequests, "429", "too many simultaneous requests")
	}
}

func (s *Service) measure(c *gin.Context) {
	start := time.Now()
	c.Next()

	if data := s.ledger.StatisticData(); data != nil {
		data.SetApiTime(time.Since(start), c.FullPath())
	}
}

type statusResponse struct {
	Version        string           `json:"version"`
	Height         uint64           `json:"height"`
	BlockTime      uint64           `json:"block_time"`
	Admin          types.AccountRef `json:"admin"`
	VerifyWinners  bool             `json:"verify_winners_are_participants"`
	Escrow         string           `json:"escrow"`
	TotalStranded  string           `json:"total_stranded"`
	Pools          int              `json:"pools"`
	PendingPayouts int              `json:"pending_payouts"`
	FailedPayouts  int              `json:"failed_payouts"`
	KeepLastStates int64            `json:"keep_last_states"`
}

func (s *Service) status(c *gin.Context) {
	cState := s.ledger.CurrentState()
	cState.RLock()
	defer cState.RUnlock()

	pending, failed := cState.Payouts().Count()
	c.JSON(http.StatusOK, statusResponse{
		Version:        s.version,
		Height:         s.ledger.Height(),
		BlockTime:      s.ledger.BlockTime(),
		Admin:          cState.App().GetAdmin(),
		VerifyWinners:  cState.App().VerifyWinners(),
		Escrow:         cState.Accounts().GetBalance(types.EscrowAccount).String(),
		TotalStranded:  cState.App().GetTotalStranded().String(),
		Pools:          cState.Pools().Count(),
		PendingPayouts: pending,
		FailedPayouts:  failed,
		KeepLastStates: s.cfg.KeepLastStates,
	})
}

type poolResponse struct {
	Key                 string           `json:"key"`
	Creator             types.AccountRef `json:"creator"`
	Stake               string           `json:"stake"`
	MaxParticipants     uint32           `json:"max_participants"`
	CurrentParticipants uint32           `json:"current_participants"`
	CreatedAt           uint64           `json:"created_at"`
	Pot                 string           `json:"pot"`
}

func newPoolResponse(pool *pools.Model) poolResponse {
	return poolResponse{
		Key:                 pool.Key(),
		Creator:             pool.GetCreator(),
		Stake:               pool.GetStake().String(),
		MaxParticipants:     pool.GetMaxParticipants(),
		CurrentParticipants: pool.GetCurrentParticipants(),
		CreatedAt:           pool.GetCreatedAt(),
		Pot:                 pool.Pot().String(),
	}
}

func (s *Service) pools(c *gin.Context) {
	cState, ok := s.getStateForHeight(c)
	if !ok {
		return
	}

	cState.RLock()
	defer cState.RUnlock()

	list := make([]poolResponse, 0)
	cState.Pools().Iterate(func(pool *pools.Model) bool {
		list = append(list, newPoolResponse(pool))
		return false
	})

	c.JSON(http.StatusOK, gin.H{"pools": list})
}

func (s *Service) pool(c *gin.Context) {
	cState, ok := s.getStateForHeight(c)
	if !ok {
		return
	}

	cState.RLock()
	defer cState.RUnlock()

	pool := cState.Pools().GetPool(c.Param("key"))
	if pool == nil {
		s.error(c, http.StatusNotFound, strconv.Itoa(int(code.PoolNotFound)), "pool not found")
		return
	}

	c.JSON(http.StatusOK, newPoolResponse(pool))
}

func (s *Service) participants(c *gin.Context) {
	cState, ok := s.getStateForHeight(c)
	if !ok {
		return
	}

	cState.RLock()
	defer cState.RUnlock()

	key := c.Param("key")
	if !cState.Pools().Exists(key) {
		s.error(c, http.StatusNotFound, strconv.Itoa(int(code.PoolNotFound)), "pool not found")
		return
	}

	participants := cState.Pools().Participants(key)
	if participants == nil {
		participants = []types.AccountRef{}
	}

	c.JSON(http.StatusOK, gin.H{"participants": participants})
}

type payoutResponse struct {
	ID        uint64           `json:"id"`
	PoolKey   string           `json:"pool_key"`
	Owner     types.AccountRef `json:"owner"`
	Recipient types.AccountRef `json:"recipient"`
	Amount    string           `json:"amount"`
	Status    string           `json:"status"`
	Attempts  uint32           `json:"attempts"`
}

func newPayoutResponse(payout *payouts.Model) payoutResponse {
	return payoutResponse{
		ID:        payout.ID(),
		PoolKey:   payout.GetPoolKey(),
		Owner:     payout.GetOwner(),
		Recipient: payout.GetRecipient(),
		Amount:    payout.GetAmount().String(),
		Status:    payout.StatusString(),
		Attempts:  payout.GetAttempts(),
	}
}

// payouts lists payouts, optionally filtered with ?status=pending|failed
func (s *Service) payouts(c *gin.Context) {
	cState, ok := s.getStateForHeight(c)
	if !ok {
		return
	}

	filter := c.Query("status")
	if filter != "" {
		if _, known := payouts.StatusFromString(filter); !known {
			s.error(c, http.StatusBadRequest, "400", "unknown status "+filter)
			return
		}
	}

	cState.RLock()
	defer cState.RUnlock()

	list := make([]payoutResponse, 0)
	cState.Payouts().Iterate(func(payout *payouts.Model) bool {
		if filter == "" || payout.StatusString() == filter {
			list = append(list, newPayoutResponse(payout))
		}
		return false
	})

	c.JSON(http.StatusOK, gin.H{"payouts": list})
}

func (s *Service) payout(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.error(c, http.StatusBadRequest, "400", err.Error())
		return
	}

	cState, ok := s.getStateForHeight(c)
	if !ok {
		return
	}

	cState.RLock()
	defer cState.RUnlock()

	payout := cState.Payouts().GetPayout(id)
	if payout == nil {
		s.error(c, http.StatusNotFound, strconv.Itoa(int(code.PayoutNotFound)), "payout not found")
		return
	}

	c.JSON(http.StatusOK, newPayoutResponse(payout))
}

func (s *Service) account(c *gin.Context) {
	cState, ok := s.getStateForHeight(c)
	if !ok {
		return
	}

	cState.RLock()
	defer cState.RUnlock()

	account := types.AccountRef(c.Param("account"))
	c.JSON(http.StatusOK, gin.H{
		"address": account,
		"balance": cState.Accounts().GetBalance(account).String(),
		"nonce":   cState.Accounts().GetNonce(account),
	})
}

type eventResponse struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

func (s *Service) events(c *gin.Context) {
	height, err := strconv.ParseUint(c.Param("height"), 10, 32)
	if err != nil {
		s.error(c, http.StatusBadRequest, "400", err.Error())
		return
	}

	events := s.ledger.GetEventsDB().LoadEvents(uint32(height))

	list := make([]eventResponse, 0, len(events))
	for _, event := range events {
		list = append(list, eventResponse{Type: event.Type(), Value: event})
	}

	c.JSON(http.StatusOK, gin.H{"height": height, "events": list})
}

func heightParam(c *gin.Context) (uint64, error) {
	raw := c.Query("height")
	if raw == "" {
		return 0, nil
	}

	return strconv.ParseUint(raw, 10, 64)
}
