package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/poolescrow/poold/config"
	"github.com/poolescrow/poold/coreV2/ledger"
	"github.com/poolescrow/poold/coreV2/state"
)

// Service serves read requests to the ledger state
type Service struct {
	ledger   *ledger.Ledger
	cfg      *config.Config
	logger   tmlog.Logger
	version  string
	requests chan struct{}
}

func NewService(ledger *ledger.Ledger, cfg *config.Config, logger tmlog.Logger, version string) *Service {
	if logger == nil {
		logger = tmlog.NewNopLogger()
	}

	limit := cfg.APISimultaneousRequests
	if limit < 1 {
		limit = 1
	}

	return &Service{
		ledger:   ledger,
		cfg:      cfg,
		logger:   logger.With("module", "api"),
		version:  version,
		requests: make(chan struct{}, limit),
	}
}

func (s *Service) getStateForHeight(c *gin.Context) (*state.CheckState, bool) {
	height, err := heightParam(c)
	if err != nil {
		s.error(c, http.StatusBadRequest, "400", err.Error())
		return nil, false
	}

	cState, err := s.ledger.GetStateForHeight(height)
	if err != nil {
		s.error(c, http.StatusNotFound, "404", err.Error())
		return nil, false
	}

	return cState, true
}

func (s *Service) error(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
