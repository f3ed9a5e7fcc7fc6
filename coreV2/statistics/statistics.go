package statistics

import (
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Data struct {
	registry *prometheus.Registry

	BlockStart struct {
		sync.RWMutex
		height uint64
		time   time.Time
	}
	BlockEnd blockEnd

	Ledger ledgerGauges
	Txs    *prometheus.CounterVec
	Api    apiResponseTime
}

type LastBlockInfo struct {
	Height    uint64
	Duration  float64
	Timestamp float64
}

type blockEnd struct {
	sync.RWMutex
	HeightProm    prometheus.Gauge
	DurationProm  prometheus.Gauge
	TimestampProm prometheus.Gauge
	LastBlockInfo LastBlockInfo
}

type ledgerGauges struct {
	Pools          prometheus.Gauge
	PendingPayouts prometheus.Gauge
	FailedPayouts  prometheus.Gauge
	Escrow         prometheus.Gauge
	Stranded       prometheus.Gauge
}

type apiResponseTime struct {
	sync.Mutex
	responseTime *prometheus.GaugeVec
}

// New creates metrics registered in their own registry, so several ledgers
// can live in one process
func New() *Data {
	registry := prometheus.NewRegistry()

	gauge := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
		registry.MustRegister(g)
		return g
	}

	apiVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "api",
			Help: "Api response duration by path",
		},
		[]string{"path"},
	)
	registry.MustRegister(apiVec)

	txs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivered_txs",
			Help: "Delivered transactions by result code",
		},
		[]string{"code"},
	)
	registry.MustRegister(txs)

	data := &Data{
		registry: registry,
		BlockEnd: blockEnd{
			HeightProm:    gauge("last_block_height", "Last block height"),
			DurationProm:  gauge("last_block_duration", "Last block duration"),
			TimestampProm: gauge("last_block_timestamp", "Last block timestamp"),
		},
		Ledger: ledgerGauges{
			Pools:          gauge("open_pools", "Number of live pools"),
			PendingPayouts: gauge("pending_payouts", "Payouts waiting for settlement"),
			FailedPayouts:  gauge("failed_payouts", "Payouts waiting for a retry"),
			Escrow:         gauge("escrow_balance", "Value held in escrow custody"),
			Stranded:       gauge("stranded_value", "Resolution residual held in escrow"),
		},
		Txs: txs,
		Api: apiResponseTime{responseTime: apiVec},
	}

	return data
}

// Registry returns the registry for the metrics endpoint
func (d *Data) Registry() *prometheus.Registry {
	return d.registry
}

func (d *Data) SetStartBlock(height uint64, now time.Time) {
	d.BlockStart.Lock()
	defer d.BlockStart.Unlock()

	d.BlockStart.height = height
	d.BlockStart.time = now
}

// SetEndBlockDuration closes the block opened by SetStartBlock
func (d *Data) SetEndBlockDuration(timeEnd time.Time, height uint64) {
	d.BlockStart.RLock()
	defer d.BlockStart.RUnlock()

	if d.BlockStart.height != height {
		return
	}

	duration := timeEnd.Sub(d.BlockStart.time).Seconds()

	d.BlockEnd.Lock()
	defer d.BlockEnd.Unlock()

	d.BlockEnd.LastBlockInfo = LastBlockInfo{
		Height:    height,
		Duration:  duration,
		Timestamp: float64(timeEnd.UnixNano()),
	}

	d.BlockEnd.HeightProm.Set(float64(height))
	d.BlockEnd.DurationProm.Set(duration)
	d.BlockEnd.TimestampProm.Set(float64(timeEnd.UnixNano()))
}

func (d *Data) GetLastBlockInfo() LastBlockInfo {
	d.BlockEnd.RLock()
	defer d.BlockEnd.RUnlock()

	return d.BlockEnd.LastBlockInfo
}

// SetLedger publishes the custody figures of the committed state
func (d *Data) SetLedger(pools int, pending int, failed int, escrow *big.Int, stranded *big.Int) {
	d.Ledger.Pools.Set(float64(pools))
	d.Ledger.PendingPayouts.Set(float64(pending))
	d.Ledger.FailedPayouts.Set(float64(failed))
	d.Ledger.Escrow.Set(bigToFloat(escrow))
	d.Ledger.Stranded.Set(bigToFloat(stranded))
}

func (d *Data) AddTx(code uint32) {
	d.Txs.WithLabelValues(strconv.FormatUint(uint64(code), 10)).Inc()
}

func (d *Data) SetApiTime(duration time.Duration, path string) {
	d.Api.Lock()
	defer d.Api.Unlock()

	d.Api.responseTime.With(prometheus.Labels{"path": path}).Set(duration.Seconds())
}

func bigToFloat(value *big.Int) float64 {
	f, _ := new(big.Float).SetInt(value).Float64()
	return f
}
