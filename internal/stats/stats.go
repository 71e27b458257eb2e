package stats

import (
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/net"
)

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailed
	OutcomeCancelled
)

type BotStats struct {
	mu        sync.RWMutex
	StartTime time.Time

	Transfers          int64
	SuccessTransfers   int64
	FailedTransfers    int64
	CancelledTransfers int64
	CacheHits          int64
	TotalBytes         int64

	// KindStats counts successful transfers per media kind.
	KindStats   map[string]int64
	UniqueUsers map[int64]bool

	DailyStats   map[string]*PeriodStats // YYYY-MM-DD
	MonthlyStats map[string]*PeriodStats // YYYY-MM

	LastTransferTime time.Time

	NetSentBaseline uint64
	NetRecvBaseline uint64

	now func() time.Time
}

type PeriodStats struct {
	Transfers int64
	Bytes     int64
	Users     map[int64]bool
}

func New() *BotStats {
	s := &BotStats{
		StartTime:    time.Now(),
		KindStats:    make(map[string]int64),
		UniqueUsers:  make(map[int64]bool),
		DailyStats:   make(map[string]*PeriodStats),
		MonthlyStats: make(map[string]*PeriodStats),
		now:          time.Now,
	}
	if netStats, err := net.IOCounters(false); err == nil && len(netStats) > 0 {
		s.NetSentBaseline = netStats[0].BytesSent
		s.NetRecvBaseline = netStats[0].BytesRecv
	}
	return s
}

// RecordTransfer counts a finished transfer. kind and bytes only count
// towards totals when the file reached the user.
func (s *BotStats) RecordTransfer(userID int64, kind string, bytes int64, outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.Transfers++
	s.LastTransferTime = now
	s.UniqueUsers[userID] = true

	switch outcome {
	case OutcomeSuccess:
		s.SuccessTransfers++
		s.TotalBytes += bytes
		if kind != "" {
			s.KindStats[kind]++
		}
	case OutcomeCancelled:
		s.CancelledTransfers++
	default:
		s.FailedTransfers++
	}

	if outcome != OutcomeSuccess {
		bytes = 0
	}
	s.recordPeriodStats(s.DailyStats, now.Format("2006-01-02"), userID, bytes)
	s.recordPeriodStats(s.MonthlyStats, now.Format("2006-01"), userID, bytes)
}

// RecordCacheHit counts a link served from an earlier upload.
func (s *BotStats) RecordCacheHit(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CacheHits++
	s.UniqueUsers[userID] = true
}

func (s *BotStats) recordPeriodStats(stats map[string]*PeriodStats, key string, userID int64, bytes int64) {
	if stats[key] == nil {
		stats[key] = &PeriodStats{Users: make(map[int64]bool)}
	}
	stats[key].Transfers++
	stats[key].Bytes += bytes
	stats[key].Users[userID] = true
}

type Snapshot struct {
	Transfers   int64
	Success     int64
	Failed      int64
	Cancelled   int64
	CacheHits   int64
	TotalBytes  int64
	UniqueUsers int
	Kinds       map[string]int64
	Today       PeriodStats
	Month       PeriodStats
	Uptime      time.Duration
}

func (s *BotStats) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	kinds := make(map[string]int64, len(s.KindStats))
	for k, v := range s.KindStats {
		kinds[k] = v
	}

	return Snapshot{
		Transfers:   s.Transfers,
		Success:     s.SuccessTransfers,
		Failed:      s.FailedTransfers,
		Cancelled:   s.CancelledTransfers,
		CacheHits:   s.CacheHits,
		TotalBytes:  s.TotalBytes,
		UniqueUsers: len(s.UniqueUsers),
		Kinds:       kinds,
		Today:       copyPeriod(s.DailyStats[now.Format("2006-01-02")]),
		Month:       copyPeriod(s.MonthlyStats[now.Format("2006-01")]),
		Uptime:      now.Sub(s.StartTime),
	}
}

func copyPeriod(p *PeriodStats) PeriodStats {
	if p == nil {
		return PeriodStats{Users: map[int64]bool{}}
	}
	users := make(map[int64]bool, len(p.Users))
	for k, v := range p.Users {
		users[k] = v
	}
	return PeriodStats{Transfers: p.Transfers, Bytes: p.Bytes, Users: users}
}

// SuccessRate is the share of finished transfers that reached the user.
func (s Snapshot) SuccessRate() string {
	if s.Transfers == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(s.Success)*100/float64(s.Transfers))
}
