package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/internal/messaging"
	"github.com/pavelc4/terabox-tg-bot/internal/stats"
	"github.com/pavelc4/terabox-tg-bot/internal/telegram"
	"github.com/pavelc4/terabox-tg-bot/pkg/utils"
)

type AdminHandler struct {
	msgr      Messenger
	stats     *stats.BotStats
	transfers Transfers
	ownerID   int64
	diskPath  string
	sysInfo   func(diskPath string) *stats.SystemInfo
}

func NewAdminHandler(m Messenger, st *stats.BotStats, t Transfers, ownerID int64, diskPath string) *AdminHandler {
	return &AdminHandler{
		msgr:      m,
		stats:     st,
		transfers: t,
		ownerID:   ownerID,
		diskPath:  diskPath,
		sysInfo:   st.SystemInfo,
	}
}

func (h *AdminHandler) HandleStats(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	if h.ownerID == 0 || messaging.SenderID(msg) != h.ownerID {
		return nil // Ignore non-owner
	}

	peer, err := telegram.InputPeer(msg.PeerID, e)
	if err != nil {
		return err
	}

	text := formatStats(h.stats.Snapshot(), h.sysInfo(h.diskPath), h.transfers.ActiveTransfers())
	_, err = h.msgr.Reply(ctx, peer, msg.ID, text, nil)
	return err
}

func formatStats(snap stats.Snapshot, sys *stats.SystemInfo, active int) string {
	var kinds []string
	for k, v := range snap.Kinds {
		kinds = append(kinds, fmt.Sprintf("%s %d", k, v))
	}
	sort.Strings(kinds)
	kindLine := "-"
	if len(kinds) > 0 {
		kindLine = strings.Join(kinds, ", ")
	}

	return fmt.Sprintf(
		"<b>Bot Status</b>\n\n"+
			"<b>Transfers</b>\n"+
			"├ Active : <code>%d</code>\n"+
			"├ Total : <code>%d</code>\n"+
			"├ Success : <code>%d (%s)</code>\n"+
			"├ Failed : <code>%d</code>\n"+
			"├ Cancelled : <code>%d</code>\n"+
			"├ Cached : <code>%d</code>\n"+
			"├ Kinds : <code>%s</code>\n"+
			"├ Delivered : <code>%s</code>\n"+
			"└ Users : <code>%d</code>\n\n"+
			"<b>Today</b>\n"+
			"├ Transfers : <code>%d</code>\n"+
			"├ Delivered : <code>%s</code>\n"+
			"└ Users : <code>%d</code>\n\n"+
			"<b>System</b>\n"+
			"├ Host : <code>%s (%s)</code>\n"+
			"├ Uptime : <code>%s</code>\n"+
			"├ CPU : <code>%d cores, %.1f%%</code>\n"+
			"├ Memory : <code>%s / %s (%.1f%%)</code>\n"+
			"├ Disk : <code>%s / %s (%.1f%%)</code>\n"+
			"└ Network : <code>↑ %s ↓ %s</code>\n\n"+
			"<b>Bot Process</b>\n"+
			"├ Uptime : <code>%s</code>\n"+
			"├ PID : <code>%d</code>\n"+
			"├ CPU : <code>%.1f%%</code>\n"+
			"├ Mem : <code>%s</code>\n"+
			"├ Routines : <code>%d</code>\n"+
			"└ Go Ver : <code>%s</code>",
		active,
		snap.Transfers,
		snap.Success, snap.SuccessRate(),
		snap.Failed,
		snap.Cancelled,
		snap.CacheHits,
		messaging.Escape(kindLine),
		utils.FormatSize(snap.TotalBytes),
		snap.UniqueUsers,
		snap.Today.Transfers,
		utils.FormatSize(snap.Today.Bytes),
		len(snap.Today.Users),
		messaging.Escape(sys.Hostname), messaging.Escape(sys.OS),
		sys.SystemUptime.Round(time.Second),
		sys.CPUCores, sys.CPUUsage,
		utils.FormatSize(int64(sys.MemUsed)), utils.FormatSize(int64(sys.MemTotal)), sys.MemPercent,
		utils.FormatSize(int64(sys.DiskUsed)), utils.FormatSize(int64(sys.DiskTotal)), sys.DiskPercent,
		utils.FormatSize(int64(sys.NetSent)), utils.FormatSize(int64(sys.NetRecv)),
		snap.Uptime.Round(time.Second),
		sys.ProcessPID,
		sys.ProcessCPU,
		utils.FormatSize(int64(sys.ProcessMem)),
		sys.Goroutines,
		sys.GoVersion,
	)
}
