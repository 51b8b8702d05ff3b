package notifier

import (
	"fmt"
	"strings"

	"quotesentinel/internal/model"
	"quotesentinel/internal/report"
)

const timeLayout = "2006-01-02 15:04:05"

// FormatTradeAlert formats a BUY/SELL record into a Telegram message.
func FormatTradeAlert(rec *model.Record, a report.Assets) string {
	var b strings.Builder
	icon := "🟢"
	if rec.Action == model.ActionSell {
		icon = "🔴"
	}
	b.WriteString(fmt.Sprintf("%s <b>SIMULATED %s</b> | %s\n\n", icon, rec.Action, rec.Timestamp.Format(timeLayout)))
	b.WriteString(fmt.Sprintf("Price: %.6f (%+.4f%%)\n", rec.Price, rec.PctChange))
	b.WriteString(fmt.Sprintf("%s: %s\n", a.Stable, report.Fixed(rec.Stable, 2)))
	b.WriteString(fmt.Sprintf("%s: %s\n", a.Volatile, report.Fixed(rec.Volatile, 6)))
	b.WriteString(fmt.Sprintf("Value: $%s (%+.2f%%)\n", report.Fixed(rec.EstimatedValue, 2), rec.CumulativeReturn))
	return b.String()
}

// FormatStatus formats the latest snapshot for display.
func FormatStatus(snap *model.Snapshot, a report.Assets) string {
	var b strings.Builder
	b.WriteString("📦 <b>Portfolio status</b>\n\n")
	if snap == nil || snap.Latest == nil {
		b.WriteString("No price sample yet\n")
		if snap != nil {
			b.WriteString(fmt.Sprintf("%s: %s\n", a.Stable, report.Fixed(snap.Portfolio.Stable, 2)))
		}
		return b.String()
	}
	rec := snap.Latest
	b.WriteString(fmt.Sprintf("Last Updated: %s\n", rec.Timestamp.Format(timeLayout)))
	b.WriteString(fmt.Sprintf("Price: %.6f %s\n", rec.Price, a.Volatile))
	b.WriteString(fmt.Sprintf("%s: %s\n", a.Stable, report.Fixed(snap.Portfolio.Stable, 2)))
	b.WriteString(fmt.Sprintf("%s: %s\n", a.Volatile, report.Fixed(snap.Portfolio.Volatile, 6)))
	b.WriteString(fmt.Sprintf("Value: $%s\n", report.Fixed(rec.EstimatedValue, 2)))
	b.WriteString(fmt.Sprintf("Cumulative Return: %+.2f%%\n", rec.CumulativeReturn))
	b.WriteString(fmt.Sprintf("Ticks: %d\n", snap.Seq))
	return b.String()
}

// FormatFinal wraps the final report for Telegram.
func FormatFinal(rep *model.FinalReport, a report.Assets) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏁 <b>Bot stopped</b> | %s\n\n", rep.StoppedAt.Format(timeLayout)))
	b.WriteString(report.Format(rep, a))
	b.WriteString(fmt.Sprintf("Ticks: %d | Trades: %d\n", rep.Ticks, rep.Trades))
	return b.String()
}
