package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"quotesentinel/internal/model"
)

// Assets names the two simulated balances in human-readable output.
type Assets struct {
	Stable   string
	Volatile string
}

// Fixed rounds v half away from zero and renders it with places decimals.
func Fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Format renders the final summary: stable balance to 2 decimals, volatile
// balance to 6, estimated value to 2.
func Format(rep *model.FinalReport, a Assets) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Final %s Balance: %s\n", a.Stable, Fixed(rep.Stable, 2)))
	b.WriteString(fmt.Sprintf("Final %s Balance: %s\n", a.Volatile, Fixed(rep.Volatile, 6)))
	b.WriteString(fmt.Sprintf("Final Estimated USD Value: $%s\n", Fixed(rep.EstimatedValue, 2)))
	return b.String()
}

// Write writes the formatted summary to path, replacing any previous report.
func Write(path string, rep *model.FinalReport, a Assets) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Format(rep, a)), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
