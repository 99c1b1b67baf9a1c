// Package stats summarizes review state for reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/vocabox/internal/leitner"
	"github.com/verte-zerg/vocabox/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summarize counts new, due and per-box items for every chapter of items.
// Due counts reviewed items only; new items are reported separately.
func Summarize(items []model.VocabItem, st *leitner.ReviewState, today leitner.Date) []model.ChapterSummary {
	boxCount := len(st.Intervals)
	byChapter := map[int]*model.ChapterSummary{}
	for _, item := range items {
		sum, ok := byChapter[item.Chapter]
		if !ok {
			sum = &model.ChapterSummary{Chapter: item.Chapter, Boxes: make([]int, boxCount)}
			byChapter[item.Chapter] = sum
		}
		sum.Total++
		rec, ok := st.Record(item.ID)
		if !ok {
			sum.New++
			continue
		}
		if rec.Box >= 0 && rec.Box < boxCount {
			sum.Boxes[rec.Box]++
		}
		if leitner.IsDue(st, item.ID, today) {
			sum.Due++
		}
	}
	out := make([]model.ChapterSummary, 0, len(byChapter))
	for _, sum := range byChapter {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Chapter < out[j].Chapter })
	return out
}

// Totals folds summaries into one row.
func Totals(summaries []model.ChapterSummary) model.ChapterSummary {
	var total model.ChapterSummary
	for _, sum := range summaries {
		total.Total += sum.Total
		total.New += sum.New
		total.Due += sum.Due
		if len(sum.Boxes) > len(total.Boxes) {
			grown := make([]int, len(sum.Boxes))
			copy(grown, total.Boxes)
			total.Boxes = grown
		}
		for i, n := range sum.Boxes {
			total.Boxes[i] += n
		}
	}
	return total
}

// Forecast returns the number of reviewed items falling due on each of the
// next days, starting at today. Overdue items count toward today.
func Forecast(items []model.VocabItem, st *leitner.ReviewState, today leitner.Date, days int) []int {
	if days <= 0 {
		return nil
	}
	counts := make([]int, days)
	for _, item := range items {
		rec, ok := st.Record(item.ID)
		if !ok {
			continue
		}
		offset := 0
		if !rec.Due.IsZero() {
			offset = max(0, today.DaysUntil(rec.Due))
		}
		if offset < days {
			counts[offset]++
		}
	}
	return counts
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// SummaryHeaders returns the column titles for summary rows.
func SummaryHeaders(boxCount int) []string {
	headers := []string{"Chapter", "Total", "New", "Due"}
	for i := 0; i < boxCount; i++ {
		headers = append(headers, fmt.Sprintf("Box %d", i))
	}
	return headers
}

// SummaryRow formats one summary as table cells. The totals row is labeled "All".
func SummaryRow(sum model.ChapterSummary, boxCount int, isTotal bool) []string {
	label := fmt.Sprintf("%d", sum.Chapter)
	if isTotal {
		label = "All"
	}
	row := []string{label, fmt.Sprintf("%d", sum.Total), fmt.Sprintf("%d", sum.New), fmt.Sprintf("%d", sum.Due)}
	for i := 0; i < boxCount; i++ {
		n := 0
		if i < len(sum.Boxes) {
			n = sum.Boxes[i]
		}
		row = append(row, fmt.Sprintf("%d", n))
	}
	return row
}

// RenderSummary prints a per-chapter table followed by a totals row.
func RenderSummary(w io.Writer, summaries []model.ChapterSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No vocabulary found.")
		return err
	}
	total := Totals(summaries)
	boxCount := len(total.Boxes)
	rows := make([][]string, 0, len(summaries)+1)
	for _, sum := range summaries {
		rows = append(rows, SummaryRow(sum, boxCount, false))
	}
	rows = append(rows, SummaryRow(total, boxCount, true))

	rightAlign := map[int]bool{}
	for i := 1; i < 4+boxCount; i++ {
		rightAlign[i] = true
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	for _, line := range formatTable(SummaryHeaders(boxCount), rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderForecast prints upcoming due counts as a sparkline and a table.
func RenderForecast(w io.Writer, counts []int, today leitner.Date) error {
	if len(counts) == 0 {
		return nil
	}
	values := make([]float64, len(counts))
	sum := 0
	for i, n := range counts {
		values[i] = float64(n)
		sum += n
	}
	if _, err := fmt.Fprintf(w, "Forecast (next %d days, %d reviews)\n", len(counts), sum); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s]\n", Sparkline(values)); err != nil {
		return err
	}
	rows := make([][]string, 0, len(counts))
	for i, n := range counts {
		if n == 0 {
			continue
		}
		rows = append(rows, []string{today.AddDays(i).String(), fmt.Sprintf("%d", n)})
	}
	for _, line := range formatTable([]string{"Date", "Due"}, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
