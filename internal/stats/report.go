package stats

import (
	"context"

	"github.com/verte-zerg/vocabox/internal/leitner"
	"github.com/verte-zerg/vocabox/internal/model"
)

// DefaultForecastDays is the forecast horizon used by the CLI.
const DefaultForecastDays = 14

// Report contains precomputed data for stats rendering.
type Report struct {
	Today     leitner.Date
	Summaries []model.ChapterSummary
	Total     model.ChapterSummary
	Forecast  []int
}

// BuildReport loads the review state and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *leitner.Store, items []model.VocabItem, today leitner.Date, days int) Report {
	state := st.Load(ctx)
	summaries := Summarize(items, state, today)
	return Report{
		Today:     today,
		Summaries: summaries,
		Total:     Totals(summaries),
		Forecast:  Forecast(items, state, today, days),
	}
}
