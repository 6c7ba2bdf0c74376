package ledger

import "github.com/daehan/moneybook/internal/model"

// Period narrows a valuation series to a trailing window.
type Period string

// Series periods.
const (
	PeriodAll      Period = "all"
	PeriodMonth    Period = "1m"
	PeriodQuarter  Period = "3m"
	PeriodHalfYear Period = "6m"
	PeriodYear     Period = "1y"
)

func (p Period) days() (int, bool) {
	switch p {
	case PeriodMonth:
		return 30, true
	case PeriodQuarter:
		return 90, true
	case PeriodHalfYear:
		return 180, true
	case PeriodYear:
		return 365, true
	default:
		return 0, false
	}
}

// ValuationSeries returns the chart feed for an account: the records from
// the latest mark-to-market onward (the current position's history), further
// narrowed to the trailing period. Accounts that were never marked fall back
// to the full record list before the period filter.
func (s *Service) ValuationSeries(accountID string, period Period) []model.ValuationRecord {
	all := s.GetValuations(accountID)

	var latestMark *model.ValuationRecord
	for i := range all {
		if all[i].TransactionType != model.ValuationMark {
			continue
		}
		if latestMark == nil || all[i].EvaluationDate > latestMark.EvaluationDate {
			latestMark = &all[i]
		}
	}

	windowed := all
	if latestMark != nil {
		windowed = []model.ValuationRecord{}
		for _, rec := range all {
			if rec.EvaluationDate >= latestMark.EvaluationDate {
				windowed = append(windowed, rec)
			}
		}
	}

	days, bounded := period.days()
	if !bounded {
		return windowed
	}

	start := s.now().AddDate(0, 0, -days)
	filtered := []model.ValuationRecord{}
	for _, rec := range windowed {
		at, err := model.ParseDate(rec.EvaluationDate)
		if err != nil {
			continue
		}
		if !at.Before(start) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
