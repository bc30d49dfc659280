package domain

import (
	"sort"
	"time"
)

type DayGroup struct {
	Date         string        `json:"date"`
	Income       Money         `json:"income"`
	Expense      Money         `json:"expense"`
	Transactions []Transaction `json:"transactions"`
}

type Summary struct {
	TotalIncome  Money      `json:"total_income"`
	TotalExpense Money      `json:"total_expense"`
	NetBalance   Money      `json:"net_balance"`
	DayGroups    []DayGroup `json:"day_groups"`
}

// Aggregate totals txs and groups them by calendar date in loc, newest day
// first. Transactions inside a day keep their input order.
func Aggregate(txs []Transaction, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}

	s := Summary{DayGroups: []DayGroup{}}
	index := map[string]int{}
	for _, tx := range txs {
		key := tx.OccurredAt.In(loc).Format(time.DateOnly)
		i, ok := index[key]
		if !ok {
			i = len(s.DayGroups)
			index[key] = i
			s.DayGroups = append(s.DayGroups, DayGroup{Date: key})
		}
		g := &s.DayGroups[i]
		g.Transactions = append(g.Transactions, tx)

		switch tx.Type {
		case TypeIncome:
			s.TotalIncome += tx.Amount
			g.Income += tx.Amount
		case TypeExpense:
			s.TotalExpense += tx.Amount
			g.Expense += tx.Amount
		}
	}
	s.NetBalance = s.TotalIncome - s.TotalExpense

	// DateOnly keys sort lexically in date order.
	sort.SliceStable(s.DayGroups, func(a, b int) bool {
		return s.DayGroups[a].Date > s.DayGroups[b].Date
	})
	return s
}
