package domain

import (
	"fmt"
	"time"
)

// Money is an amount in minor currency units (cents).
type Money int64

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%d.%02d", sign, m/100, m%100)
}

const day = 24 * time.Hour

// Nights returns the number of billable days between two dates, never less than one.
func Nights(start, end time.Time) int64 {
	diff := Date(end).Sub(Date(start))
	days := int64(diff / day)
	if diff%day != 0 {
		days++
	}
	if days < 1 {
		return 1
	}
	return days
}

// ComputeTotal returns unitPrice * participants * days.
func ComputeTotal(unitPrice Money, participants int, start, end time.Time) Money {
	return unitPrice * Money(participants) * Money(Nights(start, end))
}
