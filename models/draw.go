package models

import "time"

// Stream distinguishes the two parallel five-number draws published for
// every drawing: the winning numbers and the machine (backup) numbers.
type Stream string

const (
	StreamWinning Stream = "winning"
	StreamMachine Stream = "machine"
)

// DrawType identifies one of the recurring lottery games tracked by the
// store (e.g. a daily 90-number draw held on a fixed weekly schedule).
type DrawType struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Draw is a single drawing: five winning numbers plus five machine
// numbers, both drawn from the 1-90 range.
type Draw struct {
	ID         int       `json:"id"`
	DrawTypeID int       `json:"drawTypeId"`
	Date       time.Time `json:"date"`
	Winning    [5]int    `json:"winning"`
	Machine    [5]int    `json:"machine"`
}

// Numbers returns the five numbers for the requested stream.
func (d Draw) Numbers(stream Stream) [5]int {
	if stream == StreamMachine {
		return d.Machine
	}
	return d.Winning
}

// DayOfWeek returns the Go weekday the draw fell on.
func (d Draw) DayOfWeek() time.Weekday {
	return d.Date.Weekday()
}

// SelectorDecade buckets a 1-90 number into one of nine ten-wide decades as
// ⌊(n-1)/10⌋: 1-10, 11-20, ..., 81-90. Used by the Selector's decade-balance
// constraint.
func SelectorDecade(n int) int {
	return (n - 1) / 10
}

// DistributionDecade buckets a 1-90 number the way the decade-distribution
// analyzer reports it: 1-9, 10-19, ..., 80-90 (the first bucket is nine
// numbers wide, the last eleven).
func DistributionDecade(n int) int {
	if n <= 9 {
		return 0
	}
	if n >= 90 {
		return 8
	}
	return n / 10
}
