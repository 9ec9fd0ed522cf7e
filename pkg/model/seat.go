package model

import (
	"sort"
	"strconv"
)

const (
	SeatRows    = "ABCDEF"
	SeatColumns = 10
	MaxSeats    = len(SeatRows) * SeatColumns
)

// ParseSeat splits a seat identifier such as "C7" into its row letter and
// 1-based column. ok is false for anything outside the fixed grid.
func ParseSeat(id string) (row byte, col int, ok bool) {
	if len(id) < 2 || len(id) > 3 {
		return 0, 0, false
	}
	row = id[0]
	if row < SeatRows[0] || row > SeatRows[len(SeatRows)-1] {
		return 0, 0, false
	}
	if id[1] == '0' {
		return 0, 0, false
	}
	col, err := strconv.Atoi(id[1:])
	if err != nil || col < 1 || col > SeatColumns {
		return 0, 0, false
	}
	return row, col, true
}

func IsValidSeat(id string) bool {
	_, _, ok := ParseSeat(id)
	return ok
}

// AllSeats lists the grid in row-major order.
func AllSeats() []string {
	seats := make([]string, 0, MaxSeats)
	for i := 0; i < len(SeatRows); i++ {
		for col := 1; col <= SeatColumns; col++ {
			seats = append(seats, string(SeatRows[i])+strconv.Itoa(col))
		}
	}
	return seats
}

// SortSeats orders seats by row, then numerically by column, so A2 < A10.
// Identifiers outside the grid sort last, lexically.
func SortSeats(seats []string) {
	sort.Slice(seats, func(i, j int) bool {
		ri, ci, oki := ParseSeat(seats[i])
		rj, cj, okj := ParseSeat(seats[j])
		switch {
		case oki && okj:
			if ri != rj {
				return ri < rj
			}
			return ci < cj
		case oki != okj:
			return oki
		default:
			return seats[i] < seats[j]
		}
	})
}

type SeatSet map[string]struct{}

func NewSeatSet(seats ...string) SeatSet {
	set := make(SeatSet, len(seats))
	for _, s := range seats {
		set[s] = struct{}{}
	}
	return set
}

func (s SeatSet) Has(seat string) bool {
	_, ok := s[seat]
	return ok
}

// Intersect returns the members of seats already present in s, sorted.
func (s SeatSet) Intersect(seats []string) []string {
	var out []string
	for _, seat := range seats {
		if s.Has(seat) {
			out = append(out, seat)
		}
	}
	SortSeats(out)
	return out
}

func (s SeatSet) Add(seats ...string) {
	for _, seat := range seats {
		s[seat] = struct{}{}
	}
}

func (s SeatSet) Remove(seats ...string) {
	for _, seat := range seats {
		delete(s, seat)
	}
}

// Slice returns the set as a sorted, non-nil slice.
func (s SeatSet) Slice() []string {
	out := make([]string, 0, len(s))
	for seat := range s {
		out = append(out, seat)
	}
	SortSeats(out)
	return out
}
