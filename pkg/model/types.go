// Package model defines the domain types shared by the store and the CLI.
//
// The system keeps replicated counters in a row-oriented store. Each
// counter is a PN-Counter: two vector clocks, one accumulating increments
// and one accumulating decrements. Every (counter, replica, polarity)
// triple owns a row holding one encoded clock, so concurrent writers from
// different replicas never touch each other's rows; readers aggregate a
// counter's rows with the clock join, which is safe in any order.
package model

import (
	"fmt"
	"time"
)

// Polarity says which side of a PN-Counter a row belongs to.
type Polarity string

const (
	// PolarityInc marks the increment clock.
	PolarityInc Polarity = "inc"
	// PolarityDec marks the decrement clock.
	PolarityDec Polarity = "dec"
)

// ParsePolarity validates a polarity read from storage or user input.
func ParsePolarity(s string) (Polarity, error) {
	switch Polarity(s) {
	case PolarityInc:
		return PolarityInc, nil
	case PolarityDec:
		return PolarityDec, nil
	default:
		return "", fmt.Errorf("unknown polarity %q", s)
	}
}

// Replica represents a registered writer identity.
type Replica struct {
	ID         string    `json:"id"`
	Registered time.Time `json:"registered_at"`
	LastSeen   time.Time `json:"last_seen_at"`
}

// CounterRow is one stored row: a single replica's clock for one side of
// one counter, in encoded text form.
type CounterRow struct {
	Name      string    `json:"name"`
	Replica   string    `json:"replica"`
	Polarity  Polarity  `json:"polarity"`
	Clock     string    `json:"clock"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CounterState is the aggregated view of a counter: the merged clocks of
// all rows, and the scalar value they reduce to.
type CounterState struct {
	Name  string `json:"name"`
	Inc   string `json:"inc_clock"`
	Dec   string `json:"dec_clock"`
	Value int64  `json:"value"`
}
