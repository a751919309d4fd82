package holdem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound_String(t *testing.T) {
	a := assert.New(t)

	a.Equal("Deal", RoundDeal.String())
	a.Equal("Showdown", RoundShowdown.String())
	a.Panics(func() {
		_ = Round(9).String()
	})

	r, err := RoundFromString("Turn")
	a.NoError(err)
	a.Equal(RoundTurn, r)

	_, err = RoundFromString("Preflop")
	a.EqualError(err, "unknown round: Preflop")

	b, err := json.Marshal(RoundRiver)
	a.NoError(err)
	a.Equal(`"River"`, string(b))

	a.NoError(json.Unmarshal([]byte(`"Flop"`), &r))
	a.Equal(RoundFlop, r)
	a.Error(json.Unmarshal([]byte(`"Preflop"`), &r))
}

func TestTable_clockwise(t *testing.T) {
	a := assert.New(t)

	tbl := &Table{Seats: []*Seat{{Order: 2}, {Order: 4}, {Order: 7}}}

	orders := func(after int) []int {
		var o []int
		for _, s := range tbl.clockwise(after) {
			o = append(o, s.Order)
		}
		return o
	}

	a.Equal([]int{4, 7, 2}, orders(2))
	a.Equal([]int{7, 2, 4}, orders(5), "the seat after one that left")
	a.Equal([]int{2, 4, 7}, orders(7))
	a.Equal([]int{2, 4, 7}, orders(0))
}

func TestTable_Clone(t *testing.T) {
	a := assert.New(t)

	tbl := setupTable(t, testRules(2), 2)
	c := tbl.Clone()
	a.Equal(tbl.Seats[0].Cards, c.Seats[0].Cards)
	a.Empty(c.Flush().Ledger)

	c.Seats[0].Chips = 0
	c.Seats[0].Cards[0] = c.Seats[1].Cards[0]
	c.Deck = c.Deck[1:]
	c.Pot = 1

	assertChips(t, tbl, 1, 98000)
	a.Len(tbl.Deck, 48)
	a.Equal(0, tbl.Pot)
	assertAudit(t, tbl)
	a.Error(c.Audit())
}
