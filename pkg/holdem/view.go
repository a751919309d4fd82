package holdem

import (
	"holdem-server/pkg/deck"
	"time"
)

// View is the table as a single player is allowed to see it
type View struct {
	ID         int64         `json:"id"`
	Status     Status        `json:"status"`
	MinPlayers int           `json:"minplayers"`
	MaxPlayers int           `json:"maxplayers"`
	MinBuyin   int           `json:"minbuyin"`
	MaxBuyin   int           `json:"maxbuyin"`
	SmallBlind int           `json:"smallblind"`
	BigBlind   int           `json:"bigblind"`
	Pot        int           `json:"pot"`
	RoundName  Round         `json:"roundname"`
	Board      []deck.Card   `json:"board"`
	Timeout    *time.Time    `json:"timeout"`
	Players    []*PlayerView `json:"players"`
}

// PlayerView is a seat as seen by a player
type PlayerView struct {
	Username        string      `json:"username"`
	UTID            int         `json:"utid"`
	Chips           int         `json:"chips"`
	Bet             int         `json:"bet"`
	RoundBet        int         `json:"roundbet"`
	Talked          bool        `json:"talked"`
	Cards           []deck.Card `json:"cards"`
	Dealer          bool        `json:"dealer"`
	IsSmallBlind    bool        `json:"isSmallBlind"`
	IsBigBlind      bool        `json:"isBigBlind"`
	CurrentPlayer   bool        `json:"currentplayer"`
	LastAction      *Action     `json:"lastaction"`
	Seated          bool        `json:"seated"`
	Folded          bool        `json:"folded"`
	RankName        string      `json:"rankname"`
	ActionTimestamp *time.Time  `json:"action_timestamp"`
}

// ViewFor returns the table as the user is allowed to see it
// Only the user's own cards and cards shown down at showdown are included
func (t *Table) ViewFor(userID int64) *View {
	v := &View{
		ID:         t.ID,
		Status:     t.Status,
		MinPlayers: t.Rules.MinPlayers,
		MaxPlayers: t.Rules.MaxPlayers,
		MinBuyin:   t.Rules.MinBuyin,
		MaxBuyin:   t.Rules.MaxBuyin,
		SmallBlind: t.Rules.SmallBlind,
		BigBlind:   t.Rules.BigBlind,
		Pot:        t.Pot,
		RoundName:  t.Round,
		Board:      cloneCards(t.Board),
		Players:    make([]*PlayerView, 0, len(t.Seats)),
	}

	if v.Board == nil {
		v.Board = []deck.Card{}
	}

	if t.HandActive() {
		timeout := t.Timeout
		v.Timeout = &timeout
	}

	for _, s := range t.Seats {
		v.Players = append(v.Players, t.seatView(s, userID))
	}

	return v
}

func (t *Table) seatView(s *Seat, userID int64) *PlayerView {
	p := &PlayerView{
		Username: s.Username,
		UTID:     s.Order,
		Chips:    s.Chips,
		Bet:      s.Bet,
		RoundBet: s.RoundBet,
		Talked:   s.Talked,
		Seated:   s.Seated,
		Folded:   s.Folded,
		RankName: s.RankName,
	}

	switch {
	case !s.Seated:
		p.Cards = []deck.Card{}
	case s.UserID == userID || s.Shown:
		p.Cards = cloneCards(s.Cards)
		if p.Cards == nil {
			p.Cards = []deck.Card{}
		}
	}

	if s.Seated {
		p.Dealer = s.Order == t.Dealer
		p.IsSmallBlind = s.Order == t.SmallBlind
		p.IsBigBlind = s.Order == t.BigBlind
		p.CurrentPlayer = t.HandActive() && s.Order == t.Current
	}

	if s.LastAction != ActionNone {
		action := s.LastAction
		p.LastAction = &action
	}

	if !s.ActionAt.IsZero() {
		at := s.ActionAt
		p.ActionTimestamp = &at
	}

	return p
}
