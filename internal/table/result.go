package table

import "github.com/google/uuid"

// HandResult summarises a finished hand
type HandResult struct {
	HandID   uuid.UUID
	Hand     int
	Dealer   int
	Pot      int
	Street   State // furthest betting street dealt
	Showdown bool
	Winner   int // -1 for a split pot
	Net      [NumPlayers]int
}

// ResultSink receives every finished hand, on the engine's goroutine
type ResultSink interface {
	HandFinished(res HandResult)
}
