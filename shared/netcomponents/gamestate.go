package netcomponents

import (
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetGameStateData struct {
	ServerTime float64 // seconds since the match started
	TickRate   int
	MatchState netconfig.MatchStateID
	Scores     map[string]int // player name -> kills
}

var NetGameState = donburi.NewComponentType[NetGameStateData]()
