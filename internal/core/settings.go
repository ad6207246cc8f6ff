package core

// Settings are the per-room game constants. They come from config, not code.
type Settings struct {
	MinPlayers          int
	MaxPlayers          int
	RoundsTotal         int
	StartingStock       int
	MaxHarvestPerPlayer int
	GrowthStartRound    int
	// StockCap bounds regrowth; zero or negative disables the cap.
	StockCap int
}

type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseActive
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}
