package core

// Every remaining fish produces two more between seasons.
const growthFactor = 3

// Grow computes the next-season stock from what survived the harvest.
// Regrowth only kicks in from growthStartRound on; before that the stock
// carries over unchanged. A positive cap bounds the result.
func Grow(remaining, roundNum, growthStartRound, cap int) int {
	next := remaining
	if roundNum >= growthStartRound {
		next = remaining * growthFactor
	}
	if cap > 0 && next > cap {
		next = cap
	}
	return next
}
