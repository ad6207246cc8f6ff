package core

import (
	"math"

	"github.com/lcrespo/fishpond/internal/domain"
)

// Allocate reconciles simultaneous harvest requests against the available
// stock. When the pond holds enough for everyone, each participant gets
// exactly what they asked for. Otherwise every request is scaled by
// stock/sum(requested), rounded to nearest, and the residual rounding error
// is corrected one unit at a time in roster order so that the result sums to
// the stock exactly.
//
// order is the roster insertion order and makes the correction pass
// deterministic. Allocations never go negative and never exceed the request.
func Allocate(stock int, requested map[domain.ParticipantID]int, order []domain.ParticipantID) map[domain.ParticipantID]int {
	out := make(map[domain.ParticipantID]int, len(order))

	total := 0
	for _, id := range order {
		total += requested[id]
	}

	if total <= stock {
		for _, id := range order {
			out[id] = requested[id]
		}
		return out
	}

	ratio := float64(stock) / float64(total)
	sum := 0
	for _, id := range order {
		v := int(math.Round(float64(requested[id]) * ratio))
		out[id] = v
		sum += v
	}

	for sum != stock {
		moved := false
		for _, id := range order {
			if sum == stock {
				break
			}
			if sum < stock && out[id] < requested[id] {
				out[id]++
				sum++
				moved = true
			} else if sum > stock && out[id] > 0 {
				out[id]--
				sum--
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return out
}
