package solver

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Config governs one search run.
type Config struct {
	TimeBudget    time.Duration
	Weights       Weights
	Seed          int64 // 0 seeds from the clock
	CheckInterval int   // moves between cancellation/deadline checks
}

const (
	defaultTimeBudget    = 30 * time.Second
	defaultCheckInterval = 64

	startTemperature = 2.0
	endTemperature   = 0.05
)

// Solve runs a local search over the problem's assignments: pick a random
// assignment, try a random candidate trainer (or nil to unstaff), and keep
// the move when it improves the score or passes a cooling acceptance test
// that lets early worsening moves escape local optima. The search stops when
// the time budget elapses or ctx is cancelled; either way the best solution
// seen is restored so the problem is always left consistent, and the final
// score is attached to the problem. A hard score below zero on return means
// no feasible solution was found within the budget.
func Solve(ctx context.Context, p *Problem, cfg Config) Score {
	if cfg.TimeBudget <= 0 {
		cfg.TimeBudget = defaultTimeBudget
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = defaultCheckInterval
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	current := Evaluate(p, cfg.Weights)
	best := current
	bestAssign := snapshot(p)

	if len(p.Assignments) == 0 || len(p.Trainers) == 0 {
		p.Score = current
		return current
	}

	start := time.Now()
	deadline := start.Add(cfg.TimeBudget)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}

	// Value range includes the "unassign" move.
	candidates := len(p.Trainers) + 1

	moves := 0
	for {
		if moves%cfg.CheckInterval == 0 {
			if ctx.Err() != nil || !time.Now().Before(deadline) {
				break
			}
		}
		moves++

		a := p.Assignments[rng.Intn(len(p.Assignments))]
		prev := a.Trainer

		var next *Trainer
		if pick := rng.Intn(candidates); pick < len(p.Trainers) {
			next = p.Trainers[pick]
		}
		if next == prev {
			continue
		}

		a.Trainer = next
		cand := Evaluate(p, cfg.Weights)

		switch {
		case cand.Better(current):
			current = cand
			if cand.Better(best) {
				best = cand
				copySnapshot(bestAssign, p)
			}
		case acceptWorse(rng, current, cand, temperature(start, deadline)):
			current = cand
		default:
			a.Trainer = prev
		}
	}

	restore(p, bestAssign)
	p.Score = best
	return best
}

// temperature cools linearly over the budget.
func temperature(start, deadline time.Time) float64 {
	total := deadline.Sub(start)
	if total <= 0 {
		return endTemperature
	}
	frac := float64(time.Since(start)) / float64(total)
	if frac > 1 {
		frac = 1
	}
	return startTemperature + (endTemperature-startTemperature)*frac
}

func acceptWorse(rng *rand.Rand, current, cand Score, temp float64) bool {
	// Never trade hard feasibility away once reached.
	if cand.Hard < current.Hard {
		return false
	}
	delta := float64(cand.Soft - current.Soft)
	return rng.Float64() < math.Exp(delta/temp)
}

func snapshot(p *Problem) []*Trainer {
	out := make([]*Trainer, len(p.Assignments))
	copySnapshot(out, p)
	return out
}

func copySnapshot(dst []*Trainer, p *Problem) {
	for i, a := range p.Assignments {
		dst[i] = a.Trainer
	}
}

func restore(p *Problem, saved []*Trainer) {
	for i, a := range p.Assignments {
		a.Trainer = saved[i]
	}
}
