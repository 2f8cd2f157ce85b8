package utils

import "time"

// Stats tracks run throughput and population for the status line
type Stats struct {
	Generation           int
	Population           int
	GenerationsPerSecond float64
	AveragePopulation    float64
	StartTime            time.Time

	lastFrame time.Time
}

func NewStats(now time.Time) *Stats {
	return &Stats{StartTime: now, lastFrame: now}
}

// Observe records a frame seen at now.
func (s *Stats) Observe(generation, population int, now time.Time) {
	if elapsed := now.Sub(s.lastFrame); elapsed > 0 && generation > s.Generation {
		s.GenerationsPerSecond = float64(generation-s.Generation) / elapsed.Seconds()
	}
	s.lastFrame = now
	s.Generation = generation
	s.Population = population

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// Reset restarts the counters, used after the board is cleared.
func (s *Stats) Reset(now time.Time) {
	*s = *NewStats(now)
}

// Runtime returns the time since the stats were started or reset.
func (s *Stats) Runtime(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}
