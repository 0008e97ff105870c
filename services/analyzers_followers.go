package services

import (
	"sort"

	"github.com/jshill103/lotto-brain/models"
)

// minFollowerCount and minFollowerProb are the thresholds a follower
// must clear: count >= 3 AND probability > 0.10.
const (
	minFollowerCount = 3
	minFollowerProb  = 0.10
)

// FollowerAnalysis walks consecutive draw pairs (anchor draw i, follower
// draw i+1) and accumulates, for every number seen in an anchor draw, the
// counts of numbers seen in the following draw. Returns the top 10
// followers per anchor that clear the count/probability thresholds.
func FollowerAnalysis(draws []models.Draw, stream models.Stream) map[int][]models.FollowerStat {
	anchorFreq := make(map[int]int, 90)
	followCount := make(map[[2]int]int)

	for i := 0; i+1 < len(draws); i++ {
		anchor := draws[i].Numbers(stream)
		follower := draws[i+1].Numbers(stream)
		if stream == models.StreamMachine && (anchor == ([5]int{}) || follower == ([5]int{})) {
			continue
		}
		for _, a := range anchor {
			anchorFreq[a]++
			for _, f := range follower {
				followCount[[2]int{a, f}]++
			}
		}
	}

	byAnchor := make(map[int][]models.FollowerStat, 90)
	for key, c := range followCount {
		anchor, follower := key[0], key[1]
		if c < minFollowerCount {
			continue
		}
		freq := anchorFreq[anchor]
		if freq == 0 {
			continue
		}
		prob := safeDiv(float64(c), float64(freq), 0)
		if prob <= minFollowerProb {
			continue
		}
		byAnchor[anchor] = append(byAnchor[anchor], models.FollowerStat{
			Anchor: anchor, Follower: follower, Count: c, Probability: prob,
		})
	}

	for anchor, stats := range byAnchor {
		sort.Slice(stats, func(i, j int) bool {
			if stats[i].Probability != stats[j].Probability {
				return stats[i].Probability > stats[j].Probability
			}
			return stats[i].Follower < stats[j].Follower
		})
		if len(stats) > 10 {
			stats = stats[:10]
		}
		byAnchor[anchor] = stats
	}
	return byAnchor
}
