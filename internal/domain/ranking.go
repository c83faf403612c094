package domain

import (
	"fmt"
	"sort"
)

// RankEntry is one player's aggregate within a (group,size) ranking.
type RankEntry struct {
	Nick      string `json:"nick"`
	Victories int    `json:"victories"`
	Games     int    `json:"games"`
}

// Ranking is the per-(group,size) leaderboard aggregate. Pure append-only:
// entries are only ever incremented, never rebuilt.
type Ranking struct {
	Group   int                   `json:"group"`
	Size    int                   `json:"size"`
	Entries map[string]*RankEntry `json:"entries"`
}

// RankingKey builds the store id for a (group,size) ranking.
func RankingKey(group, size int) string {
	return fmt.Sprintf("%d:%d", group, size)
}

func NewRanking(group, size int) *Ranking {
	return &Ranking{
		Group:   group,
		Size:    size,
		Entries: make(map[string]*RankEntry),
	}
}

// Record adds one finished game for nick.
func (r *Ranking) Record(nick string, won bool) {
	e, ok := r.Entries[nick]
	if !ok {
		e = &RankEntry{Nick: nick}
		r.Entries[nick] = e
	}
	e.Games++
	if won {
		e.Victories++
	}
}

// Top returns the best n entries by victories desc, ties broken by ascending nick.
func (r *Ranking) Top(n int) []RankEntry {
	res := make([]RankEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		res = append(res, *e)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Victories != res[j].Victories {
			return res[i].Victories > res[j].Victories
		}
		return res[i].Nick < res[j].Nick
	})
	if len(res) > n {
		res = res[:n]
	}
	return res
}
