package services

import (
	"context"
	"sort"
	"strings"

	"recycling-rewards-backend/models"
)

// LeaderboardQuery selects and pages the leaderboard. SortBy and SortOrder only
// change the display order of the page; rank always reflects global standing.
type LeaderboardQuery struct {
	County    string
	Page      int
	Size      int
	SortBy    string
	SortOrder string
}

type LeaderboardRanker struct {
	store Store
}

func NewLeaderboardRanker(store Store) *LeaderboardRanker {
	return &LeaderboardRanker{store: store}
}

func (r *LeaderboardRanker) Rank(ctx context.Context, q LeaderboardQuery) (models.Page[models.LeaderboardEntry], error) {
	page, size := normalizePage(q.Page, q.Size)
	desc, err := parseSortOrder(q.SortOrder)
	if err != nil {
		return models.Page[models.LeaderboardEntry]{}, err
	}
	less, byRank, err := leaderboardLess(q.SortBy)
	if err != nil {
		return models.Page[models.LeaderboardEntry]{}, err
	}

	standings, err := r.store.Users().ListStandings(ctx, strings.TrimSpace(q.County))
	if err != nil {
		return models.Page[models.LeaderboardEntry]{}, storageErr("load standings", err)
	}

	entries := RankStandings(standings)
	sortEntries(entries, less, byRank, desc)

	total := int64(len(entries))
	start := (page - 1) * size
	if start > len(entries) {
		start = len(entries)
	}
	end := start + size
	if end > len(entries) {
		end = len(entries)
	}
	return models.NewPage(entries[start:end], page, size, total), nil
}

// RankStandings orders standings by points descending (stable, so equal totals
// keep store order) and numbers non-administrative users 1, 2, 3, ... Ties do
// not share a rank. Administrative users keep a nil rank.
func RankStandings(standings []models.Standing) []models.LeaderboardEntry {
	sorted := make([]models.Standing, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points > sorted[j].Points
	})

	entries := make([]models.LeaderboardEntry, len(sorted))
	next := 1
	for i, s := range sorted {
		e := models.LeaderboardEntry{
			UserID:         s.UserID,
			Username:       s.Username,
			County:         s.County,
			City:           s.City,
			RewardPoints:   s.Points,
			Administration: s.Role.IsAdministrative(),
		}
		if !e.Administration {
			rank := next
			e.Rank = &rank
			next++
		}
		entries[i] = e
	}
	return entries
}

type entryLess func(a, b *models.LeaderboardEntry) bool

func leaderboardLess(sortBy string) (entryLess, bool, error) {
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "", "points", "rewardpoints", "reward_points":
		return func(a, b *models.LeaderboardEntry) bool { return a.RewardPoints < b.RewardPoints }, false, nil
	case "rank":
		return func(a, b *models.LeaderboardEntry) bool { return *a.Rank < *b.Rank }, true, nil
	case "username":
		return func(a, b *models.LeaderboardEntry) bool {
			return strings.ToLower(a.Username) < strings.ToLower(b.Username)
		}, false, nil
	case "county":
		return func(a, b *models.LeaderboardEntry) bool {
			return strings.ToLower(a.County) < strings.ToLower(b.County)
		}, false, nil
	case "city":
		return func(a, b *models.LeaderboardEntry) bool {
			return strings.ToLower(a.City) < strings.ToLower(b.City)
		}, false, nil
	}
	return nil, false, invalid("unsupported sort field %q", sortBy)
}

// sortEntries applies the display order. When sorting by rank, unranked
// entries go last in either direction; equal keys keep global standing order.
func sortEntries(entries []models.LeaderboardEntry, less entryLess, byRank, desc bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := &entries[i], &entries[j]
		if byRank && (a.Rank == nil || b.Rank == nil) {
			return a.Rank != nil && b.Rank == nil
		}
		if desc {
			return less(b, a)
		}
		return less(a, b)
	})
}
