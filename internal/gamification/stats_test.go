package gamification

import (
	"math"
	"testing"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

func historyOf(free, discount int) []model.ClaimHistoryItem {
	items := make([]model.ClaimHistoryItem, 0, free+discount)
	for i := 0; i < free; i++ {
		items = append(items, model.ClaimHistoryItem{Type: model.OfferTypeFree})
	}
	for i := 0; i < discount; i++ {
		items = append(items, model.ClaimHistoryItem{Type: model.OfferTypeDiscount})
	}
	return items
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name    string
		history []model.ClaimHistoryItem
		want    model.DerivedStats
	}{
		{
			name:    "empty history",
			history: nil,
			want: model.DerivedStats{
				TotalOrders:     0,
				Points:          0,
				Rank:            0,
				NextLevelPoints: 100,
			},
		},
		{
			name:    "three free and two discount",
			history: historyOf(3, 2),
			want: model.DerivedStats{
				TotalOrders:     5,
				FreeCount:       3,
				DiscountCount:   2,
				Points:          80,
				Rank:            420,
				NextLevelPoints: 100,
			},
		},
		{
			name:    "exact level boundary rolls over",
			history: historyOf(5, 0),
			want: model.DerivedStats{
				TotalOrders:     5,
				FreeCount:       5,
				Points:          100,
				Rank:            400,
				NextLevelPoints: 200,
			},
		},
		{
			name:    "rank floors at one",
			history: historyOf(30, 0),
			want: model.DerivedStats{
				TotalOrders:     30,
				FreeCount:       30,
				Points:          600,
				Rank:            1,
				NextLevelPoints: 700,
			},
		},
		{
			name: "unknown types are ignored",
			history: []model.ClaimHistoryItem{
				{Type: model.OfferTypeFree},
				{Type: "mystery"},
				{Type: ""},
			},
			want: model.DerivedStats{
				TotalOrders:     3,
				FreeCount:       1,
				Points:          20,
				Rank:            480,
				NextLevelPoints: 100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStats(tt.history); got != tt.want {
				t.Errorf("ComputeStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name  string
		stats model.DerivedStats
		want  float64
	}{
		{name: "zero points", stats: model.DerivedStats{Points: 0, NextLevelPoints: 100}, want: 0},
		{name: "partial level", stats: model.DerivedStats{Points: 80, NextLevelPoints: 100}, want: 0.8},
		{name: "just past level", stats: model.DerivedStats{Points: 120, NextLevelPoints: 200}, want: 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.stats); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}
