// Package gamification вычисляет производные игровые метрики из истории бронирований.
package gamification

import (
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

// Правила начисления: бесплатное блюдо стоит вдвое больше скидочного.
const (
	pointsFree     = 20
	pointsDiscount = 10
	levelStep      = 100
	rankBase       = 500
)

// ComputeStats пересчитывает игровые метрики по всей истории целиком.
// Инкрементального обновления нет: расчёт дёшев и всегда корректен.
func ComputeStats(history []model.ClaimHistoryItem) model.DerivedStats {
	var free, discount int
	for _, item := range history {
		switch item.Type {
		case model.OfferTypeFree:
			free++
		case model.OfferTypeDiscount:
			discount++
		}
	}

	points := free*pointsFree + discount*pointsDiscount

	// Ближайшая сверху граница уровня, кратная 100; при нуле очков цель — 100.
	nextLevel := ((points + levelStep) / levelStep) * levelStep

	// Синтетический ранг: монотонно убывает с ростом очков, не ниже 1.
	// Настоящей позиции в таблице лидеров он не отражает.
	rank := 0
	if points > 0 {
		rank = rankBase - points
		if rank < 1 {
			rank = 1
		}
	}

	return model.DerivedStats{
		TotalOrders:     len(history),
		FreeCount:       free,
		DiscountCount:   discount,
		Points:          points,
		Rank:            rank,
		NextLevelPoints: nextLevel,
	}
}

// Progress возвращает долю заполнения шкалы уровня в диапазоне [0, 1).
func Progress(s model.DerivedStats) float64 {
	if s.Points <= 0 || s.NextLevelPoints <= 0 {
		return 0
	}
	return float64(s.Points) / float64(s.NextLevelPoints)
}
