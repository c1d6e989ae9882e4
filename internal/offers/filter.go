// Package offers реализует санацию и фильтрацию списков предложений.
package offers

import (
	"strings"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

// Filter описывает выбранный фильтр по типу предложения.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterFree     Filter = "free"
	FilterDiscount Filter = "discount"
)

// ParseFilter приводит строку к известному фильтру.
func ParseFilter(s string) (Filter, bool) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FilterAll, FilterFree, FilterDiscount:
		return f, true
	}
	return FilterAll, false
}

// Sanitize подготавливает полученный от API список к показу: тип приводится
// к нижнему регистру (пустой тип считается free), записи с нечисловыми
// координатами отбрасываются. Исходный срез не изменяется.
func Sanitize(list []model.Offer) []model.Offer {
	out := make([]model.Offer, 0, len(list))
	for _, o := range list {
		if !o.Lat.Valid() || !o.Lng.Valid() {
			continue
		}
		o.Type = strings.ToLower(strings.TrimSpace(o.Type))
		if o.Type == "" {
			o.Type = model.OfferTypeFree
		}
		out = append(out, o)
	}
	return out
}

// FilterOffers возвращает видимое подмножество предложений для фильтра.
// Для FilterAll возвращается исходный срез; иначе — подпоследовательность
// с сохранением порядка. Источник не изменяется.
func FilterOffers(list []model.Offer, f Filter) []model.Offer {
	if f == FilterAll {
		return list
	}

	out := make([]model.Offer, 0, len(list))
	for _, o := range list {
		if o.Type == string(f) {
			out = append(out, o)
		}
	}
	return out
}

// FilterHistory возвращает видимое подмножество истории бронирований.
// Семантика совпадает с FilterOffers.
func FilterHistory(items []model.ClaimHistoryItem, f Filter) []model.ClaimHistoryItem {
	if f == FilterAll {
		return items
	}

	out := make([]model.ClaimHistoryItem, 0, len(items))
	for _, it := range items {
		if it.Type == string(f) {
			out = append(out, it)
		}
	}
	return out
}
