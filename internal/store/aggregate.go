package store

import (
	"sort"
	"strconv"
	"strings"

	"listingchat/internal/models"
)

const maxStatBuckets = 30

type bucket struct {
	count    int
	priceSum float64
	priced   int
}

// Aggregate computes listing counts and average list price grouped by city
// and by property type. Rows with a blank dimension value are skipped for
// that dimension; non-numeric prices count the listing but not the average.
func (s *Store) Aggregate() *models.StatsData {
	byCity := make(map[string]*bucket)
	byType := make(map[string]*bucket)

	for _, row := range s.rows {
		price, hasPrice := parsePrice(row["ListPrice"])
		accumulate(byCity, row["City"], price, hasPrice)
		accumulate(byType, row["PropertySubType"], price, hasPrice)
	}

	return &models.StatsData{
		TotalListings: len(s.rows),
		ByCity:        rankBuckets(byCity),
		ByType:        rankBuckets(byType),
	}
}

func accumulate(dim map[string]*bucket, key string, price float64, hasPrice bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	b := dim[key]
	if b == nil {
		b = &bucket{}
		dim[key] = b
	}
	b.count++
	if hasPrice {
		b.priceSum += price
		b.priced++
	}
}

func parsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func rankBuckets(dim map[string]*bucket) []models.DimensionStat {
	stats := make([]models.DimensionStat, 0, len(dim))
	for name, b := range dim {
		st := models.DimensionStat{Name: name, Listings: b.count}
		if b.priced > 0 {
			st.AvgListPrice = b.priceSum / float64(b.priced)
		}
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Listings != stats[j].Listings {
			return stats[i].Listings > stats[j].Listings
		}
		return stats[i].Name < stats[j].Name
	})
	if len(stats) > maxStatBuckets {
		stats = stats[:maxStatBuckets]
	}
	return stats
}
