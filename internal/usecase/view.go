package usecase

import (
	"iter"
	"slices"
	"strconv"

	"CryptoCast/internal/domain/models"
	"CryptoCast/pkg/util"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ChartDateLayout renders chart labels like "Jan 15".
const ChartDateLayout = "Jan 2"

// ChartSeries yields one point per predicted price, day i+1 dated timestamp + i days.
// The sequence is lazy and can be ranged over any number of times.
func ChartSeries(r *models.PredictionFormResult) iter.Seq[models.ChartPoint] {
	return func(yield func(models.ChartPoint) bool) {
		if r == nil {
			return
		}
		for i, price := range r.PredictedPrices {
			date := util.AddDays(r.Timestamp, i)
			pt := models.ChartPoint{
				Day:   i + 1,
				Date:  date,
				Label: date.Format(ChartDateLayout),
				Price: price,
			}
			if !yield(pt) {
				return
			}
		}
	}
}

// ClassifyChange compares a price with the one before it.
func ClassifyChange(prev, cur float64) models.PriceChange {
	switch {
	case cur > prev:
		return models.PriceUp
	case cur < prev:
		return models.PriceDown
	default:
		return models.PriceFlat
	}
}

// TableRows pairs each chart point with its change vs the previous day. The first row is flat.
func TableRows(r *models.PredictionFormResult) []models.TableRow {
	rows := make([]models.TableRow, 0, len(r.PredictedPrices))
	prev := 0.0
	for pt := range ChartSeries(r) {
		change := models.PriceFlat
		if pt.Day > 1 {
			change = ClassifyChange(prev, pt.Price)
		}
		rows = append(rows, models.TableRow{
			ChartPoint:     pt,
			Change:         change,
			FormattedPrice: FormatPrice(pt.Price),
		})
		prev = pt.Price
	}
	return rows
}

// FormatPrice picks precision by magnitude:
// 8 decimals below 0.0001, 6 below 0.01, 4 below 1, 2 below 1000,
// and 2 decimals with thousands separators from 1000 up.
func FormatPrice(p float64) string {
	switch {
	case p < 0.0001:
		return strconv.FormatFloat(p, 'f', 8, 64)
	case p < 0.01:
		return strconv.FormatFloat(p, 'f', 6, 64)
	case p < 1:
		return strconv.FormatFloat(p, 'f', 4, 64)
	case p < 1000:
		return strconv.FormatFloat(p, 'f', 2, 64)
	default:
		return message.NewPrinter(language.English).Sprintf("%.2f", p)
	}
}

// BuildView assembles everything shown next to a fresh prediction.
func BuildView(r *models.PredictionFormResult) models.PredictionView {
	return models.PredictionView{
		Chart:                   slices.Collect(ChartSeries(r)),
		Table:                   TableRows(r),
		FormattedPredictedPrice: FormatPrice(r.PredictedPrice),
	}
}

func historyItems(list []models.PredictionResult) []models.HistoryItem {
	items := make([]models.HistoryItem, len(list))
	for i, r := range list {
		items[i] = models.HistoryItem{PredictionResult: r, FormattedPrice: FormatPrice(r.PredictedPrice)}
	}
	return items
}
