package calc

import "math"

// DaysInMonth is the month length used by the countback method.
const DaysInMonth = 30.0

// GeometricGrowth returns the compounded period-over-period growth rate of a series.
// Non-positive observations are dropped first; fewer than two survivors yield 0.
// Unlike the arithmetic mean of period returns it is not inflated by volatility.
func GeometricGrowth(series []float64) float64 {
	sanitized := make([]float64, 0, len(series))
	for _, v := range series {
		if v > 0 {
			sanitized = append(sanitized, v)
		}
	}
	if len(sanitized) < 2 {
		return 0.0
	}

	product := 1.0
	for i := 1; i < len(sanitized); i++ {
		product *= sanitized[i] / sanitized[i-1]
	}
	return math.Pow(product, 1/float64(len(sanitized)-1)) - 1
}

// CountbackDSO computes Days Sales Outstanding by the exhaustion method.
// salesNewestFirst holds monthly revenue starting with the most recent month.
// Each month whose sales are fully consumed by the remaining balance counts
// 30 days; the month that absorbs the remainder counts its fractional share.
func CountbackDSO(arBalance float64, salesNewestFirst []float64) float64 {
	remainder := arBalance
	total := 0.0
	for _, sales := range salesNewestFirst {
		if remainder > sales {
			total += DaysInMonth
			remainder -= sales
			continue
		}
		ratio := 0.0
		if sales > 0 {
			ratio = remainder / sales
		}
		total += ratio * DaysInMonth
		break
	}
	return total
}

// PayableDays approximates DPO as AP / annualized average monthly COGS * 365.
// Returns 0 when there is no COGS history to divide by.
func PayableDays(apBalance float64, cogsHistory []float64) float64 {
	if len(cogsHistory) == 0 {
		return 0
	}
	avg := Sum(cogsHistory) / float64(len(cogsHistory))
	if avg <= 0 {
		return 0
	}
	return apBalance / (avg * 12) * 365
}
