package battle

import (
	"math"
	"strconv"
)

// FormatRate форматирует число с двумя знаками, как это делает клиент (toFixed(2)).
func FormatRate(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
