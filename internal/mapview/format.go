package mapview

import (
	"strconv"
	"strings"
)

// AbbreviatePrice shortens a KRW amount for a marker tag: 15000000 -> "1천만", 3000000 -> "300만".
func AbbreviatePrice(p int64) string {
	switch {
	case p >= 10000000:
		return strconv.FormatInt(p/10000000, 10) + "천만"
	case p >= 10000:
		return strconv.FormatInt(p/10000, 10) + "만"
	default:
		return strconv.FormatInt(p, 10)
	}
}

// ClusterLabel is the member count shown on a cluster icon.
// Above 1000 it is shown in thousands with one truncated decimal, and 10000 or more as "10k+".
func ClusterLabel(count int) string {
	switch {
	case count >= 10000:
		return "10k+"
	case count > 1000:
		tenths := count / 100
		if tenths%10 == 0 {
			return strconv.Itoa(tenths/10) + "k"
		}
		return strconv.Itoa(tenths/10) + "." + strconv.Itoa(tenths%10) + "k"
	default:
		return strconv.Itoa(count)
	}
}

// CategoryIcon maps a category name to the icon key drawn in its price tag.
func CategoryIcon(category string) string {
	name := strings.ToLower(category)
	switch {
	case strings.Contains(name, "led"):
		return "led"
	case strings.Contains(name, "빌보드"), strings.Contains(name, "billboard"):
		return "billboard"
	case strings.Contains(name, "버스"), strings.Contains(name, "bus"):
		return "bus"
	case strings.Contains(name, "지하철"), strings.Contains(name, "subway"), strings.Contains(name, "metro"):
		return "subway"
	default:
		return "default"
	}
}
