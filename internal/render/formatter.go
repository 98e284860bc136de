package render

import (
	"fmt"
	"math"
	"strings"

	"StockApp/internal/calculator"
	"StockApp/internal/model"

	"github.com/dustin/go-humanize"
)

const (
	navigationTitle = "Share Market"
	chartTitle      = "Stock Price Trend"
	rsiPeriod       = 14
)

func formatPrice(p float64) string {
	return humanize.FormatFloat("#,###.##", p)
}

// FormatLatestPrice renders the summary label. An empty window shows $0.00.
func FormatLatestPrice(s model.Sample, ok bool) string {
	price := 0.0
	if ok {
		price = s.Price
	}
	return "Latest Price: $" + formatPrice(price)
}

// FormatChart draws the window as an ASCII line chart of the given size.
// Only the newest width samples are drawn when the window is wider.
func FormatChart(samples []model.Sample, width, height int) string {
	if len(samples) == 0 || width <= 0 || height <= 0 {
		return "(no data)\n"
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	high, low, _ := calculator.WindowRange(samples)
	rowOf := func(p float64) int {
		if high == low {
			return height / 2
		}
		return int(math.Round((p - low) / (high - low) * float64(height-1)))
	}

	grid := make([][]byte, height)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(" ", len(samples)))
	}
	prev := -1
	for col, s := range samples {
		row := rowOf(s.Price)
		if prev >= 0 {
			lo, hi := min(prev, row), max(prev, row)
			for r := lo + 1; r < hi; r++ {
				grid[r][col] = '|'
			}
		}
		grid[row][col] = '*'
		prev = row
	}

	highLabel, lowLabel := formatPrice(high), formatPrice(low)
	axisWidth := max(len(highLabel), len(lowLabel))

	var b strings.Builder
	for r := height - 1; r >= 0; r-- {
		label := ""
		switch r {
		case height - 1:
			label = highLabel
		case 0:
			label = lowLabel
		}
		b.WriteString(fmt.Sprintf("%*s |%s\n", axisWidth, label, strings.TrimRight(string(grid[r]), " ")))
	}
	b.WriteString(fmt.Sprintf("%*s +%s\n", axisWidth, "", strings.Repeat("-", len(samples))))

	first := samples[0].Timestamp.Format("01-02")
	last := samples[len(samples)-1].Timestamp.Format("01-02 15:04")
	gap := max(1, len(samples)-len(first)-len(last))
	b.WriteString(fmt.Sprintf("%*s  %s%s%s\n", axisWidth, "", first, strings.Repeat(" ", gap), last))
	return b.String()
}

// FormatSummary describes the window: average, range, position of the latest price and RSI.
func FormatSummary(samples []model.Sample) string {
	st, err := calculator.Summarize(samples)
	if err != nil {
		return "Window: 0 samples"
	}
	rsi, _ := calculator.CalculateRSI(samples, rsiPeriod)

	return fmt.Sprintf("Window: %d samples | SMA %s | High %s | Low %s | Position %.0f%% | RSI(%d) %.0f",
		st.Count, formatPrice(st.Average), formatPrice(st.High), formatPrice(st.Low), st.Position*100, rsiPeriod, rsi)
}

// FormatCompanies renders the company list.
func FormatCompanies(companies []model.Company) string {
	var b strings.Builder
	for _, c := range companies {
		b.WriteString(c.Name + "\n")
		b.WriteString(fmt.Sprintf("  Ticker: %s\n", c.Ticker))
		b.WriteString(fmt.Sprintf("  Industry: %s\n", c.Industry))
		b.WriteString(fmt.Sprintf("  Market Cap: %s\n", c.MarketCap))
	}
	return b.String()
}

// FormatFrame renders one full screen.
func FormatFrame(samples []model.Sample, companies []model.Company, width, height int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("== %s ==\n\n", navigationTitle))
	b.WriteString(chartTitle + "\n\n")
	b.WriteString(FormatChart(samples, width, height))
	b.WriteString("\n")

	var latest model.Sample
	if len(samples) > 0 {
		latest = samples[len(samples)-1]
	}
	b.WriteString(FormatLatestPrice(latest, len(samples) > 0) + "\n")
	b.WriteString(FormatSummary(samples) + "\n\n")
	b.WriteString(FormatCompanies(companies))
	return b.String()
}
