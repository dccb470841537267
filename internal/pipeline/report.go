package pipeline

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"co2-emissions/internal/emissions"
	"co2-emissions/internal/features/analysis"
)

const reportTopN = 10

// WriteAnalysis prints the dataset overview, the top countries by mean and
// the describe table of all values.
func WriteAnalysis(w io.Writer, s analysis.Summary) {
	fmt.Fprintln(w, "\n=== CO2 EMISSIONS ANALYSIS ===")
	fmt.Fprintf(w, "Dataset shape: (%d, 3)\n", s.Records)
	fmt.Fprintf(w, "Countries in dataset: %d\n", s.CountryCount)
	if s.Records > 0 {
		fmt.Fprintf(w, "Years covered: %d - %d\n", s.YearMin, s.YearMax)
	} else {
		fmt.Fprintln(w, "Years covered: n/a")
	}

	fmt.Fprintf(w, "\n=== TOP %d COUNTRIES BY AVERAGE CO2 EMISSIONS ===\n", reportTopN)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, m := range s.CountryMeans[:min(reportTopN, len(s.CountryMeans))] {
		fmt.Fprintf(tw, "%s\t%.2f\n", m.Country, m.Mean)
	}
	tw.Flush()

	fmt.Fprintln(w, "\n=== BASIC STATISTICS ===")
	st := s.Overall
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	rows := []struct {
		name  string
		value float64
	}{
		{"count", float64(st.Count)},
		{"mean", st.Mean},
		{"std", st.Std},
		{"min", st.Min},
		{"25%", st.Q1},
		{"50%", st.Median},
		{"75%", st.Q3},
		{"max", st.Max},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", r.name, formatStat(r.value))
	}
	tw.Flush()
}

// WriteFindings prints the closing summary.
func WriteFindings(w io.Writer, s analysis.Summary, chartsDir string) {
	fmt.Fprintf(w, "\nAnalysis complete! Check the '%s' folder for generated charts.\n", chartsDir)
	fmt.Fprint(w, Findings(s))
}

// Findings is the key-findings block, also used as the published report.
func Findings(s analysis.Summary) string {
	var b strings.Builder
	b.WriteString("\nKEY FINDINGS:\n")
	fmt.Fprintf(&b, "   • %d countries analyzed\n", s.CountryCount)
	if s.Records == 0 {
		b.WriteString("   • No data available\n")
		return b.String()
	}
	fmt.Fprintf(&b, "   • Data spans %d years (%d-%d)\n", s.YearMax-s.YearMin+1, s.YearMin, s.YearMax)
	if top, ok := s.Top(); ok {
		fmt.Fprintf(&b, "   • Highest average emissions: %s (%.2f metric tons per capita)\n", top.Country, top.Mean)
	}
	fmt.Fprintf(&b, "   • Global average: %.2f metric tons per capita\n", s.Overall.Mean)
	return b.String()
}

// Report is the text published next to the charts.
func Report(s analysis.Summary, origin emissions.Origin) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CO2 emissions report (%s data)\n", origin)
	b.WriteString(Findings(s))
	return b.String()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}
