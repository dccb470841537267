package main

import (
	"fmt"
	"os"

	"co2-emissions/internal/features/charts"
	"co2-emissions/internal/features/datasource"
	"co2-emissions/internal/infra/config"
)

// go run etc/tools/test_chart.go
// renders the synthetic dataset in etc/charts/
func main() {
	fmt.Println("Generating test charts...")

	cfg := config.Default()
	records := datasource.NewSourceWithFetcher(cfg, nil).Synthetic()

	renderer, err := charts.NewRenderer(cfg.Charts)
	if err != nil {
		fmt.Printf("Error loading fonts: %v\n", err)
		os.Exit(1)
	}
	paths, err := renderer.Render(records, "etc/charts")
	if err != nil {
		fmt.Printf("Error generating charts: %v\n", err)
		os.Exit(1)
	}

	for _, p := range paths {
		fmt.Printf("Chart generated successfully: %s\n", p)
	}
	fmt.Println("Open the files to see the result!")
}
