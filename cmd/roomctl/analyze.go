package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roomcraft/roomcraft/backend-go/internal/engine"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [design.json]",
	Short: "Report closure, area and perimeter of a design",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	e, err := loadDesign(args[0])
	if err != nil {
		return err
	}
	a := e.Analysis()

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	d := e.Design()
	fmt.Printf("Design: %s (%s)\n", d.Name, d.ID)
	fmt.Printf("  Walls: %d\n", a.WallCount)
	fmt.Printf("  Points: %d\n", a.PointCount)
	fmt.Printf("  Components: %d\n", a.Components)
	if !a.Closed {
		fmt.Println("  Room: open")
		for _, p := range a.OpenEndpoints {
			fmt.Printf("    open end at (%.2f, %.2f)\n", p.X, p.Y)
		}
		if a.Error != "" {
			fmt.Printf("  Note: %s\n", a.Error)
		}
		return nil
	}
	fmt.Println("  Room: closed")
	fmt.Printf("  Area: %s\n", engine.AreaLabel(a.Area))
	fmt.Printf("  Perimeter: %s\n", engine.LengthLabel(a.Perimeter))
	fmt.Printf("  Winding: %s\n", a.Winding)
	if a.Centroid != nil {
		fmt.Printf("  Centroid: (%.3f, %.3f)\n", a.Centroid.X, a.Centroid.Y)
	}
	fmt.Printf("  Size: %s × %s\n", engine.LengthLabel(a.Bounds.Width()), engine.LengthLabel(a.Bounds.Length()))
	return nil
}
