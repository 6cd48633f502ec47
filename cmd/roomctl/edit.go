package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roomcraft/roomcraft/backend-go/internal/document"
	"github.com/roomcraft/roomcraft/backend-go/internal/typeid"
)

var (
	rectWidth  float64
	rectLength float64
	rectName   string
	rectPreset string
	editOut    string
)

var rectCmd = &cobra.Command{
	Use:   "rect",
	Short: "Create a design with a rectangular room",
	Args:  cobra.NoArgs,
	RunE:  runRect,
}

var closeCmd = &cobra.Command{
	Use:   "close [design.json]",
	Short: "Join the two open ends of a design with a closing wall",
	Args:  cobra.ExactArgs(1),
	RunE:  runClose,
}

func init() {
	rectCmd.Flags().Float64Var(&rectWidth, "width", 5, "room width in meters")
	rectCmd.Flags().Float64Var(&rectLength, "length", 4, "room length in meters")
	rectCmd.Flags().StringVar(&rectName, "name", "Untitled room", "design name")
	rectCmd.Flags().StringVar(&rectPreset, "preset", "", "room preset to apply")
	rectCmd.Flags().StringVarP(&editOut, "output", "o", "-", "output file, - for stdout")
	closeCmd.Flags().StringVarP(&editOut, "output", "o", "-", "output file, - for stdout")
	rootCmd.AddCommand(rectCmd, closeCmd)
}

func runRect(cmd *cobra.Command, args []string) error {
	e, cfg, err := newEngine()
	if err != nil {
		return err
	}
	d := document.NewEmptyDesign(typeid.NewDesignID(), rectName)
	d.Room.Height = cfg.WallHeight
	d.Room = d.Room.Clamp()
	if err := e.LoadDesign(d); err != nil {
		return err
	}
	if rectPreset != "" {
		if err := e.ApplyPreset(rectPreset); err != nil {
			return err
		}
	}
	if _, err := e.CreateRectangularRoom(rectWidth, rectLength); err != nil {
		return err
	}
	return writeDesign(e.Design())
}

func runClose(cmd *cobra.Command, args []string) error {
	e, err := loadDesign(args[0])
	if err != nil {
		return err
	}
	id, err := e.CloseRoom()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "added closing wall %s\n", id)
	return writeDesign(e.Design())
}

func writeDesign(d *document.Design) error {
	f, closeFn, err := output(editOut)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
