package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roomcraft/roomcraft/backend-go/internal/mesh"
)

var (
	meshOut   string
	meshSolid bool
	meshCells int
)

var meshCmd = &cobra.Command{
	Use:   "mesh [design.json]",
	Short: "Export the room as a binary STL mesh",
	Long: `Convert the plan into 3D and write it as binary STL.

By default the walls are written as separate boxes on top of the floor.
With --solid the room shell is built as one signed distance field and
polygonized, which gives a watertight mesh suitable for printing.`,
	Args: cobra.ExactArgs(1),
	RunE: runMesh,
}

func init() {
	meshCmd.Flags().StringVarP(&meshOut, "output", "o", "room.stl", "output file, - for stdout")
	meshCmd.Flags().BoolVar(&meshSolid, "solid", false, "build a watertight shell")
	meshCmd.Flags().IntVar(&meshCells, "cells", mesh.DefaultSolidCells, "voxels along the longest side with --solid")
	rootCmd.AddCommand(meshCmd)
}

func runMesh(cmd *cobra.Command, args []string) error {
	e, err := loadDesign(args[0])
	if err != nil {
		return err
	}
	room := e.ProceedTo3D()

	m := room.Combined()
	if meshSolid {
		s, err := mesh.Solid(room)
		if err != nil {
			return fmt.Errorf("build solid: %w", err)
		}
		m = mesh.SolidMesh(s, meshCells)
	}

	f, closeFn, err := output(meshOut)
	if err != nil {
		return err
	}
	if err := mesh.WriteSTL(f, m, e.Design().Name); err != nil {
		closeFn()
		return err
	}
	if f != os.Stdout {
		fmt.Fprintf(os.Stderr, "wrote %d triangles to %s\n", m.TriangleCount(), meshOut)
	}
	return closeFn()
}
