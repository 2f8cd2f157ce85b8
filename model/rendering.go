package model

import (
	"bufio"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	ansiClearScreen = "\033[H\033[2J"
)

// TerminalRenderer draws grids as text frames
type TerminalRenderer struct {
	w io.Writer
}

func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	return &TerminalRenderer{w: w}
}

// Display writes the grid, one terminal line per row
func (r *TerminalRenderer) Display(g *Grid) error {
	bw := bufio.NewWriter(r.w)
	for i := range g.rows {
		for k := range g.cols {
			if g.cells[i][k] {
				bw.WriteString(gridPosBlock)
			} else {
				bw.WriteString(gridPosEmpty)
			}
		}
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "[Display] failed to write frame")
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	_, err := io.WriteString(r.w, ansiClearScreen)
	return errors.Wrap(err, "[Clear] failed to clear terminal")
}

// PNGRenderer draws grids as images with CellSize pixels per cell
type PNGRenderer struct {
	CellSize int
	Alive    color.Color
	Dead     color.Color
}

func NewPNGRenderer(cellSize int) *PNGRenderer {
	return &PNGRenderer{
		CellSize: cellSize,
		Alive:    colornames.Lightcoral,
		Dead:     colornames.White,
	}
}

// Image renders g at its final pixel size
func (r *PNGRenderer) Image(g *Grid) image.Image {
	src := image.NewRGBA(image.Rect(0, 0, g.cols, g.rows))
	for i := range g.rows {
		for k := range g.cols {
			if g.cells[i][k] {
				src.Set(k, i, r.Alive)
			} else {
				src.Set(k, i, r.Dead)
			}
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, g.cols*r.CellSize, g.rows*r.CellSize))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Encode writes g to w as a PNG
func (r *PNGRenderer) Encode(w io.Writer, g *Grid) error {
	return errors.Wrap(png.Encode(w, r.Image(g)), "[Encode] failed to encode png")
}
