// Package render draws a parsed receipt back into a simple PNG image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/zombor/receipt-scanner/internal/parsing"
)

const (
	Width     = 400
	MaxHeight = 600

	margin     = 20
	lineHeight = 25
)

// canvas tracks the pen position while lines are drawn top to bottom
type canvas struct {
	img    *image.NRGBA
	drawer *font.Drawer
	y      int
}

func newCanvas() *canvas {
	img := imaging.New(Width, MaxHeight, color.White)
	return &canvas{
		img: img,
		drawer: &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.Black),
			Face: basicfont.Face7x13,
		},
		y: margin,
	}
}

// text draws s with its top edge at the current y, then advances by step
func (c *canvas) text(x int, s string, step int) {
	ascent := c.drawer.Face.Metrics().Ascent.Ceil()
	c.drawer.Dot = fixed.P(x, c.y+ascent)
	c.drawer.DrawString(s)
	c.y += step
}

// Draw lays out a receipt and returns the image cropped to its content
func Draw(rec *parsing.Receipt) *image.NRGBA {
	c := newCanvas()

	c.text(Width/2-50, "RECEIPT", lineHeight+10)

	if rec.ShopName != "" {
		c.text(margin, rec.ShopName, lineHeight)
	}
	for _, line := range rec.ShopAddress {
		c.text(margin, line, lineHeight)
	}
	c.y += 10

	c.text(margin, "Items:", lineHeight)
	for _, item := range rec.Items {
		cost := float64(item.Cost)
		c.text(margin, item.Description, lineHeight)
		c.text(margin, fmt.Sprintf("  Qty: %d x %.2f = %.2f", item.Quantity, cost, cost*float64(item.Quantity)), lineHeight+5)
	}
	c.y += 10

	if rec.Totals.Total != nil {
		c.text(margin, fmt.Sprintf("Total: %.2f", float64(*rec.Totals.Total)), lineHeight+10)
	}
	for _, line := range rec.Footer {
		c.text(margin, line, lineHeight)
	}

	return imaging.Crop(c.img, image.Rect(0, 0, Width, min(c.y+margin, MaxHeight)))
}

// Render draws a receipt and writes it to w as PNG
func Render(w io.Writer, rec *parsing.Receipt) error {
	if err := imaging.Encode(w, Draw(rec), imaging.PNG); err != nil {
		return fmt.Errorf("encoding receipt image: %w", err)
	}
	return nil
}
