package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

const iconSize = 32

// Icon is a square bitmap in ARGB32 byte order, one pixel per four bytes.
type Icon struct {
	Width  int
	Height int
	Data   []byte
}

var icon = renderIcon(iconSize)

// renderIcon draws a white ring with a filled centre on transparency.
func renderIcon(size int) Icon {
	data := make([]byte, size*size*4)
	c := float64(size-1) / 2
	outer := float64(size) / 2
	inner := outer - 3
	dot := outer / 3
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			d := dx*dx + dy*dy
			if (d <= outer*outer && d >= inner*inner) || d <= dot*dot {
				i := (y*size + x) * 4
				data[i], data[i+1], data[i+2], data[i+3] = 0xff, 0xff, 0xff, 0xff
			}
		}
	}
	return Icon{Width: size, Height: size, Data: data}
}

// PNG encodes the icon for hosts that take image files.
func (i Icon) PNG() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, i.Width, i.Height))
	for p := 0; p+3 < len(i.Data); p += 4 {
		n := p / 4
		img.SetNRGBA(n%i.Width, n/i.Width, color.NRGBA{
			A: i.Data[p],
			R: i.Data[p+1],
			G: i.Data[p+2],
			B: i.Data[p+3],
		})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
