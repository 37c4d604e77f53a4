package raster

import(
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// A Raster is a grid of samples, with a known number of channels and a
// bit depth that is carried from the input file through to the output.
// Samples are stored interleaved, row-major, in the range [0, MaxSample()].
type Raster struct {
	Width     int
	Height    int
	Channels  int       // 1 (gray), 3 (RGB) or 4 (RGBA)
	BitDepth  int       // bits per sample; 8 or 16
	Pix     []uint16

	Meta                // What we learned about the file this came from, if anything
}

func New(w, h, channels, bitDepth int) *Raster {
	return &Raster{
		Width: w,
		Height: h,
		Channels: channels,
		BitDepth: bitDepth,
		Pix: make([]uint16, w*h*channels),
	}
}

func (r *Raster)String() string {
	return fmt.Sprintf("raster[%dx%d, %dch, %dbit]", r.Width, r.Height, r.Channels, r.BitDepth)
}

func (r *Raster)Bounds() image.Rectangle   { return image.Rect(0, 0, r.Width, r.Height) }
func (r *Raster)HasAlpha() bool            { return r.Channels == 4 }
func (r *Raster)ColorChannels() int {
	if r.HasAlpha() { return 3 }
	return r.Channels
}

// MaxSample is the biggest value a sample can have at this bit depth.
func (r *Raster)MaxSample() uint16 {
	if r.BitDepth == 16 { return 0xFFFF }
	return 0xFF
}

func (r *Raster)offset(x, y int) int         { return (y*r.Width + x) * r.Channels }
func (r *Raster)Sample(x, y, c int) uint16     { return r.Pix[r.offset(x,y)+c] }
func (r *Raster)SetSample(x, y, c int, v uint16) { r.Pix[r.offset(x,y)+c] = v }

// Clone returns a deep copy; pipeline stages hand these on rather than share.
func (r *Raster)Clone() *Raster {
	r2 := *r
	r2.Pix = make([]uint16, len(r.Pix))
	copy(r2.Pix, r.Pix)
	return &r2
}

func checkBitDepth(bits int) error {
	if bits != 8 && bits != 16 {
		return fmt.Errorf("unsupported bit depth %d (want 8 or 16)", bits)
	}
	return nil
}

// FromImage samples an image.Image into a Raster. Gray images give one
// channel, images with a real alpha channel give four, everything else
// three. Samples are reduced to `bitDepth` bits.
func FromImage(img image.Image, bitDepth int) (*Raster, error) {
	return fromImage(img, bitDepth, channelsFor(img))
}

func fromImage(img image.Image, bitDepth, channels int) (*Raster, error) {
	if err := checkBitDepth(bitDepth); err != nil {
		return nil, err
	}

	b := img.Bounds()
	r := New(b.Dx(), b.Dy(), channels, bitDepth)

	shift := uint(16 - bitDepth)
	for y:=0; y<r.Height; y++ {
		for x:=0; x<r.Width; x++ {
			off := r.offset(x, y)
			c := nrgba64At(img, b.Min.X+x, b.Min.Y+y)

			switch r.Channels {
			case 1:
				r.Pix[off] = c.R >> shift // gray models set R=G=B
			case 3:
				r.Pix[off], r.Pix[off+1], r.Pix[off+2] = c.R>>shift, c.G>>shift, c.B>>shift
			case 4:
				r.Pix[off], r.Pix[off+1], r.Pix[off+2], r.Pix[off+3] = c.R>>shift, c.G>>shift, c.B>>shift, c.A>>shift
			}
		}
	}

	return r, nil
}

// nrgba64At avoids the premultiply round trip for images that are already
// non-premultiplied, which would lose precision wherever alpha < max.
func nrgba64At(img image.Image, x, y int) color.NRGBA64 {
	switch m := img.(type) {
	case *image.NRGBA64:
		return m.NRGBA64At(x, y)
	case *image.NRGBA:
		c := m.NRGBAAt(x, y)
		return color.NRGBA64{uint16(c.R)*0x101, uint16(c.G)*0x101, uint16(c.B)*0x101, uint16(c.A)*0x101}
	}
	return color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
}

func channelsFor(img image.Image) int {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.NRGBA, *image.NRGBA64:
		return 4
	case *image.RGBA:
		if m.Opaque() { return 3 }
		return 4
	case *image.RGBA64:
		if m.Opaque() { return 3 }
		return 4
	case *image.Paletted:
		if m.Opaque() { return 3 }
		return 4
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return 4
	}
	return 3
}

// ToImage builds a native golang image that the encoders understand, at
// the raster's own bit depth.
func (r *Raster)ToImage() image.Image {
	bounds := r.Bounds()
	if r.BitDepth == 16 {
		switch r.Channels {
		case 1:
			img := image.NewGray16(bounds)
			for y:=0; y<r.Height; y++ {
				for x:=0; x<r.Width; x++ {
					img.SetGray16(x, y, color.Gray16{r.Sample(x,y,0)})
				}
			}
			return img
		case 4:
			img := image.NewNRGBA64(bounds)
			for y:=0; y<r.Height; y++ {
				for x:=0; x<r.Width; x++ {
					o := r.offset(x,y)
					img.SetNRGBA64(x, y, color.NRGBA64{r.Pix[o], r.Pix[o+1], r.Pix[o+2], r.Pix[o+3]})
				}
			}
			return img
		default:
			img := image.NewRGBA64(bounds)
			for y:=0; y<r.Height; y++ {
				for x:=0; x<r.Width; x++ {
					o := r.offset(x,y)
					img.SetRGBA64(x, y, color.RGBA64{r.Pix[o], r.Pix[o+1], r.Pix[o+2], 0xFFFF})
				}
			}
			return img
		}
	}

	switch r.Channels {
	case 1:
		img := image.NewGray(bounds)
		for y:=0; y<r.Height; y++ {
			for x:=0; x<r.Width; x++ {
				img.SetGray(x, y, color.Gray{uint8(r.Sample(x,y,0))})
			}
		}
		return img
	case 4:
		img := image.NewNRGBA(bounds)
		for y:=0; y<r.Height; y++ {
			for x:=0; x<r.Width; x++ {
				o := r.offset(x,y)
				img.SetNRGBA(x, y, color.NRGBA{uint8(r.Pix[o]), uint8(r.Pix[o+1]), uint8(r.Pix[o+2]), uint8(r.Pix[o+3])})
			}
		}
		return img
	default:
		img := image.NewRGBA(bounds)
		for y:=0; y<r.Height; y++ {
			for x:=0; x<r.Width; x++ {
				o := r.offset(x,y)
				img.SetRGBA(x, y, color.RGBA{uint8(r.Pix[o]), uint8(r.Pix[o+1]), uint8(r.Pix[o+2]), 0xFF})
			}
		}
		return img
	}
}

// ToRGBA is an 8bit RGBA copy, for overlays and previews.
func (r *Raster)ToRGBA() *image.RGBA {
	img := image.NewRGBA(r.Bounds())
	draw.Draw(img, img.Bounds(), r.ToImage(), image.Point{}, draw.Src)
	return img
}
