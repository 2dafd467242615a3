package raytracer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Capture is the render target: a linear-RGB pixel grid addressed by
// (row, col) with row 0 at the top.
type Capture struct {
	Height, Width int
	Pix           []Color
}

// NewCapture allocates a black capture.
func NewCapture(height, width int) *Capture {
	return &Capture{
		Height: height,
		Width:  width,
		Pix:    make([]Color, height*width),
	}
}

func (c *Capture) At(row, col int) Color {
	return c.Pix[row*c.Width+col]
}

func (c *Capture) Set(row, col int, color Color) {
	c.Pix[row*c.Width+col] = color
}

// ForEach visits every pixel in row-major order.
func (c *Capture) ForEach(fn func(row, col int, pixel Color)) {
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			fn(row, col, c.At(row, col))
		}
	}
}

// gamma8 encodes one linear component as an 8-bit sRGB value.
func gamma8(v float64) uint8 {
	return uint8(math.Round(255 * LinearToGamma(clamp(0, 1, v))))
}

// ToImage converts to a standard gamma-encoded RGBA image.
func (c *Capture) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	c.ForEach(func(row, col int, pixel Color) {
		i := img.PixOffset(col, row)
		img.Pix[i+0] = gamma8(pixel.R)
		img.Pix[i+1] = gamma8(pixel.G)
		img.Pix[i+2] = gamma8(pixel.B)
		img.Pix[i+3] = 255
	})
	return img
}

// WriteFile saves the capture, picking the encoder from the filename
// extension: .tga, .ppm, .pfm, .exr or .png.
func (c *Capture) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tga":
		err = c.EncodeTGA(w)
	case ".ppm":
		err = c.EncodePPM(w)
	case ".pfm":
		err = c.EncodePFM(w)
	case ".exr":
		err = c.EncodeEXR(w)
	case ".png":
		err = png.Encode(w, c.ToImage())
	default:
		err = fmt.Errorf("unsupported image extension %q", filepath.Ext(filename))
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return w.Flush()
}

// EncodeTGA writes an uncompressed type-2 true-color TARGA: bottom-up
// rows, BGR byte order, 18-byte header.
func (c *Capture) EncodeTGA(w io.Writer) error {
	header := make([]byte, 18)
	header[2] = 2 // uncompressed true-color
	binary.LittleEndian.PutUint16(header[12:], uint16(c.Width))
	binary.LittleEndian.PutUint16(header[14:], uint16(c.Height))
	header[16] = 24 // bits per pixel
	if _, err := w.Write(header); err != nil {
		return err
	}
	row := make([]byte, c.Width*3)
	for r := c.Height - 1; r >= 0; r-- {
		for col := 0; col < c.Width; col++ {
			p := c.At(r, col)
			row[col*3+0] = gamma8(p.B)
			row[col*3+1] = gamma8(p.G)
			row[col*3+2] = gamma8(p.R)
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTGA reads back the subset of TARGA that EncodeTGA produces.
func DecodeTGA(r io.Reader) (*Capture, error) {
	header := make([]byte, 18)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if header[0] != 0 || header[1] != 0 || header[2] != 2 {
		return nil, fmt.Errorf("not an uncompressed true-color TGA")
	}
	width := int(binary.LittleEndian.Uint16(header[12:]))
	height := int(binary.LittleEndian.Uint16(header[14:]))
	if header[16] != 24 {
		return nil, fmt.Errorf("unsupported TGA depth %d", header[16])
	}
	c := NewCapture(height, width)
	row := make([]byte, width*3)
	for rr := height - 1; rr >= 0; rr-- {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, err
		}
		for col := 0; col < width; col++ {
			c.Set(rr, col, Color{
				R: GammaToLinear(float64(row[col*3+2]) / 255),
				G: GammaToLinear(float64(row[col*3+1]) / 255),
				B: GammaToLinear(float64(row[col*3+0]) / 255),
			})
		}
	}
	return c, nil
}

// EncodePPM writes binary Netpbm P6.
func (c *Capture) EncodePPM(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", c.Width, c.Height); err != nil {
		return err
	}
	row := make([]byte, c.Width*3)
	for r := 0; r < c.Height; r++ {
		for col := 0; col < c.Width; col++ {
			p := c.At(r, col)
			row[col*3+0] = gamma8(p.R)
			row[col*3+1] = gamma8(p.G)
			row[col*3+2] = gamma8(p.B)
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// DecodePPM reads binary Netpbm P6 with a 255 maxval.
func DecodePPM(r io.Reader) (*Capture, error) {
	br := bufio.NewReader(r)
	var magic string
	var width, height, maxval int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxval); err != nil {
		return nil, err
	}
	if magic != "P6" || maxval != 255 {
		return nil, fmt.Errorf("unsupported PPM header %q maxval %d", magic, maxval)
	}
	// single whitespace byte separates the header from pixel data
	if _, err := br.ReadByte(); err != nil {
		return nil, err
	}
	c := NewCapture(height, width)
	row := make([]byte, width*3)
	for rr := 0; rr < height; rr++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, err
		}
		for col := 0; col < width; col++ {
			c.Set(rr, col, Color{
				R: GammaToLinear(float64(row[col*3+0]) / 255),
				G: GammaToLinear(float64(row[col*3+1]) / 255),
				B: GammaToLinear(float64(row[col*3+2]) / 255),
			})
		}
	}
	return c, nil
}

// EncodePFM writes the Netpbm float format: little-endian RGB float32,
// bottom-up, linear values.
func (c *Capture) EncodePFM(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "PF\n%d %d\n-1.0\n", c.Width, c.Height); err != nil {
		return err
	}
	row := make([]byte, c.Width*12)
	for r := c.Height - 1; r >= 0; r-- {
		for col := 0; col < c.Width; col++ {
			p := c.At(r, col)
			binary.LittleEndian.PutUint32(row[col*12+0:], math.Float32bits(float32(p.R)))
			binary.LittleEndian.PutUint32(row[col*12+4:], math.Float32bits(float32(p.G)))
			binary.LittleEndian.PutUint32(row[col*12+8:], math.Float32bits(float32(p.B)))
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// EncodeEXR writes a single-part uncompressed scanline OpenEXR with
// half-float RGB channels.
func (c *Capture) EncodeEXR(w io.Writer) error {
	var header []byte
	le32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}
	attr := func(name, typ string, data []byte) {
		header = append(header, name...)
		header = append(header, 0)
		header = append(header, typ...)
		header = append(header, 0)
		header = append(header, le32(uint32(len(data)))...)
		header = append(header, data...)
	}

	// channel list: R, G, B as half, pLinear=1, sampling 1x1
	var chlist []byte
	for _, name := range []string{"R", "G", "B"} {
		chlist = append(chlist, name...)
		chlist = append(chlist, 0)
		chlist = append(chlist, le32(1)...) // pixel type half
		chlist = append(chlist, 1, 0, 0, 0) // pLinear + reserved
		chlist = append(chlist, le32(1)...) // xSampling
		chlist = append(chlist, le32(1)...) // ySampling
	}
	chlist = append(chlist, 0)

	box := make([]byte, 16)
	binary.LittleEndian.PutUint32(box[8:], uint32(c.Width-1))
	binary.LittleEndian.PutUint32(box[12:], uint32(c.Height-1))

	attr("channels", "chlist", chlist)
	attr("compression", "compression", []byte{0})
	attr("dataWindow", "box2i", box)
	attr("displayWindow", "box2i", box)
	attr("lineOrder", "lineOrder", []byte{0})
	attr("pixelAspectRatio", "float", le32(math.Float32bits(1.0)))
	center := append(le32(math.Float32bits(0.5)), le32(math.Float32bits(0.5))...)
	attr("screenWindowCenter", "v2f", center)
	attr("screenWindowWidth", "float", le32(math.Float32bits(1.0)))
	header = append(header, 0) // end of header

	// magic + version 2, no flags
	if _, err := w.Write([]byte{0x76, 0x2f, 0x31, 0x01, 0x02, 0x00, 0x00, 0x00}); err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		return err
	}

	// scanline offset table
	lineSize := 8 + c.Width*3*2
	base := uint64(8 + len(header) + c.Height*8)
	offsets := make([]byte, c.Height*8)
	for y := 0; y < c.Height; y++ {
		binary.LittleEndian.PutUint64(offsets[y*8:], base+uint64(y*lineSize))
	}
	if _, err := w.Write(offsets); err != nil {
		return err
	}

	line := make([]byte, lineSize)
	for y := 0; y < c.Height; y++ {
		binary.LittleEndian.PutUint32(line[0:], uint32(y))
		binary.LittleEndian.PutUint32(line[4:], uint32(c.Width*3*2))
		for col := 0; col < c.Width; col++ {
			p := c.At(y, col)
			binary.LittleEndian.PutUint16(line[8+col*2:], halfBits(float32(p.R)))
			binary.LittleEndian.PutUint16(line[8+c.Width*2+col*2:], halfBits(float32(p.G)))
			binary.LittleEndian.PutUint16(line[8+c.Width*4+col*2:], halfBits(float32(p.B)))
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// halfBits converts a float32 to IEEE-754 binary16 with round-to-nearest.
func halfBits(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & 0x8000
	exp := int32(bits>>23&0xff) - 127 + 15
	mant := bits & 0x7fffff
	switch {
	case exp >= 31:
		// overflow or inf/nan
		if int32(bits>>23&0xff) == 255 && mant != 0 {
			return sign | 0x7e00 // nan
		}
		return sign | 0x7c00 // inf
	case exp <= 0:
		if exp < -10 {
			return sign // underflow to zero
		}
		// subnormal
		mant |= 0x800000
		shift := uint32(14 - exp)
		half := uint16(mant >> shift)
		if mant>>(shift-1)&1 != 0 {
			half++
		}
		return sign | half
	default:
		half := sign | uint16(exp)<<10 | uint16(mant>>13)
		if mant&0x1000 != 0 {
			half++
		}
		return half
	}
}
