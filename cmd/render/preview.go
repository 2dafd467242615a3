package main

import (
	"context"
	"image"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
	xdraw "golang.org/x/image/draw"

	rt "github.com/mwrenna/go-raytracer"
)

// previewScreen mirrors the capture into the terminal while rows render,
// two capture rows per terminal row via upper-half-block cells.
type previewScreen struct {
	mu      sync.Mutex
	term    *uv.Terminal
	capture *rt.Capture
	cols    int
	rows    int
	small   *image.RGBA
	closed  bool
}

func newPreviewScreen(capture *rt.Capture) (*previewScreen, error) {
	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return nil, err
	}
	if err := term.Start(); err != nil {
		return nil, err
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)
	return &previewScreen{
		term:    term,
		capture: capture,
		cols:    cols,
		rows:    rows,
		small:   image.NewRGBA(image.Rect(0, 0, cols, rows*2)),
	}, nil
}

// rowComplete redraws the preview; it runs on whichever render worker
// finished the row, so the redraw is kept cheap and non-blocking.
func (p *previewScreen) rowComplete(int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	// downsample the capture to twice the terminal rows, then pair rows
	// into half-block cells
	src := p.capture.ToImage()
	xdraw.ApproxBiLinear.Scale(p.small, p.small.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	for row := 0; row < p.rows; row++ {
		for col := 0; col < p.cols; col++ {
			top := p.small.RGBAAt(col, row*2)
			bottom := p.small.RGBAAt(col, row*2+1)
			p.term.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: top,
					Bg: bottom,
				},
			})
		}
	}
	p.term.Display()
}

func (p *previewScreen) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.term.ExitAltScreen()
	p.term.ShowCursor()
	p.term.Shutdown(context.Background())
}
