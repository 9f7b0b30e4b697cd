package plot

import (
	"fmt"

	"github.com/pivolan/sales_analyzer/apperrors"
	"github.com/pivolan/sales_analyzer/domain/models"
)

// Renderer persists a figure and returns the path it was written to.
type Renderer interface {
	Render(fig models.Figure) (string, error)
}

const (
	FormatPNG  = "png"
	FormatHTML = "html"
)

// NewRenderer returns the renderer for format writing into dir. An empty
// format means png.
func NewRenderer(format, dir string) (Renderer, error) {
	switch format {
	case "", FormatPNG:
		return &PNGRenderer{Dir: dir}, nil
	case FormatHTML:
		return &HTMLRenderer{Dir: dir}, nil
	default:
		return nil, apperrors.New(apperrors.CodePrecondition, fmt.Sprintf("unknown chart format %q", format))
	}
}
