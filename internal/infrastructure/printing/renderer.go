package printing

import (
	"bytes"
	"fmt"
	"time"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

const fontFamily = "goregular"

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeResourceMissing = "RENDER_RESOURCE_MISSING"
	ErrCodeRenderFailed    = "RENDER_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Option configures a ShoppingListRenderer
type Option func(*ShoppingListRenderer)

// WithFont replaces the bundled TrueType font. The font must cover Cyrillic.
func WithFont(ttf []byte) Option {
	return func(r *ShoppingListRenderer) {
		r.font = ttf
	}
}

// ShoppingListRenderer paints shopping list layouts with fpdf.
// It keeps no per-call state and is safe for concurrent use.
type ShoppingListRenderer struct {
	font []byte
}

// NewShoppingListRenderer creates a renderer using Go's regular font
func NewShoppingListRenderer(opts ...Option) *ShoppingListRenderer {
	r := &ShoppingListRenderer{font: goregular.TTF}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render lays out rows and serializes the document into one PDF buffer.
// No bytes are returned on error.
func (r *ShoppingListRenderer) Render(rows []recipe.ShoppingListRow, generatedAt time.Time, siteAddress string) ([]byte, error) {
	return r.Paint(Layout(rows, generatedAt, siteAddress), generatedAt)
}

// Paint serializes a finished layout.
func (r *ShoppingListRenderer) Paint(doc Document, createdAt time.Time) (data []byte, err error) {
	if _, err := sfnt.Parse(r.font); err != nil {
		return nil, NewRenderError(ErrCodeResourceMissing, "failed to load font", err)
	}
	defer func() {
		if p := recover(); p != nil {
			data = nil
			err = NewRenderError(ErrCodeRenderFailed, "pdf backend panicked", fmt.Errorf("%v", p))
		}
	}()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("foodgram", true)
	pdf.SetCreationDate(createdAt)
	pdf.SetModificationDate(createdAt)

	pdf.AddUTF8FontFromBytes(fontFamily, "", r.font)
	pdf.SetFont(fontFamily, "", LineFontSize)
	if pdf.Err() {
		return nil, NewRenderError(ErrCodeResourceMissing, "failed to load font", pdf.Error())
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, d := range page.Draws {
			pdf.SetFontSize(d.FontSize)
			pdf.Text(d.X, d.Y, d.Text)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to serialize pdf", err)
	}
	return buf.Bytes(), nil
}
