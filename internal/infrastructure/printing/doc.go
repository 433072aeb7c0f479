// Package printing renders the shopping list as a paginated A4 PDF.
//
// Rendering happens in two steps. A pure layout pass turns the aggregated
// rows into pages of positioned text draws, then the fpdf backend paints the
// finished layout into a single buffer:
//
//	renderer := NewShoppingListRenderer()
//	data, err := renderer.Render(rows, time.Now(), "https://foodgram.example")
//	if err != nil {
//	    var renderErr *RenderError
//	    if errors.As(err, &renderErr) && renderErr.Code == ErrCodeResourceMissing {
//	        // the bundled font could not be loaded
//	    }
//	}
//
// The layout uses points with the y axis growing down the page.
package printing
