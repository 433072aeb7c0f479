package printing

import (
	"fmt"
	"slices"
	"time"

	"github.com/foodgram/backend/internal/domain/recipe"
)

// Layout constants, in points on an A4 page with y growing downwards.
const (
	PageWidth  = 595.28
	PageHeight = 841.89

	TitleX        = 130.0
	TitleY        = 60.0
	TitleFontSize = 20.0

	LineX        = 50.0
	LineTop      = 100.0
	LineHeight   = 20.0
	LineMaxY     = 780.0
	LineFontSize = 14.0

	FooterX        = 50.0
	FooterSiteY    = 805.0
	FooterTimeY    = 820.0
	FooterFontSize = 10.0
)

// Title is drawn at the top of the first page.
const Title = "Список ингредиентов для рецептов"

// TimestampLayout formats the download time in the footer.
const TimestampLayout = "2006-01-02 15:04:05"

// Draw is a single positioned text draw.
type Draw struct {
	X        float64
	Y        float64
	FontSize float64
	Text     string
}

// Page holds the draws of one page in paint order.
type Page struct {
	Draws []Draw
}

// Document is a finished layout ready to be painted.
type Document struct {
	Pages []Page
}

// Lines returns the text of every draw on every page, in order.
func (d Document) Lines() []string {
	var out []string
	for _, p := range d.Pages {
		for _, dr := range p.Draws {
			out = append(out, dr.Text)
		}
	}
	return out
}

type cursor struct {
	y        float64
	fontSize float64
}

// layout is the transient state of the line pass. Transitions return a new
// value and never mutate the receiver.
type layout struct {
	cursor cursor
	pages  []Page
}

func newLayout() layout {
	return layout{
		cursor: cursor{y: LineTop, fontSize: LineFontSize},
		pages: []Page{{Draws: []Draw{{
			X: TitleX, Y: TitleY, FontSize: TitleFontSize, Text: Title,
		}}}},
	}
}

// draw appends d to the last page.
func (l layout) draw(d Draw) layout {
	pages := slices.Clone(l.pages)
	last := &pages[len(pages)-1]
	last.Draws = append(slices.Clip(last.Draws), d)
	l.pages = pages
	return l
}

// addLine places text at the cursor, opening a new page first when the
// cursor has moved past LineMaxY.
func (l layout) addLine(text string) layout {
	if l.cursor.y > LineMaxY {
		l.pages = append(slices.Clip(l.pages), Page{})
		l.cursor = cursor{y: LineTop, fontSize: LineFontSize}
	}
	l = l.draw(Draw{X: LineX, Y: l.cursor.y, FontSize: l.cursor.fontSize, Text: text})
	l.cursor.y += LineHeight
	return l
}

// finish draws the footer on the last page.
func (l layout) finish(siteAddress string, generatedAt time.Time) Document {
	l = l.draw(Draw{X: FooterX, Y: FooterSiteY, FontSize: FooterFontSize,
		Text: "Адрес сайта: " + siteAddress})
	l = l.draw(Draw{X: FooterX, Y: FooterTimeY, FontSize: FooterFontSize,
		Text: "Дата и время скачивания: " + generatedAt.Format(TimestampLayout)})
	return Document{Pages: l.pages}
}

// FormatRow renders one shopping list line; index is 1-based.
func FormatRow(index int, row recipe.ShoppingListRow) string {
	return fmt.Sprintf("%d. %s, %d %s.", index, row.IngredientName, row.TotalAmount, row.Unit)
}

// Layout lays the rows out over as many pages as needed. The numbering
// continues across page breaks and the footer lands on the last page only.
func Layout(rows []recipe.ShoppingListRow, generatedAt time.Time, siteAddress string) Document {
	l := newLayout()
	for i, row := range rows {
		l = l.addLine(FormatRow(i+1, row))
	}
	return l.finish(siteAddress, generatedAt)
}
