package printing

// ShoppingListFilename is the attachment name of the downloaded list
const ShoppingListFilename = "shopping-list.pdf"

// ShoppingListFile is a rendered shopping list ready to send
type ShoppingListFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
	Pages       int
}
