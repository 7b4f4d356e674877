package extract

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

// FitzOpener opens PDFs with MuPDF.
type FitzOpener struct{}

// NewFitzOpener creates a new FitzOpener instance
func NewFitzOpener() *FitzOpener {
	return &FitzOpener{}
}

// Open parses PDF bytes into a PageDocument.
func (o *FitzOpener) Open(data []byte) (PageDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return &fitzDocument{doc: doc}, nil
}

// fitzDocument adapts *fitz.Document to PageDocument. A fitz document is
// not safe for concurrent use; each extraction opens its own.
type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) NumPages() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) Text(page int) (string, error) {
	return d.doc.Text(page)
}

func (d *fitzDocument) Image(page int) (image.Image, error) {
	return d.doc.Image(page)
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
