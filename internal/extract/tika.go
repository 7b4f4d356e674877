package extract

import (
	"bytes"
	"context"
	"net/http"

	"github.com/google/go-tika/tika"
)

// TikaParser extracts text from arbitrary formats through an Apache Tika
// server. It backs the fallback path for content types without a native
// extractor (Office documents, HTML, email, and so on).
type TikaParser struct {
	client *tika.Client
}

// NewTikaParser creates a TikaParser against the given server URL.
func NewTikaParser(httpClient *http.Client, url string) *TikaParser {
	return &TikaParser{client: tika.NewClient(httpClient, url)}
}

// Parse sends the bytes to the Tika server and returns the extracted text.
func (p *TikaParser) Parse(ctx context.Context, data []byte, contentType string) (string, error) {
	header := http.Header{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return p.client.ParseWithHeader(ctx, bytes.NewReader(data), header)
}
