package source

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText returns the visible text of an HTML document. Scripts, styles
// and other non-rendered elements are dropped; element boundaries become spaces
// so adjacent paragraphs do not merge into one word.
func ExtractText(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script,style,noscript,template,svg,head").Remove()

	var buf bytes.Buffer
	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		appendText(&buf, s)
	})
	if buf.Len() == 0 {
		return doc.Text(), nil
	}
	return buf.String(), nil
}

func appendText(buf *bytes.Buffer, s *goquery.Selection) {
	if goquery.NodeName(s) == "#text" {
		buf.WriteString(s.Text())
		return
	}
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		appendText(buf, child)
	})
	buf.WriteByte(' ')
}
