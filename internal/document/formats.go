package document

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return wordXMLText(doc.Editable().GetContent()), nil
}

var (
	wordBreakRe = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	wordTabRe   = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTagRe    = regexp.MustCompile(`<[^>]*>`)
)

// wordXMLText flattens WordprocessingML into text, one paragraph per line.
func wordXMLText(content string) string {
	content = wordBreakRe.ReplaceAllString(content, "\n")
	content = wordTabRe.ReplaceAllString(content, "\t")
	content = xmlTagRe.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	doc.Find("br, p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}

const minDocRun = 4

// docText recovers text from legacy binary Word files by collecting runs of
// printable characters from both the 8-bit and the UTF-16LE views of the
// stream, keeping the richer one.
func docText(data []byte) string {
	narrow := make([]rune, len(data))
	for i, c := range data {
		narrow[i] = rune(c)
	}
	best := printableRuns(narrow)

	for offset := 0; offset < 2; offset++ {
		units := make([]uint16, 0, len(data)/2)
		for i := offset; i+1 < len(data); i += 2 {
			units = append(units, uint16(data[i])|uint16(data[i+1])<<8)
		}
		if wide := printableRuns(utf16.Decode(units)); len(wide) > len(best) {
			best = wide
		}
	}
	return best
}

func printableRuns(runes []rune) string {
	var out, run strings.Builder
	n := 0
	flush := func() {
		if n >= minDocRun {
			out.WriteString(run.String())
			out.WriteString("\n")
		}
		run.Reset()
		n = 0
	}
	for _, r := range runes {
		if r == '\r' || r == '\n' {
			flush()
			continue
		}
		if isDocPrintable(r) {
			run.WriteRune(r)
			n++
			continue
		}
		flush()
	}
	flush()
	return out.String()
}

func isDocPrintable(r rune) bool {
	switch {
	case r == '\t':
		return true
	case r >= 0x20 && r < 0x7f:
		return true
	case r >= 0xa0 && r < 0x2000:
		return true
	case r >= 0x2010 && r <= 0x2027:
		return true
	default:
		return false
	}
}
