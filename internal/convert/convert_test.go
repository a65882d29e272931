// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/schema-engine/pkg/types"
)

const notificationPage = `<!DOCTYPE html>
<html>
<head>
  <title>IBPS Clerk 2025 - Instructions</title>
  <meta name="description" content="Guidelines for scanning and upload of documents">
  <meta name="keywords" content="ibps, clerk; photo , signature">
  <script>var tracking = "photo 999KB";</script>
  <style>.x { color: red }</style>
</head>
<body>
  <header><h1>Institute of Banking Personnel Selection</h1></header>
  <nav><a href="/">Home</a> <a href="/photo">Photo help</a></nav>
  <div class="ad-banner">Buy coaching now</div>
  <div class="sidebar"><p>Short sidebar</p></div>
  <div class="content">
    <h2>Guidelines for scanning</h2>
    <p>Photograph: JPG/JPEG format,   20 KB to 50 KB</p>
    <ul>
      <li>Signature: 10 KB to 20 KB</li>
      <li>Left thumb impression on white paper</li>
    </ul>
  </div>
  <footer>Copyright</footer>
</body>
</html>`

func TestHTMLConverter(t *testing.T) {
	doc, err := (&HTMLConverter{}).Convert("https://ibps.in/clerk/instructions.html", []byte(notificationPage))
	require.NoError(t, err)

	assert.Equal(t, "IBPS Clerk 2025 - Instructions", doc.Metadata.Title)
	assert.Equal(t, "Guidelines for scanning and upload of documents", doc.Metadata.Description)
	assert.Equal(t, []string{"ibps", "clerk", "photo", "signature"}, doc.Metadata.Keywords)

	assert.Equal(t, strings.Join([]string{
		"Guidelines for scanning",
		"Photograph: JPG/JPEG format, 20 KB to 50 KB",
		"Signature: 10 KB to 20 KB",
		"Left thumb impression on white paper",
	}, "\n"), doc.Text)

	for _, stripped := range []string{"tracking", "coaching", "Copyright", "Home", "Short sidebar"} {
		assert.NotContains(t, doc.Text, stripped)
	}
}

func TestHTMLConverterTitleFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		source string
		page   string
		want   string
	}{
		{"title element", "https://x.in/a", `<title>Notice</title><h1>Heading</h1>`, "Notice"},
		{"first h1", "https://x.in/a", `<header><h1>Heading</h1></header><p>x</p>`, "Heading"},
		{"url path", "https://ssc.gov.in/docs/cgl-exam_notice.html", `<p>text</p>`, "Cgl Exam Notice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := (&HTMLConverter{}).Convert(tt.source, []byte(tt.page))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Metadata.Title)
		})
	}
}

func TestHTMLConverterFallsBackToBody(t *testing.T) {
	doc, err := (&HTMLConverter{}).Convert("https://x.in", []byte(`<body><div>Photo size 50 KB</div><div>Signature in black ink</div></body>`))
	require.NoError(t, err)
	assert.Equal(t, "Photo size 50 KB\nSignature in black ink", doc.Text)
}

func TestHTMLConverterPicksLargestBlock(t *testing.T) {
	page := `<body>
<main>Tiny</main>
<div class="notification">A much longer notification block about the photograph</div>
</body>`
	doc, err := (&HTMLConverter{}).Convert("https://x.in", []byte(page))
	require.NoError(t, err)
	assert.Equal(t, "A much longer notification block about the photograph", doc.Text)
}

func TestCleanText(t *testing.T) {
	in := "  Photo:\tJPEG   format \x00\x07\r\n\n\n   \nSignature​ ok  "
	assert.Equal(t, "Photo: JPEG format\nSignature ok", CleanText(in))
	assert.Equal(t, "", CleanText(" \n\t\n"))
}

func TestTitleFromSource(t *testing.T) {
	assert.Equal(t, "Ibps Clerk Notice", TitleFromSource("https://ibps.in/docs/ibps-clerk_notice.pdf"))
	assert.Equal(t, "Forms", TitleFromSource("https://ibps.in/forms/"))
	assert.Equal(t, "", TitleFromSource("https://ibps.in/"))
	assert.Equal(t, "Local File", TitleFromSource("/tmp/local-file.html"))
}

// buildPDF assembles a single-page PDF with one text line per entry and an
// Info dictionary, computing the xref offsets.
func buildPDF(title string, lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 12 Tf 72 720 Td\n")
	for i, l := range lines {
		if i > 0 {
			content.WriteString("0 -24 Td\n")
		}
		fmt.Fprintf(&content, "(%s) Tj\n", l)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Title (%s) /Author (Board) /Keywords (ibps, clerk) >>", title),
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R /Info 6 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

func TestPDFConverter(t *testing.T) {
	data := buildPDF("IBPS Clerk Notice", "Photo: JPEG format, max 50KB", "Signature in black ink")

	doc, err := (&PDFConverter{}).Convert("https://ibps.in/notice.pdf", data)
	require.NoError(t, err)

	assert.Contains(t, doc.Text, "Photo: JPEG format, max 50KB")
	assert.Contains(t, doc.Text, "Signature in black ink")
	assert.Less(t, strings.Index(doc.Text, "Photo"), strings.Index(doc.Text, "Signature"))

	assert.Equal(t, "IBPS Clerk Notice", doc.Metadata.Title)
	assert.Equal(t, "Board", doc.Metadata.Author)
	assert.Equal(t, []string{"ibps", "clerk"}, doc.Metadata.Keywords)
}

func TestPDFConverterCorruptInput(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not a pdf"), []byte("%PDF-1.4\ngarbage")} {
		_, err := (&PDFConverter{}).Convert("https://ibps.in/broken.pdf", data)
		assert.Error(t, err)
	}
}

func TestForSourceType(t *testing.T) {
	assert.IsType(t, &PDFConverter{}, ForSourceType(types.SourcePDF))
	assert.IsType(t, &HTMLConverter{}, ForSourceType(types.SourceHTML))
	assert.Equal(t, types.SourcePDF, SourceTypeOfPath("a/B.PDF"))
	assert.Equal(t, types.SourceHTML, SourceTypeOfPath("a/b.htm"))
}

func TestConvertBatch(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "text")

	write := func(name, content string) string {
		p := filepath.Join(tmpDir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	a := write("a.html", "<title>A</title><p>Photo 50 KB</p>")
	b := write("b.html", "<p>existing</p>")
	c := write("c.pdf", "not a pdf")

	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "b.txt"), []byte("done"), 0o644))

	var log bytes.Buffer
	result := ConvertBatch([]string{a, b, c}, outDir, &log)

	assert.Equal(t, BatchResult{Converted: 1, Skipped: 1, Failed: 1}, result)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 3, result.Total())
	assert.Contains(t, log.String(), "Batch summary:")

	out, err := os.ReadFile(filepath.Join(outDir, "a.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "---\n"))
	assert.Contains(t, string(out), `title: "A"`)
	assert.Contains(t, string(out), "Photo 50 KB")
}
