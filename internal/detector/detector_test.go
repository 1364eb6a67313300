package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/returns-analyzer/internal/types"
)

func TestDetectByExtension(t *testing.T) {
	cases := []struct {
		filename string
		content  string
		want     types.FileKind
	}{
		{"report.pdf", "%PDF-1.4", types.KindPDF},
		{"Report.PDF", "%PDF-1.4", types.KindPDF},
		{"returns.csv", "a,b,c", types.KindSpreadsheet},
		{"returns.xlsx", "", types.KindSpreadsheet},
		{"returns.xls", "", types.KindSpreadsheet},
		{"notes.dat", "whatever", types.KindUnknown},
		{"", "whatever", types.KindUnknown},
	}

	for _, tc := range cases {
		got := Detect([]byte(tc.content), tc.filename)
		assert.Equal(t, tc.want, got, "file %q", tc.filename)
	}
}

func TestDetectTxtSniff(t *testing.T) {
	feed := "return-date\torder-id\tsku\n2024-01-15\t123-4567890-1234567\tAB123\n"
	assert.Equal(t, types.KindFBAReturns, Detect([]byte(feed), "returns.txt"))

	// Both markers are required.
	assert.Equal(t, types.KindText, Detect([]byte("return-date only"), "notes.txt"))
	assert.Equal(t, types.KindText, Detect([]byte("order-id only"), "notes.txt"))
	assert.Equal(t, types.KindText, Detect([]byte("plain prose"), "notes.txt"))
}

func TestDetectTxtInvalidEncodingFailsClosed(t *testing.T) {
	// Markers present but the body is not valid UTF-8.
	content := append([]byte("return-date order-id "), 0xff, 0xfe, 0xfd)
	assert.Equal(t, types.KindText, Detect(content, "returns.txt"))
}
