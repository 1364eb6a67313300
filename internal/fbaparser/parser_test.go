package fbaparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFeed(t *testing.T) {
	feed := "return-date\torder-id\tsku\tasin\tquantity\treason\tcustomer-comments\n" +
		"2024-01-15\t123-4567890-1234567\tAB123\tB012345678\t1\tDEFECTIVE\tStopped working\n" +
		"2024-01-16\t123-4567890-7654321\tCD456\tB087654321\t2\tUNWANTED_ITEM\t\n"

	records, err := Parse([]byte(feed))
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	assert.Equal(t, "2024-01-15", records[0]["return-date"])
	assert.Equal(t, "123-4567890-1234567", records[0]["order-id"])
	assert.Equal(t, "AB123", records[0]["sku"])
	assert.Equal(t, "DEFECTIVE", records[0]["reason"])
	assert.Equal(t, "Stopped working", records[0]["customer-comments"])

	assert.Equal(t, "2", records[1]["quantity"])
	assert.Equal(t, "", records[1]["customer-comments"])
}

func TestParseSkipsEmptyAndRaggedRows(t *testing.T) {
	feed := "return-date\torder-id\tsku\n" +
		"\t\t\n" +
		"2024-02-01\t123-0000000-0000001\n" +
		"2024-02-02\t123-0000000-0000002\tEF789\textra-cell\n"

	records, err := Parse([]byte(feed))
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	// A short row simply lacks the trailing fields.
	assert.Equal(t, "123-0000000-0000001", records[0]["order-id"])
	_, hasSKU := records[0]["sku"]
	assert.False(t, hasSKU)

	// An overlong row's extra cells are ignored.
	assert.Equal(t, "EF789", records[1]["sku"])
}

func TestParseTrimsWhitespace(t *testing.T) {
	feed := "return-date \torder-id\n2024-03-01 \t 123-1111111-2222222 \n"

	records, err := Parse([]byte(feed))
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "2024-03-01", records[0]["return-date"])
	assert.Equal(t, "123-1111111-2222222", records[0]["order-id"])
}

func TestParseHeaderOnlyIsNotAnError(t *testing.T) {
	records, err := Parse([]byte("return-date\torder-id\tsku\n"))
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseEmptyFeedIsAnError(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)
}
