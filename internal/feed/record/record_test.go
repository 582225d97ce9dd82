package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowPreservesInsertionOrder(t *testing.T) {
	row := NewRow()
	row.Set("variant", "Size")
	row.Set("price", "12.50")
	row.Set("variant", "Colour")

	assert.Equal(t, []string{"variant", "price"}, row.Keys)
	assert.Equal(t, "Colour", row.Get("variant"))
}

func TestValueIsEmpty(t *testing.T) {
	assert.True(t, String("").IsEmpty())
	assert.False(t, String("x").IsEmpty())
	assert.True(t, List(nil).IsEmpty())
	assert.False(t, List([]string{""}).IsEmpty())
	assert.True(t, Rows(nil).IsEmpty())
}

func TestRecordGetMissingField(t *testing.T) {
	rec := Record{}
	v := rec.Get("nope")
	assert.Equal(t, KindScalar, v.Kind)
	assert.Equal(t, "", v.Scalar)
	assert.False(t, rec.Has("nope"))
}

func TestRecordCloneIsDeep(t *testing.T) {
	row := NewRow()
	row.Set("price", "10.00")
	rec := Record{
		"title":    String("Shirt"),
		"tags":     List([]string{"summer", "sale"}),
		"shipping": Rows([]Row{row}),
	}

	clone := rec.Clone()
	clone.SetString("title", "Changed")
	clone["tags"].List[0] = "winter"
	clone["shipping"].Rows[0].Set("price", "99.00")

	assert.Equal(t, "Shirt", rec.GetString("title"))
	assert.Equal(t, "summer", rec["tags"].List[0])
	assert.Equal(t, "10.00", rec["shipping"].Rows[0].Get("price"))
}

func TestEncodeRowsRoundTrip(t *testing.T) {
	first := NewRow()
	first.Set("country", "CZ")
	first.Set("price", "89.00")
	second := NewRow()
	second.Set("country", "SK")
	second.Set("price", "120.00")
	second.Set("service", "PPL")

	encoded := EncodeRows([]Row{first, second})
	assert.Equal(t, "country:::CZ##price:::89.00||country:::SK##price:::120.00##service:::PPL", encoded)

	decoded := DecodeRows(encoded)
	require.Len(t, decoded, 2)
	assert.Equal(t, []string{"country", "price"}, decoded[0].Keys)
	assert.Equal(t, "89.00", decoded[0].Get("price"))
	assert.Equal(t, "PPL", decoded[1].Get("service"))
}

func TestDecodeRowsDropsMalformedSegments(t *testing.T) {
	rows := DecodeRows("country:::CZ||||no-marker-here||:::orphan")
	require.Len(t, rows, 1)
	assert.Equal(t, "CZ", rows[0].Get("country"))

	assert.Nil(t, DecodeRows(""))
}

func TestEncodeListRoundTrip(t *testing.T) {
	items := []string{"red", "green", "blue"}
	assert.Equal(t, "red||green||blue", EncodeList(items))
	assert.Equal(t, items, DecodeList("red||green||blue"))
	assert.Equal(t, []string{"a"}, DecodeList("||a||"))
	assert.Nil(t, DecodeList(""))
}

func TestValueStrings(t *testing.T) {
	row := NewRow()
	row.Set("attribute", "Material")
	row.Set("value", "Cotton")

	assert.Equal(t, []string{"solo"}, String("solo").Strings())
	assert.Equal(t, []string{"a", "b"}, List([]string{"a", "b"}).Strings())
	assert.Equal(t, []string{"attribute:::Material##value:::Cotton"}, Rows([]Row{row}).Strings())
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, "plain", Flatten(String("plain")))
	assert.Equal(t, "x||y", Flatten(List([]string{"x", "y"})))

	row := NewRow()
	row.Set("k", "v")
	assert.Equal(t, "k:::v", Flatten(Rows([]Row{row})))
}
