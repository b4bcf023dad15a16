package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/catalog-admin/internal/models"
)

const headerLine = "ID,Name,Category,Description,Price (BDT),Stock,New Arrival,In Stock,Sizes,Colors,Created At"

func TestEmptyListIsHeaderOnly(t *testing.T) {
	assert.Equal(t, headerLine, Text(nil))
	assert.Equal(t, headerLine, Text([]models.Product{}))
}

func TestRowFormatting(t *testing.T) {
	id := uuid.MustParse("7b0f4c1e-2a8e-4d7c-9d59-5b8f1f0c2a11")
	p := models.Product{
		BaseModel: models.BaseModel{ID: id, CreatedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		Name:      "Silk Saree",
		Category:  "Women",
		Price:     1500.5,
		Stock:     3,
		IsNew:     true,
		Sizes:     pq.StringArray{"S", "M"},
		Colors:    pq.StringArray{"Red"},
	}

	lines := strings.Split(Text([]models.Product{p}), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`"7b0f4c1e-2a8e-4d7c-9d59-5b8f1f0c2a11","Silk Saree","Women","","1500.5","3","true","false","S, M","Red","2024-03-05T10:00:00Z"`,
		lines[1])
}

func TestMissingValuesRenderEmpty(t *testing.T) {
	line := strings.Split(Text([]models.Product{{}}), "\n")[1]
	assert.Equal(t, `"","","","","0","0","false","false","","",""`, line)
	assert.NotContains(t, line, "null")
}

func TestQuotesRoundTrip(t *testing.T) {
	products := []models.Product{
		{Name: `12" "Dhakai" Jamdani`, Description: "line one\nline two, with comma"},
		{Name: "second"},
	}

	records, err := csv.NewReader(strings.NewReader(Text(products))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, `12" "Dhakai" Jamdani`, records[1][1])
	assert.Equal(t, "line one\nline two, with comma", records[1][3])
	assert.Equal(t, "second", records[2][1])
	assert.Contains(t, Text(products), `"12"" ""Dhakai"" Jamdani"`)
}

func TestRowOrderFollowsInput(t *testing.T) {
	products := []models.Product{{Name: "b"}, {Name: "a"}, {Name: "c"}}
	records, err := csv.NewReader(strings.NewReader(Text(products))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "b", records[1][1])
	assert.Equal(t, "a", records[2][1])
	assert.Equal(t, "c", records[3][1])
}

func TestExporterCharset(t *testing.T) {
	exp, err := NewExporter("putimach", "UTF-8", "BDT")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", exp.Charset())
	assert.Equal(t, "text/csv; charset=utf-8", exp.ContentType())

	var buf bytes.Buffer
	require.NoError(t, exp.Write(&buf, []models.Product{{Name: "শাড়ি"}}))
	assert.Equal(t, Text([]models.Product{{Name: "শাড়ি"}}), buf.String())

	latin, err := NewExporter("putimach", "windows-1252", "BDT")
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, latin.Write(&buf, []models.Product{{Name: "Café"}}))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte{'C', 'a', 'f', 0xE9}))

	_, err = NewExporter("putimach", "no-such-charset", "BDT")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	exp, err := NewExporter("putimach", "utf-8", "BDT")
	require.NoError(t, err)

	ts := time.Date(2024, 12, 31, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))
	assert.Equal(t, "putimach_inventory_2025-01-01.csv", exp.Filename(ts))
}

func TestHeaderFollowsCurrency(t *testing.T) {
	exp, err := NewExporter("putimach", "utf-8", "USD")
	require.NoError(t, err)

	text := exp.Text([]models.Product{{Name: "Panjabi", Price: 45}})
	records, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Price (USD)", records[0][4])
	assert.Equal(t, "45", records[1][4])

	var buf bytes.Buffer
	require.NoError(t, exp.Write(&buf, nil))
	assert.Equal(t, strings.Replace(headerLine, "BDT", "USD", 1), buf.String())

	assert.Equal(t, Header, HeaderFor(""))
}
