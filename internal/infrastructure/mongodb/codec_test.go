package mongodb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

func encode(t *testing.T, v any) []byte {
	t.Helper()
	buf := make(bsonrw.SliceWriter, 0, 256)
	vw, err := bsonrw.NewBSONValueWriter(&buf)
	require.NoError(t, err)
	enc, err := bson.NewEncoder(vw)
	require.NoError(t, err)
	enc.SetRegistry(NewRegistry())
	require.NoError(t, enc.Encode(v))
	return buf
}

func decode(t *testing.T, data []byte, v any) {
	t.Helper()
	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(data))
	require.NoError(t, err)
	dec.SetRegistry(NewRegistry())
	require.NoError(t, dec.Decode(v))
}

func TestDecimalCodec_GuardaDecimal128(t *testing.T) {
	price := decimal.RequireFromString("1.25")
	in := importDoc{ID: "e1", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Quantity: decimal.RequireFromString("1500.5"), UnitPrice: &price}
	data := encode(t, in)

	raw := bson.Raw(data)
	qty := raw.Lookup("quantity")
	_, ok := qty.Decimal128OK()
	assert.True(t, ok, "quantity debe quedar como Decimal128")

	var out importDoc
	decode(t, data, &out)
	assert.True(t, out.Quantity.Equal(in.Quantity))
	require.NotNil(t, out.UnitPrice)
	assert.True(t, out.UnitPrice.Equal(price))
	assert.True(t, out.Date.Equal(in.Date))
}

func TestDecimalCodec_PrecioNulo(t *testing.T) {
	data := encode(t, importDoc{ID: "e1", Quantity: decimal.NewFromInt(3)})
	var out importDoc
	decode(t, data, &out)
	assert.Nil(t, out.UnitPrice)
	assert.True(t, out.Quantity.Equal(decimal.NewFromInt(3)))
}

func TestDecimalCodec_AceptaNumerosLegados(t *testing.T) {
	d128, err := primitive.ParseDecimal128("1E+3")
	require.NoError(t, err)
	data := encode(t, bson.M{"_id": "m1", "stock": 70.5, "daily_consumption": int32(12), "seq": int64(1)})
	var out materialDoc
	decode(t, data, &out)
	assert.True(t, out.Stock.Equal(decimal.RequireFromString("70.5")))
	assert.True(t, out.DailyConsumption.Equal(decimal.NewFromInt(12)))

	data = encode(t, bson.M{"_id": "m1", "stock": d128})
	decode(t, data, &out)
	assert.True(t, out.Stock.Equal(decimal.NewFromInt(1000)))
}

func TestHistoryPipeline(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := historyPipeline("usage_history", "c1", repository.HistoryFilter{From: &from})
	require.Len(t, p, 5)
	assert.Equal(t, "$match", p[2][0].Key)
	assert.Equal(t, bson.M{"usage_history.date": bson.M{"$gte": from}}, p[2][0].Value)

	p = historyPipeline("import_history", "c1", repository.HistoryFilter{})
	assert.Len(t, p, 4, "sin fechas no hay segundo $match")
}
