package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProductsCoercesStrings(t *testing.T) {
	payload := []byte(`[
		{"id": "7", "precio": "1250.50", "stock": "4", "descripcion": "Alimento premium",
		 "kg": "7.5", "marca": "Royal Canin", "imagen": "rc.jpg",
		 "categoria": "perro", "subcategoria": "alimento", "cuotas": "3", "precioCuotas": "450"},
		{"id": 8, "precio": 300, "stock": 12, "descripcion": "Pelota",
		 "kg": null, "marca": "Kong", "imagen": "kong.jpg",
		 "categoria": "perro", "subcategoria": "juguete"}
	]`)

	got, err := DecodeProducts(payload)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, 1250.50, got[0].Price)
	assert.Equal(t, 4, got[0].Stock)
	require.NotNil(t, got[0].Weight)
	assert.Equal(t, 7.5, *got[0].Weight)
	assert.Equal(t, 3, got[0].Installments)
	assert.Equal(t, 450.0, got[0].InstallmentPrice)

	assert.Equal(t, int64(8), got[1].ID)
	assert.Nil(t, got[1].Weight)
}

func TestDecodeProductsBadNumber(t *testing.T) {
	payload := []byte(`[{"id": 1, "precio": "not-a-number", "stock": 1}]`)
	_, err := DecodeProducts(payload)
	assert.Error(t, err)
}

func TestDecodeProductsBadJSON(t *testing.T) {
	_, err := DecodeProducts([]byte(`{"not": "a list"}`))
	assert.Error(t, err)
}
