package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductValidate(t *testing.T) {
	tests := map[string]struct {
		product Product
		wantErr bool
	}{
		"valid":          {product: Product{ID: 1, Name: "Plov", Price: 45000, Stock: 3}},
		"zero price ok":  {product: Product{ID: 2, Name: "Water"}},
		"zero id":        {product: Product{Name: "Plov", Price: 1}, wantErr: true},
		"blank name":     {product: Product{ID: 1, Name: "  ", Price: 1}, wantErr: true},
		"negative price": {product: Product{ID: 1, Name: "Plov", Price: -1}, wantErr: true},
		"negative stock": {product: Product{ID: 1, Name: "Plov", Stock: -2}, wantErr: true},
		"price too high": {product: Product{ID: 1, Name: "Plov", Price: MaxPrice + 1}, wantErr: true},
		"add-on count too high": {
			product: Product{ID: 1, Name: "Plov", Additions: []Addition{
				{ID: 9, Name: "Extras", Products: []AdditionProduct{{AdditionProductID: 3, Name: "Bread", Price: 2000, Count: MaxAddOnCount + 1}}},
			}},
			wantErr: true,
		},
		"bad add-on": {
			product: Product{ID: 1, Name: "Plov", Additions: []Addition{
				{ID: 9, Name: "Extras", Products: []AdditionProduct{{AdditionProductID: 3, Name: "Bread", Price: 2000, Count: 0}}},
			}},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrInvalidProduct))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAdditionProductTotal(t *testing.T) {
	a := AdditionProduct{Name: "Bread", Price: 2000, Count: 3}
	require.Equal(t, int64(6000), a.Total())
}

func TestDecodeProducts(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		products, dropped, err := DecodeProducts([]byte(`[{"id":1,"name":"Plov","price":45000,"stock":5}]`))
		require.NoError(t, err)
		require.Zero(t, dropped)
		require.Len(t, products, 1)
		require.Equal(t, int64(45000), products[0].Price)
	})

	t.Run("paged envelope", func(t *testing.T) {
		products, dropped, err := DecodeProducts([]byte(`{"items":[{"id":1,"name":"Plov","price":45000},{"id":2,"name":"Samsa","price":18000}]}`))
		require.NoError(t, err)
		require.Zero(t, dropped)
		require.Len(t, products, 2)
	})

	t.Run("drops malformed records", func(t *testing.T) {
		products, dropped, err := DecodeProducts([]byte(`[{"id":1,"name":"Plov","price":45000},{"id":0,"name":"Ghost"},{"id":3,"name":"Tea","price":-5}]`))
		require.NoError(t, err)
		require.Equal(t, 2, dropped)
		require.Len(t, products, 1)
		require.Equal(t, int64(1), products[0].ID)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, _, err := DecodeProducts([]byte(`{`))
		require.Error(t, err)
	})
}
