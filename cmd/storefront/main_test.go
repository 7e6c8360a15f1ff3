package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/currency"
)

const sampleCatalog = "../../catalog.yaml"

func memoryConfig() config.Config {
	return config.Config{
		CatalogPath: sampleCatalog,
		CartBackend: config.BackendMemory,
		CartTTL:     time.Hour,
		Currency:    currency.USD,
	}
}

func runCLI(t *testing.T, cfg config.Config, args ...string) output {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, run(t.Context(), cfg, args, &buf, zaptest.NewLogger(t)))

	var out output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	return out
}

func TestRun_AddsResolvedVariant(t *testing.T) {
	out := runCLI(t, memoryConfig(),
		"-product", "jacket", "-select", "Size=S,Color=Olive", "-qty", "2", "-session", "s1")

	assert.Equal(t, "s1", out.SessionID)
	assert.True(t, out.Added)

	assert.Equal(t, "jacket-s-olive", out.Product.VariantID)
	assert.Equal(t, "USD 40.00", out.Product.Price)
	assert.Equal(t, "USD 60.00", out.Product.CompareAtPrice)
	require.NotNil(t, out.Product.DiscountPercent)
	assert.Equal(t, 33, *out.Product.DiscountPercent)
	assert.Equal(t, "/img/jacket-olive.jpg", out.Product.Image)

	require.Len(t, out.Cart.Lines, 1)
	assert.Equal(t, lineView{ProductID: "jacket", VariantID: "jacket-s-olive", UnitPrice: "USD 40.00", Quantity: 2}, out.Cart.Lines[0])
	assert.Equal(t, 2, out.Cart.TotalItems)
	assert.Equal(t, "USD 80.00", out.Cart.TotalAmount)
	assert.Equal(t, "2", out.Cart.Badge)
}

func TestRun_OptionStates(t *testing.T) {
	out := runCLI(t, memoryConfig(), "-product", "jacket", "-select", "Size=L,Color=Olive", "-add=false")

	assert.False(t, out.Added)
	assert.False(t, out.Product.InStock)
	assert.False(t, out.Product.CanAddToCart)

	require.Len(t, out.Product.Options, 2)

	size := out.Product.Options[0]
	assert.Equal(t, "Size", size.Name)
	assert.Equal(t, []valueView{
		{Value: "S", Available: true},
		{Value: "M", Available: true},
		{Value: "L", Selected: true, Available: false},
	}, size.Values)

	color := out.Product.Options[1]
	assert.Equal(t, []valueView{
		{Value: "Olive", Selected: true, Available: false, Swatch: "#708238"},
		{Value: "Navy", Available: false, Swatch: "#1f2a44"},
	}, color.Values)
}

func TestRun_SoldOutIsNotAdded(t *testing.T) {
	out := runCLI(t, memoryConfig(), "-product", "jacket", "-select", "Size=L,Color=Olive")

	assert.False(t, out.Added)
	assert.Empty(t, out.Cart.Lines)
	assert.Equal(t, "USD 0.00", out.Cart.TotalAmount)
	assert.Empty(t, out.Cart.Badge)
}

func TestRun_IncompleteSelectionIsNotAdded(t *testing.T) {
	out := runCLI(t, memoryConfig(), "-product", "jacket", "-select", "Size=M")

	assert.False(t, out.Added)
	assert.Empty(t, out.Product.VariantID)
	assert.False(t, out.Product.CanAddToCart)
}

func TestRun_DefaultSelectionAndSlug(t *testing.T) {
	out := runCLI(t, memoryConfig(), "-product", "field-jacket", "-add=false")

	assert.Equal(t, "jacket", out.Product.ID)
	assert.Equal(t, map[string]string{"Size": "S", "Color": "Olive"}, out.Product.Selection)
	assert.Equal(t, "jacket-s-olive", out.Product.VariantID)
	assert.NotEmpty(t, out.SessionID)
}

func TestRun_ProductWithoutOptions(t *testing.T) {
	out := runCLI(t, memoryConfig(), "-product", "mug", "-qty", "3")

	assert.True(t, out.Added)
	assert.Equal(t, "mug", out.Product.VariantID)
	assert.Empty(t, out.Product.Options)
	assert.Equal(t, "USD 37.50", out.Cart.TotalAmount)
}

func TestRun_RedisBackendKeepsCartAcrossRuns(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := memoryConfig()
	cfg.CartBackend = config.BackendRedis
	cfg.RedisAddr = mr.Addr()

	runCLI(t, cfg, "-product", "jacket", "-select", "Size=M,Color=Navy", "-session", "s2")
	runCLI(t, cfg, "-product", "mug", "-session", "s2")
	out := runCLI(t, cfg, "-product", "jacket", "-select", "Size=M,Color=Navy", "-qty", "2", "-session", "s2")

	require.Len(t, out.Cart.Lines, 2)
	assert.Equal(t, "jacket-m-navy", out.Cart.Lines[0].VariantID)
	assert.Equal(t, 3, out.Cart.Lines[0].Quantity)
	assert.Equal(t, "mug", out.Cart.Lines[1].VariantID)
	assert.Equal(t, 4, out.Cart.TotalItems)
	assert.Equal(t, "USD 147.50", out.Cart.TotalAmount)

	assert.Equal(t, time.Hour, mr.TTL("cart:session:s2"))
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name      string
		cfg       func() config.Config
		args      []string
		wantError string
	}{
		{
			name:      "missing product flag",
			cfg:       memoryConfig,
			wantError: "-product is required",
		},
		{
			name:      "unknown product",
			cfg:       memoryConfig,
			args:      []string{"-product", "hat"},
			wantError: "product[hat] not found",
		},
		{
			name:      "malformed selection",
			cfg:       memoryConfig,
			args:      []string{"-product", "jacket", "-select", "Size"},
			wantError: "parseSelection: pair[Size] is not Name=Value",
		},
		{
			name: "missing catalog",
			cfg: func() config.Config {
				cfg := memoryConfig()
				cfg.CatalogPath = "does-not-exist.yaml"
				return cfg
			},
			args:      []string{"-product", "jacket"},
			wantError: "catalog.LoadFile: os.Open",
		},
		{
			name: "catalog in another currency",
			cfg: func() config.Config {
				cfg := memoryConfig()
				cfg.Currency = currency.EUR
				return cfg
			},
			args:      []string{"-product", "mug"},
			wantError: "product[mug] is priced in USD, store currency is EUR",
		},
		{
			name: "catalog in another currency without adding",
			cfg: func() config.Config {
				cfg := memoryConfig()
				cfg.Currency = currency.EUR
				return cfg
			},
			args:      []string{"-product", "mug", "-add=false"},
			wantError: "product[mug] is priced in USD, store currency is EUR",
		},
		{
			name:      "zero quantity",
			cfg:       memoryConfig,
			args:      []string{"-product", "mug", "-qty", "0"},
			wantError: "-qty[0]: quantity must be positive",
		},
		{
			name:      "negative quantity",
			cfg:       memoryConfig,
			args:      []string{"-product", "mug", "-qty", "-2"},
			wantError: "-qty[-2]: quantity must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := run(t.Context(), tt.cfg(), tt.args, &buf, zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
			assert.Empty(t, buf.String())
		})
	}
}

func TestParseSelection(t *testing.T) {
	sel, err := parseSelection(" Size = M , Color=Navy")
	require.NoError(t, err)
	assert.Equal(t, domain.Selection{"Size": "M", "Color": "Navy"}, sel)

	sel, err = parseSelection("")
	require.NoError(t, err)
	assert.Empty(t, sel)

	_, err = parseSelection("Size=M,Size=L")
	require.EqualError(t, err, "option[Size] selected twice")

	_, err = parseSelection("=M")
	require.Error(t, err)
}
