package typedjson

import (
	"math"
	"testing"

	"github.com/francoispqt/gojay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	Active   bool              `json:"active"`
	Stock    uint32            `json:"stock"`
	Delta    int8              `json:"delta"`
	Tags     []string          `json:"tags"`
	Labels   map[string]string `json:"labels"`
	Variants []*product        `json:"variants"`
	Parent   *product          `json:"parent"`
}

func (p *product) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Int64Key("id", p.ID)
	enc.StringKey("name", p.Name)
	enc.Float64Key("price", p.Price)
	enc.BoolKey("active", p.Active)
	enc.Uint64Key("stock", uint64(p.Stock))
	enc.Int64Key("delta", int64(p.Delta))
	if p.Tags != nil {
		enc.ArrayKey("tags", gojay.EncodeArrayFunc(func(enc *gojay.Encoder) {
			for _, tag := range p.Tags {
				enc.String(tag)
			}
		}))
	}
	if p.Labels != nil {
		enc.ObjectKey("labels", gojay.EncodeObjectFunc(func(enc *gojay.Encoder) {
			for k, v := range p.Labels {
				enc.StringKey(k, v)
			}
		}))
	}
	if p.Variants != nil {
		enc.ArrayKey("variants", gojay.EncodeArrayFunc(func(enc *gojay.Encoder) {
			for _, variant := range p.Variants {
				enc.Object(variant)
			}
		}))
	}
	enc.ObjectKeyNullEmpty("parent", p.Parent)
}

func (p *product) IsNil() bool { return p == nil }

func TestRoundTrip(t *testing.T) {
	var testCases = []struct {
		description string
		value       *product
	}{
		{
			description: "scalars",
			value:       &product{ID: math.MaxInt64, Name: "widget", Price: 12.5, Active: true, Stock: math.MaxUint32, Delta: math.MinInt8},
		},
		{
			description: "escaped strings",
			value:       &product{ID: 1, Name: "quote \" back \\ tab \t line \n unicode é ✓", Tags: []string{"", "a/b"}},
		},
		{
			description: "collections",
			value: &product{
				ID:     2,
				Tags:   []string{"x", "y", "z"},
				Labels: map[string]string{"color": "red", "size": "L"},
			},
		},
		{
			description: "recursive and reused",
			value: &product{
				ID:       3,
				Name:     "bundle",
				Price:    -0.125,
				Parent:   &product{ID: 4, Name: "catalog", Parent: &product{ID: 5}},
				Variants: []*product{{ID: 6, Name: "small"}, {ID: 7, Name: "large", Price: 1e-3}},
			},
		},
	}
	routine, err := For[*product]()
	require.NoError(t, err)
	for _, testCase := range testCases {
		data, err := gojay.MarshalJSONObject(testCase.value)
		require.NoError(t, err, testCase.description)
		actual, err := routine.Decode(data)
		if !assert.NoError(t, err, testCase.description+": "+string(data)) {
			continue
		}
		assert.Equal(t, testCase.value, actual, testCase.description)
	}
}
