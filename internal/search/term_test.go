package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantKind  Kind
		wantCodes []string
		wantRaw   string
	}{
		{
			name:     "empty string",
			raw:      "",
			wantKind: KindEmpty,
		},
		{
			name:     "whitespace only",
			raw:      "   \t ",
			wantKind: KindEmpty,
		},
		{
			name:      "plain single code",
			raw:       "6821801",
			wantKind:  KindSingleCode,
			wantCodes: []string{"6821801"},
		},
		{
			name:      "formatted single code",
			raw:       "6821-8/01",
			wantKind:  KindSingleCode,
			wantCodes: []string{"6821801"},
		},
		{
			name:      "dotted single code",
			raw:       "68.21.8.01",
			wantKind:  KindSingleCode,
			wantCodes: []string{"6821801"},
		},
		{
			name:      "two codes",
			raw:       "6821801,6822600",
			wantKind:  KindMultiCode,
			wantCodes: []string{"6821801", "6822600"},
		},
		{
			name:      "formatted code list with spaces",
			raw:       " 6821-8/01 , 6822-6/00 ",
			wantKind:  KindMultiCode,
			wantCodes: []string{"6821801", "6822600"},
		},
		{
			name:      "list with empty parts",
			raw:       "6821801,,6822600,",
			wantKind:  KindMultiCode,
			wantCodes: []string{"6821801", "6822600"},
		},
		{
			name:     "plain description",
			raw:      "imobiliária",
			wantKind: KindFreeText,
			wantRaw:  "imobiliária",
		},
		{
			name:     "description keeps accents and punctuation",
			raw:      "compra e venda de imóveis",
			wantKind: KindFreeText,
			wantRaw:  "compra e venda de imóveis",
		},
		{
			name:     "mixed list falls through to free text",
			raw:      "6821801,corretagem",
			wantKind: KindFreeText,
			wantRaw:  "6821801,corretagem",
		},
		{
			// One non-empty part, so the multi-code rule does not apply, and
			// the surviving comma keeps the cleaned string from being all
			// digits. The whole original term falls through to free text.
			name:     "trailing comma falls through to free text",
			raw:      "6821801,",
			wantKind: KindFreeText,
			wantRaw:  "6821801,",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Equal(t, tt.wantKind, got.Kind)
			if tt.wantCodes != nil {
				assert.Equal(t, tt.wantCodes, got.Codes)
			}
			if tt.wantRaw != "" {
				assert.Equal(t, tt.wantRaw, got.Raw)
			}
		})
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	for _, raw := range []string{"6821801", "6821-8/01,6822-6/00", "imóveis", "a,1"} {
		first := Normalize(raw)
		second := Normalize(raw)
		assert.Equal(t, first, second, "raw=%q", raw)
	}
}
