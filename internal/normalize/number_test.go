package normalize

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNumber_Sentinels(t *testing.T) {
	inputs := []any{nil, "NA", "na", " Tr ", "TR", "tr", "-", " - ", "*", "", "   ", math.NaN(), math.Inf(1)}
	for _, input := range inputs {
		if got := Number(input); got != 0 {
			t.Errorf("Number(%#v) = %v, want 0", input, got)
		}
	}
}

func TestNumber_WellFormed(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "decimal comma", input: "12,5", want: 12.5},
		{name: "decimal point", input: "12.5", want: 12.5},
		{name: "padded", input: "  12,5 ", want: 12.5},
		{name: "integer string", input: "128", want: 128},
		{name: "native float", input: 12.5, want: 12.5},
		{name: "native int", input: 7, want: 7},
		{name: "json number", input: json.Number("2.5"), want: 2.5},
		{name: "bytes", input: []byte("0,2"), want: 0.2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Number(test.input); got != test.want {
				t.Errorf("Number(%#v) = %v, want %v", test.input, got, test.want)
			}
		})
	}
}

func TestNumber_GarbageIsZero(t *testing.T) {
	inputs := []any{"abc", "12,5g", "1,2,3", "--", "NaN", "Inf", "1e400", struct{ X int }{3}, []int{1}}
	for _, input := range inputs {
		if got := Number(input); got != 0 {
			t.Errorf("Number(%#v) = %v, want 0", input, got)
		}
	}
}

func TestNumber_NilPointers(t *testing.T) {
	var number *float64
	var text *string
	if Number(number) != 0 || Number(text) != 0 {
		t.Error("expected nil pointers to normalize to 0")
	}
}
