package domain

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDistributionPickCumulativeBuckets(t *testing.T) {
	d := DefaultQuizConfig().OperatorQuantityChances

	tests := []struct {
		draw   int
		want   int
		wantOK bool
	}{
		{0, 1, true},
		{9, 1, true},
		{10, 2, true},
		{29, 2, true},
		{30, 3, true},
		{35, 3, true},
		{69, 3, true},
		{70, 4, true},
		{84, 4, true},
		{85, 0, false},
		{99, 0, false},
	}
	for _, tt := range tests {
		got, ok := d.Pick(tt.draw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Pick(%d) = (%d, %v), want (%d, %v)", tt.draw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDistributionPickOrFallback(t *testing.T) {
	d := NewDistribution(Weighted[Operator]{Value: OpMul, Weight: 10})
	if got := d.PickOr(50, OpAdd); got != OpAdd {
		t.Fatalf("expected fallback +, got %q", got)
	}
	if got := d.PickOr(5, OpAdd); got != OpMul {
		t.Fatalf("expected *, got %q", got)
	}

	var empty Distribution[int]
	if got := empty.PickOr(0, 1); got != 1 {
		t.Fatalf("expected fallback 1 from empty distribution, got %d", got)
	}
}

func TestDistributionUnmarshalKeepsDocumentOrder(t *testing.T) {
	src := []byte(`
"/": 15
"*": 25
"-": 20
"+": 40
`)
	var d Distribution[Operator]
	if err := yaml.Unmarshal(src, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []Operator{OpDiv, OpMul, OpSub, OpAdd}
	buckets := d.Buckets()
	if len(buckets) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(buckets))
	}
	for i, b := range buckets {
		if b.Value != want[i] {
			t.Fatalf("bucket %d = %q, want %q", i, b.Value, want[i])
		}
	}
	// 0..14 is the first listed bucket.
	if got, _ := d.Pick(0); got != OpDiv {
		t.Fatalf("expected first listed operator, got %q", got)
	}
	if d.Total() != 100 {
		t.Fatalf("expected total 100, got %d", d.Total())
	}
}

func TestDistributionUnmarshalIntKeys(t *testing.T) {
	var d Distribution[int]
	if err := yaml.Unmarshal([]byte("3: 40\n1: 10\n"), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got, _ := d.Pick(39); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got, _ := d.Pick(45); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestDistributionUnmarshalRejectsSequence(t *testing.T) {
	var d Distribution[int]
	err := yaml.Unmarshal([]byte("- 1\n- 2\n"), &d)
	if !errors.Is(err, ErrInvalidDistribution) {
		t.Fatalf("expected ErrInvalidDistribution, got %v", err)
	}
}

func TestDistributionMarshalRoundTripOrder(t *testing.T) {
	d := DefaultQuizConfig().OperatorChances
	out, err := yaml.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Distribution[Operator]
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := back.Buckets()
	for i, b := range d.Buckets() {
		if got[i] != b {
			t.Fatalf("bucket %d = %+v, want %+v", i, got[i], b)
		}
	}
}
