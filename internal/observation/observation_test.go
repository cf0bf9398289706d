package observation

import (
	"errors"
	"testing"
)

func TestRectUnion(t *testing.T) {
	a := Rect{X: 10, Y: 10, Width: 20, Height: 5}
	b := Rect{X: 5, Y: 12, Width: 10, Height: 10}
	got := a.Union(b)
	want := Rect{X: 5, Y: 10, Width: 25, Height: 12}
	if got != want {
		t.Fatalf("Union = %+v, want %+v", got, want)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Fatalf("zero.Union(a) = %+v, want %+v", got, a)
	}
	if got := a.Union(Rect{}); got != a {
		t.Fatalf("a.Union(zero) = %+v, want %+v", got, a)
	}
}

func TestObservationEndAndClone(t *testing.T) {
	end := 4.5
	o := Observation{Text: "hi", Time: 3, EndTime: &end, Region: &Rect{Width: 1, Height: 1}}
	if o.End() != 4.5 {
		t.Fatalf("End = %v, want 4.5", o.End())
	}
	clone := o.Clone()
	*clone.EndTime = 9
	clone.Region.Width = 7
	if *o.EndTime != 4.5 || o.Region.Width != 1 {
		t.Fatalf("Clone shares pointers with original")
	}
	if (Observation{Time: 2}).End() != 2 {
		t.Fatalf("End without EndTime should equal Time")
	}
}

func TestHasText(t *testing.T) {
	cases := map[string]bool{"": false, "   ": false, "\t\n": false, "a": true, " b ": true}
	for text, want := range cases {
		if got := (Observation{Text: text}).HasText(); got != want {
			t.Errorf("HasText(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestValidateOrder(t *testing.T) {
	ok := []Observation{{Time: 0}, {Time: 1}, {Time: 1}, {Time: 3}}
	if err := ValidateOrder(ok); err != nil {
		t.Fatalf("ValidateOrder(ok) = %v", err)
	}
	bad := []Observation{{Time: 0}, {Time: 2}, {Time: 1}}
	if err := ValidateOrder(bad); !errors.Is(err, ErrMalformedStream) {
		t.Fatalf("ValidateOrder(bad) = %v, want ErrMalformedStream", err)
	}
	if err := ValidateOrder(nil); err != nil {
		t.Fatalf("ValidateOrder(nil) = %v", err)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	obs := []Observation{
		{Text: "Hello World", Time: 0},
		{Text: "goodbye", Time: 1},
		{Text: "STRASSE hello", Time: 2},
	}
	got := Search(obs, "HELLO")
	if len(got) != 2 || got[0].Time != 0 || got[1].Time != 2 {
		t.Fatalf("Search(HELLO) = %+v", got)
	}
	if got := Search(obs, "  "); len(got) != 0 {
		t.Fatalf("blank keyword matched %d observations", len(got))
	}
	if !ContainsFold("Grüße aus Köln", "KÖLN") {
		t.Fatalf("ContainsFold should fold non-ASCII letters")
	}
}
