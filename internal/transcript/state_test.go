package transcript

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestStateRoundTripKeepsHistory(t *testing.T) {
	doc := loadedDoc(t, []string{"a", "b"}, []string{"c"})
	doc.SetLanguage("en")
	first := doc.Segments()[0].ID
	if _, _, err := doc.SplitAt(first, 1); err != nil {
		t.Fatal(err)
	}
	doc.ApplyTranslation(doc.Segments()[2].ID, "ce")
	if _, err := doc.Merge(1); err != nil {
		t.Fatal(err)
	}
	doc.Undo()

	data, err := MarshalState(doc)
	if err != nil {
		t.Fatalf("MarshalState: %v", err)
	}
	restored, err := UnmarshalState(data)
	if err != nil {
		t.Fatalf("UnmarshalState: %v", err)
	}
	if !reflect.DeepEqual(doc.State(), restored.State()) {
		t.Fatalf("restored state differs:\n%+v\n%+v", doc.State(), restored.State())
	}
	if restored.Language() != "en" {
		t.Fatalf("language = %q", restored.Language())
	}
	if !restored.Undo() || !restored.Redo() || !restored.Redo() {
		t.Fatalf("restored history not usable")
	}
}

func TestRestoreRejectsInvalidState(t *testing.T) {
	id := uuid.New()
	seg := Segment{ID: id, Words: words("x")}
	cases := map[string]State{
		"empty words":  {Segments: []Segment{{ID: uuid.New()}}},
		"missing id":   {Segments: []Segment{{Words: words("x")}}},
		"duplicate id": {Segments: []Segment{seg, seg}},
		"bad selected": {Segments: []Segment{seg}, Selected: uuid.NullUUID{UUID: uuid.New(), Valid: true}},
		"bad history":  {Segments: []Segment{seg}, Undo: []Snapshot{{Segments: []Segment{{ID: id}}}}},
	}
	for name, state := range cases {
		if _, err := Restore(state); err == nil {
			t.Errorf("%s: Restore succeeded", name)
		}
	}
}

func TestEmptyDocumentState(t *testing.T) {
	data, err := MarshalState(NewDocument())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"selected":null`) {
		t.Fatalf("empty selection should encode as null: %s", data)
	}
	doc, err := UnmarshalState(data)
	if err != nil {
		t.Fatalf("UnmarshalState: %v", err)
	}
	if doc.Len() != 0 {
		t.Fatalf("Len = %d", doc.Len())
	}
}
