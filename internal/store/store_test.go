package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"framescribe/internal/store"
	"framescribe/internal/testsupport"
)

func TestCreateAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec := testsupport.NewDocument(t, st, "Interview", "Hello", "there.", "Bye.")
	if rec.ID == "" || rec.SegmentCount != 2 {
		t.Fatalf("unexpected record: %#v", rec)
	}

	fetched, err := st.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil || fetched.Name != "Interview" || fetched.Language != "en" {
		t.Fatalf("unexpected fetched record: %#v", fetched)
	}
	doc, err := fetched.Document()
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if doc.Len() != 2 || doc.Segments()[0].Text() != "Hello there." {
		t.Fatalf("unexpected document segments: %+v", doc.Segments())
	}

	missing, err := st.Get(ctx, "does-not-exist")
	if err != nil || missing != nil {
		t.Fatalf("Get(missing) = %#v, %v", missing, err)
	}
}

func TestSavePersistsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec := testsupport.NewDocument(t, st, "Lecture", "one", "two", "three")
	doc, err := rec.Document()
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := doc.SplitAt(doc.Segments()[0].ID, 1); err != nil {
		t.Fatalf("SplitAt: %v", err)
	}
	if err := st.Save(ctx, rec, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := st.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.SegmentCount != 2 {
		t.Fatalf("segment_count = %d, want 2", reloaded.SegmentCount)
	}
	restored, err := reloaded.Document()
	if err != nil {
		t.Fatal(err)
	}
	if !restored.Undo() {
		t.Fatalf("history did not survive persistence")
	}
	if restored.Len() != 1 {
		t.Fatalf("Len after undo = %d, want 1", restored.Len())
	}
}

func TestResolve(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a := testsupport.NewDocument(t, st, "alpha", "a.")
	testsupport.NewDocument(t, st, "beta", "b.")

	byName, err := st.Resolve(ctx, "alpha")
	if err != nil || byName == nil || byName.ID != a.ID {
		t.Fatalf("Resolve(name) = %#v, %v", byName, err)
	}
	byPrefix, err := st.Resolve(ctx, a.ShortID())
	if err != nil || byPrefix == nil || byPrefix.ID != a.ID {
		t.Fatalf("Resolve(prefix) = %#v, %v", byPrefix, err)
	}
	none, err := st.Resolve(ctx, "gamma")
	if err != nil || none != nil {
		t.Fatalf("Resolve(missing) = %#v, %v", none, err)
	}
	testsupport.NewDocument(t, st, "alpha", "again.")
	if _, err := st.Resolve(ctx, "alpha"); !errors.Is(err, store.ErrAmbiguous) {
		t.Fatalf("Resolve(duplicate name) = %v, want ErrAmbiguous", err)
	}
}

func TestListAndDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.NewDocument(t, st, "first", "x.")
	testsupport.NewDocument(t, st, "second", "y.")

	records, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 || records[0].Name != "first" {
		t.Fatalf("unexpected list: %#v", records)
	}
	removed, err := st.Delete(ctx, first.ID)
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v", removed, err)
	}
	removed, err = st.Delete(ctx, first.ID)
	if err != nil || removed {
		t.Fatalf("second Delete = %v, %v", removed, err)
	}
}

func TestOpenRejectsSecondWriter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustOpenStore(t, cfg)

	restore := store.SetLockTimeoutForTest(100)
	defer restore()
	if _, err := store.Open(cfg); !errors.Is(err, store.ErrLocked) {
		t.Fatalf("second Open = %v, want ErrLocked", err)
	}
}

func TestOpenChecksSchemaVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	testsupport.NewDocument(t, st, "Kept", "Hello.")
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st, err = store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	docs, err := st.List(context.Background())
	if err != nil || len(docs) != 1 {
		t.Fatalf("List after reopen = %d, %v", len(docs), err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.DatabasePath())
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	_ = db.Close()

	if _, err := store.Open(cfg); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("Open = %v, want ErrSchemaMismatch", err)
	}
}
