package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/novhub/internal/domain/model"
)

func application(id string) model.Application {
	return model.Application{
		ID:        id,
		Name:      "Applicant " + id,
		Email:     id + "@example.com",
		Program:   "incubation",
		Status:    model.StatusPending,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestCollection_PrependKeepsNewestFirst(t *testing.T) {
	ctx := context.Background()
	apps := NewApplicationRepository(NewMemoryStore())

	for _, id := range []string{"a", "b", "c"} {
		if err := apps.Prepend(ctx, application(id)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := apps.LoadAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []string{all[0].ID, all[1].ID, all[2].ID}
	if fmt.Sprint(got) != "[c b a]" {
		t.Errorf("expected newest first, got %v", got)
	}
	if n, _ := apps.Len(ctx); n != 3 {
		t.Errorf("expected 3 records, got %d", n)
	}
}

func TestCollection_FindByID(t *testing.T) {
	ctx := context.Background()
	apps := NewApplicationRepository(NewMemoryStore())

	if i, _, err := apps.FindByID(ctx, "x"); i != -1 || !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("empty collection should report not found, got %d %v", i, err)
	}

	_ = apps.Prepend(ctx, application("a"))
	_ = apps.Prepend(ctx, application("b"))

	i, rec, err := apps.FindByID(ctx, "a")
	if err != nil || i != 1 || rec.ID != "a" {
		t.Errorf("expected a at index 1, got %d %+v %v", i, rec, err)
	}
	if _, _, err := apps.FindByID(ctx, "zzz"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCollection_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, n := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			apps := NewApplicationRepository(NewMemoryStore())
			in := make([]model.Application, 0, n)
			for i := 0; i < n; i++ {
				a := application(fmt.Sprintf("id-%d", i))
				if i%2 == 0 {
					name := "cv.pdf"
					a.ResumeName = &name
				}
				in = append(in, a)
			}
			if err := apps.SaveAll(ctx, in); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out, err := apps.LoadAll(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out) != n {
				t.Fatalf("expected %d records, got %d", n, len(out))
			}
			for i := range in {
				if out[i].ID != in[i].ID || !out[i].CreatedAt.Equal(in[i].CreatedAt) {
					t.Errorf("record %d changed: %+v != %+v", i, out[i], in[i])
				}
				if (in[i].ResumeName == nil) != (out[i].ResumeName == nil) {
					t.Errorf("record %d resume name presence changed", i)
				}
			}
		})
	}
}

func TestCollection_MalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", "null", "", `{"id":"x"}`} {
		store := NewMemoryStore()
		_ = store.Set(ctx, KeyApplications, raw)
		apps := NewApplicationRepository(store)

		all, err := apps.LoadAll(ctx)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", raw, err)
		}
		if len(all) != 0 || all == nil {
			t.Errorf("%q: expected an empty non-nil list, got %v", raw, all)
		}

		if err := apps.Prepend(ctx, application("fresh")); err != nil {
			t.Fatalf("%q: unexpected error: %v", raw, err)
		}
		if n, _ := apps.Len(ctx); n != 1 {
			t.Errorf("%q: prepend over malformed data should start a new list, got %d", raw, n)
		}
	}
}

func TestCollection_UpdateByID(t *testing.T) {
	ctx := context.Background()
	apps := NewApplicationRepository(NewMemoryStore())
	_ = apps.Prepend(ctx, application("a"))
	_ = apps.Prepend(ctx, application("b"))

	updated, err := apps.UpdateByID(ctx, "a", func(a *model.Application) error {
		a.Status = model.StatusApproved
		return nil
	})
	if err != nil || updated.Status != model.StatusApproved {
		t.Fatalf("expected approved record, got %+v %v", updated, err)
	}
	_, stored, _ := apps.FindByID(ctx, "a")
	if stored.Status != model.StatusApproved {
		t.Errorf("update was not persisted: %+v", stored)
	}
	_, other, _ := apps.FindByID(ctx, "b")
	if other.Status != model.StatusPending {
		t.Errorf("other records must stay untouched: %+v", other)
	}

	veto := errors.New("veto")
	cur, err := apps.UpdateByID(ctx, "b", func(a *model.Application) error {
		a.Status = model.StatusRejected
		return veto
	})
	if !errors.Is(err, veto) || cur.Status != model.StatusPending {
		t.Errorf("vetoed update should return the unmodified record, got %+v %v", cur, err)
	}
	_, other, _ = apps.FindByID(ctx, "b")
	if other.Status != model.StatusPending {
		t.Errorf("vetoed update must not write: %+v", other)
	}

	if _, err := apps.UpdateByID(ctx, "missing", func(*model.Application) error { return nil }); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
