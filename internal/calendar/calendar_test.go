package calendar

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
}

func staticID() (string, error) {
	return "cal-1", nil
}

func TestValidateInput(t *testing.T) {
	cases := []struct {
		name  string
		input Input
		want  error
	}{
		{"valid", Input{Name: "Work"}, nil},
		{"valid with description", Input{Name: "Work", Description: "day job"}, nil},
		{"name at bound", Input{Name: strings.Repeat("a", MaxNameLength)}, nil},
		{"empty name", Input{}, ErrNameEmpty},
		{"name over bound", Input{Name: strings.Repeat("a", MaxNameLength+1)}, ErrNameTooLong},
		{"description at bound", Input{Name: "x", Description: strings.Repeat("d", MaxDescriptionLength)}, nil},
		{"description over bound", Input{Name: "x", Description: strings.Repeat("d", MaxDescriptionLength+1)}, ErrDescriptionTooLong},
	}
	for _, tc := range cases {
		err := ValidateInput(tc.input)
		if tc.want == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCreateSetsOwnerAndTimestamps(t *testing.T) {
	created, err := Create(Input{Name: "Work"}, "alice", fixedNow, staticID)
	if err != nil {
		t.Fatalf("create calendar: %v", err)
	}
	if created.ID != "cal-1" || created.OwnerID != "alice" {
		t.Fatalf("unexpected calendar: %+v", created)
	}
	if len(created.SharedWith) != 0 {
		t.Fatalf("expected empty shared-with set, got %v", created.SharedWith)
	}
	if !created.CreatedAt.Equal(fixedNow()) || !created.UpdatedAt.Equal(fixedNow()) {
		t.Fatalf("unexpected timestamps: %+v", created)
	}
}

func TestShareIsIdempotent(t *testing.T) {
	c := Calendar{ID: "cal-1", OwnerID: "alice"}

	c = Share(c, "bob")
	c = Share(c, "bob")
	if len(c.SharedWith) != 1 || c.SharedWith[0] != "bob" {
		t.Fatalf("expected single bob entry, got %v", c.SharedWith)
	}

	c = Share(c, "alice")
	if len(c.SharedWith) != 1 {
		t.Fatalf("expected owner share to be a no-op, got %v", c.SharedWith)
	}

	c = Share(c, "")
	if len(c.SharedWith) != 1 {
		t.Fatalf("expected empty user share to be a no-op, got %v", c.SharedWith)
	}
}

func TestUnshareIsIdempotent(t *testing.T) {
	c := Calendar{ID: "cal-1", OwnerID: "alice", SharedWith: []string{"bob", "carol"}}

	c = Unshare(c, "bob")
	if len(c.SharedWith) != 1 || c.SharedWith[0] != "carol" {
		t.Fatalf("expected carol only, got %v", c.SharedWith)
	}

	c = Unshare(c, "bob")
	if len(c.SharedWith) != 1 {
		t.Fatalf("expected absent removal to be a no-op, got %v", c.SharedWith)
	}
}

func TestCanRead(t *testing.T) {
	c := Calendar{OwnerID: "alice", SharedWith: []string{"bob"}}

	if !CanRead(c, "alice") {
		t.Fatal("owner should read")
	}
	if !CanRead(c, "bob") {
		t.Fatal("shared user should read")
	}
	if CanRead(c, "mallory") {
		t.Fatal("stranger should not read")
	}
}

func TestIsOwner(t *testing.T) {
	c := Calendar{OwnerID: "alice", SharedWith: []string{"bob"}}
	if !IsOwner(c, "alice") {
		t.Fatal("expected alice to own")
	}
	if IsOwner(c, "bob") {
		t.Fatal("shared user must not own")
	}
}
