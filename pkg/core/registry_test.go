package core

import (
	stderrors "errors"
	"slices"
	"testing"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	factory := func() Component { return &probe{} }

	if err := r.Register(Registration{Tag: "click-counter", Factory: factory}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(Registration{Tag: "click-counter", Factory: factory}); !stderrors.Is(err, ErrTagExists) {
		t.Errorf("expected ErrTagExists, got %v", err)
	}
	if err := r.Register(Registration{Tag: "x-nil"}); !stderrors.Is(err, ErrNilFactory) {
		t.Errorf("expected ErrNilFactory, got %v", err)
	}

	tests := []struct {
		tag   string
		valid bool
	}{
		{"star-rating", true},
		{"story-viewer2", true},
		{"a-b-c", true},
		{"counter", false},
		{"Star-rating", false},
		{"-rating", false},
		{"rating-", false},
		{"star--rating", false},
		{"2-rating", false},
		{"star_rating", false},
		{"", false},
	}
	for _, tt := range tests {
		err := r.Register(Registration{Tag: tt.tag, Factory: factory})
		if tt.valid && err != nil {
			t.Errorf("Register(%q): unexpected error %v", tt.tag, err)
		}
		if !tt.valid && !stderrors.Is(err, ErrInvalidTag) {
			t.Errorf("Register(%q): expected ErrInvalidTag, got %v", tt.tag, err)
		}
	}

	want := []string{"a-b-c", "click-counter", "star-rating", "story-viewer2"}
	if got := r.Tags(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRegistry_Create(t *testing.T) {
	r := NewRegistry()
	created := 0
	if err := r.Register(Registration{
		Tag:         "click-counter",
		Description: "counts clicks",
		Factory: func() Component {
			created++
			return &probe{}
		},
	}); err != nil {
		t.Fatal(err)
	}

	owner, loop := newTestOwner(t)
	h1, err := r.Create(owner, "click-counter", WithID("first"))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := r.Create(owner, "click-counter")
	if err != nil {
		t.Fatal(err)
	}
	if created != 2 || h1.Component() == h2.Component() {
		t.Error("each host should get its own component")
	}
	if h1.ID() != "first" || h2.ID() == "" || h2.ID() == h1.ID() {
		t.Errorf("unexpected ids %q, %q", h1.ID(), h2.ID())
	}
	settle(t, loop)
	if h1.Passes() != 1 || h2.Passes() != 1 {
		t.Error("created hosts should run their initial pass")
	}

	if _, err := r.Create(owner, "missing-tag"); !stderrors.Is(err, ErrUnknownTag) {
		t.Errorf("expected ErrUnknownTag, got %v", err)
	}
	if reg, ok := r.Lookup("click-counter"); !ok || reg.Description != "counts clicks" {
		t.Errorf("unexpected lookup result %+v", reg)
	}
}
