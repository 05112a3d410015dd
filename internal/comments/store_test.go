package comments

import (
	"fmt"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore()
	s.Add("uri-a", Comment{Username: "alice", Message: "first"})
	s.Add("uri-a", Comment{Username: "bob", Message: "second"})

	got := s.For("uri-a")
	if len(got) != 2 {
		t.Fatalf("got %d comments, want 2", len(got))
	}
	if got[0].Message != "first" || got[1].Message != "second" {
		t.Errorf("order not preserved: %+v", got)
	}
}

func TestStoreKeysAreIndependent(t *testing.T) {
	s := NewStore()
	s.Add("uri-a", Comment{Username: "alice", Message: "hello"})

	if got := s.For("uri-b"); len(got) != 0 {
		t.Errorf("unseen URI returned %d comments", len(got))
	}
	if got := s.For("uri-b"); got == nil {
		t.Error("For must never return nil")
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore()
	s.Add("uri-a", Comment{Username: "alice", Message: "original"})

	snapshot := s.For("uri-a")
	snapshot[0].Message = "mutated"

	if s.For("uri-a")[0].Message != "original" {
		t.Error("mutation of snapshot leaked into store")
	}

	// Comments added after the snapshot must not appear in it.
	s.Add("uri-a", Comment{Username: "bob", Message: "later"})
	if len(snapshot) != 1 {
		t.Error("snapshot grew after store mutation")
	}
}

func TestStoreCapDropsOldest(t *testing.T) {
	s := NewStore()
	for i := 0; i < MaxPerTrack+25; i++ {
		s.Add("uri-a", Comment{Username: "u", Message: fmt.Sprintf("msg %d", i)})
	}

	got := s.For("uri-a")
	if len(got) != MaxPerTrack {
		t.Fatalf("got %d comments, want cap %d", len(got), MaxPerTrack)
	}
	if got[0].Message != "msg 25" {
		t.Errorf("oldest surviving comment = %q, want msg 25", got[0].Message)
	}
	if got[len(got)-1].Message != fmt.Sprintf("msg %d", MaxPerTrack+24) {
		t.Errorf("newest comment = %q", got[len(got)-1].Message)
	}
}
