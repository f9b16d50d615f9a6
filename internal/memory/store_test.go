package memory

import (
	"errors"
	"strings"
	"testing"
)

func TestConversation_AddTurn_Context(t *testing.T) {
	c := NewConversation(0)
	c.AddTurn(RoleUser, "hello")
	c.AddTurn(RoleAgent, "hi")
	c.AddTurn(RoleUser, "what is quantum computing?")

	ctx := c.Context(2)
	if len(ctx) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(ctx))
	}
	if ctx[0].Role != RoleAgent || ctx[1].Text != "what is quantum computing?" {
		t.Errorf("chronological order broken: %+v", ctx)
	}

	if got := c.Context(10); len(got) != 3 {
		t.Errorf("Context beyond history should return all, got %d", len(got))
	}
	if got := c.Context(0); len(got) != 0 {
		t.Errorf("Context(0) should be empty, got %d", len(got))
	}
	if got := c.Context(-1); len(got) != 0 {
		t.Errorf("Context(-1) should be empty, got %d", len(got))
	}
}

func TestConversation_MaxTurnsTrim(t *testing.T) {
	c := NewConversation(3)
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		c.AddTurn(RoleUser, text)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 turns after trim, got %d", c.Len())
	}
	ctx := c.Context(3)
	if ctx[0].Text != "c" || ctx[2].Text != "e" {
		t.Errorf("trim should drop oldest: %+v", ctx)
	}
}

func TestConversation_ContextString(t *testing.T) {
	c := NewConversation(0)
	c.AddTurn(RoleUser, "hello")
	c.AddTurn(RoleAgent, "hi there")
	s := c.ContextString(5)
	if !strings.Contains(s, "[USER]: hello") || !strings.Contains(s, "[AGENT]: hi there") {
		t.Errorf("ContextString: %q", s)
	}
}

func TestConversation_Stats(t *testing.T) {
	c := NewConversation(0)
	c.AddTurn(RoleUser, "q1")
	c.AddTurn(RoleAgent, "a1")
	c.AddTurn(RoleUser, "q2")
	stats := c.Stats()
	if stats.TurnCount != 3 || stats.UserTurns != 2 || stats.AgentTurns != 1 {
		t.Errorf("Stats: %+v", stats)
	}
	if stats.FirstAt.IsZero() || stats.LastAt.Before(stats.FirstAt) {
		t.Errorf("timestamps: %+v", stats)
	}
}

func TestResearch_AddFinding_Validation(t *testing.T) {
	r := NewResearch()
	if err := r.AddFinding("", "src", "topic"); !errors.Is(err, ErrValidation) {
		t.Errorf("empty text should fail: %v", err)
	}
	if err := r.AddFinding("fact", "", "topic"); !errors.Is(err, ErrValidation) {
		t.Errorf("empty source should fail: %v", err)
	}
	if err := r.AddFinding("fact", "src", ""); err != nil {
		t.Errorf("empty topic is allowed: %v", err)
	}
	if r.Count() != 1 {
		t.Errorf("Count: %d", r.Count())
	}
}

func TestResearch_FindingsForTopic(t *testing.T) {
	r := NewResearch()
	_ = r.AddFinding("f1", "s1", "quantum")
	_ = r.AddFinding("f2", "s2", "ml")
	_ = r.AddFinding("f3", "s1", "quantum")

	got := r.FindingsForTopic("quantum")
	if len(got) != 2 || got[0].Text != "f1" || got[1].Text != "f3" {
		t.Errorf("FindingsForTopic: %+v", got)
	}
	if len(r.FindingsForTopic("missing")) != 0 {
		t.Error("missing topic should return empty")
	}
	if len(r.Sources()) != 2 {
		t.Errorf("sources should dedupe: %v", r.Sources())
	}
	if len(r.Topics()) != 2 {
		t.Errorf("topics should dedupe: %v", r.Topics())
	}
}

func TestStore_SerializeRoundTrip(t *testing.T) {
	s := NewStore(0)
	s.Conversation.AddTurn(RoleUser, "what is quantum computing?")
	s.Conversation.AddTurn(RoleAgent, "a superposition-based model of computation")
	_ = s.Research.AddFinding("qubits enable parallelism", "nature.com", "quantum")
	_ = s.Research.AddFinding("error correction improving", "ibm.com", "quantum")

	blob, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	restored := NewStore(0)
	if err := restored.Deserialize(blob); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	orig, got := s.Snapshot(), restored.Snapshot()
	if len(got.Turns) != len(orig.Turns) {
		t.Fatalf("turns: %d != %d", len(got.Turns), len(orig.Turns))
	}
	for i := range orig.Turns {
		if got.Turns[i].Role != orig.Turns[i].Role ||
			got.Turns[i].Text != orig.Turns[i].Text ||
			!got.Turns[i].Timestamp.Equal(orig.Turns[i].Timestamp) {
			t.Errorf("turn %d mismatch: %+v != %+v", i, got.Turns[i], orig.Turns[i])
		}
	}
	if len(got.Findings) != 2 || got.Findings[0].Text != "qubits enable parallelism" {
		t.Errorf("findings mismatch: %+v", got.Findings)
	}
	if len(got.Sources) != 2 || len(got.Topics) != 1 {
		t.Errorf("sources/topics mismatch: %v %v", got.Sources, got.Topics)
	}
}

func TestStore_DeserializeCorrupt(t *testing.T) {
	s := NewStore(0)
	err := s.Deserialize([]byte("{not json"))
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}
