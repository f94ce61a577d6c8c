package ai

import (
	"testing"
	"time"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{APIKey: "test-key"})
	if c.model != "gpt-4o-mini" {
		t.Errorf("expected default model, got %s", c.model)
	}
	if c.timeout != 30*time.Second {
		t.Errorf("expected default timeout, got %s", c.timeout)
	}
	if c.retries != 0 {
		t.Errorf("expected no retries by default, got %d", c.retries)
	}
}

func TestNewClient_Overrides(t *testing.T) {
	c := NewClient(Options{APIKey: "test-key", Model: "gpt-4o", Timeout: 5 * time.Second, Retries: 2})
	if c.model != "gpt-4o" {
		t.Errorf("expected gpt-4o, got %s", c.model)
	}
	if c.timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", c.timeout)
	}
	if c.retries != 2 {
		t.Errorf("expected 2 retries, got %d", c.retries)
	}
}

func TestNewClient_NegativeRetriesClamped(t *testing.T) {
	c := NewClient(Options{APIKey: "test-key", Retries: -1})
	if c.retries != 0 {
		t.Errorf("expected retries clamped to 0, got %d", c.retries)
	}
}
