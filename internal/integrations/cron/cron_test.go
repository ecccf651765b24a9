package cron

import "testing"

func TestNewRejectsInvalidExpression(t *testing.T) {
	if _, err := New("not a cron expression"); err == nil {
		t.Fatalf("expected an error for an invalid cron expression")
	}
}

func TestNewAcceptsValidExpression(t *testing.T) {
	s, err := New("*/5 * * * *")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.expr != "*/5 * * * *" {
		t.Fatalf("expected expr to be stored verbatim, got %q", s.expr)
	}
}
