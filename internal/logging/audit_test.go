package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestAuditLoggerEmitsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewAuditLogger("scanner", WithoutStderr(), WithWriter(&buf))
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer logger.Close()

	if err := logger.Emit(AuditEvent{
		EventType: EventCandidateSkipped,
		Path:      "/root/.vault",
		Decision:  DecisionDeny,
		Reason:    "permission denied",
	}); err != nil {
		t.Fatalf("emit: %v", err)
	}

	var event AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if event.Component != "scanner" {
		t.Errorf("component = %q", event.Component)
	}
	if event.EventType != EventCandidateSkipped {
		t.Errorf("event type = %q", event.EventType)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp was not stamped")
	}
	if event.Timestamp.After(time.Now().UTC().Add(time.Minute)) {
		t.Error("timestamp is in the future")
	}
}

func TestAuditLoggerRequiresWriter(t *testing.T) {
	if _, err := NewAuditLogger("scanner", WithoutStderr()); err == nil {
		t.Fatal("expected an error with no writers configured")
	}
}

func TestWithComponentSharesDestination(t *testing.T) {
	var buf bytes.Buffer
	logger := MustNewAuditLogger("scanner", WithoutStderr(), WithWriter(&buf))
	defer logger.Close()

	derived := logger.WithComponent("reporter")
	if err := derived.Emit(AuditEvent{EventType: EventFindingEmitted}); err != nil {
		t.Fatalf("emit: %v", err)
	}

	var event AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if event.Component != "reporter" {
		t.Errorf("component = %q", event.Component)
	}
}
