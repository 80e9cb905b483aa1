package object

import (
	"io"
	"strings"
	"testing"
)

func TestNewKeyNamespacesByUser(t *testing.T) {
	key, err := NewKey("user-1", "My Resume.pdf")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	if !strings.HasSuffix(key, "_My Resume.pdf") {
		t.Fatalf("unexpected key %q", key)
	}
	if !OwnedBy(key, "user-1") {
		t.Fatalf("expected key to belong to user-1")
	}
	if OwnedBy(key, "user-2") {
		t.Fatalf("key must not belong to user-2")
	}
	if _, err := NewKey("user-1", "../etc/passwd"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}

func TestSniffKeepsFullStream(t *testing.T) {
	body := "%PDF-1.4 " + strings.Repeat("x", 1000)
	mimeType, r, err := Sniff(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if mimeType != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", mimeType)
	}
	data, _ := io.ReadAll(r)
	if string(data) != body {
		t.Fatalf("expected full body back")
	}
}
