package s3

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/file.pdf", want: "user/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/file.pdf", want: "root/user/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user/file.pdf", want: "root/sub/user/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestSignedURLsUsePrefixAndExpiry(t *testing.T) {
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
	}
	store := NewWithConfig(cfg, "bucket", "/cl/", "")

	getURL, err := store.SignedGetURL(context.Background(), "abc/file.pdf", time.Hour)
	if err != nil {
		t.Fatalf("SignedGetURL: %v", err)
	}
	if !strings.Contains(getURL, "cl/abc/file.pdf") {
		t.Fatalf("expected prefixed key in url, got %s", getURL)
	}
	if !strings.Contains(getURL, "X-Amz-Expires=3600") {
		t.Fatalf("expected one hour expiry, got %s", getURL)
	}

	putURL, err := store.SignedPutURL(context.Background(), "abc/file.pdf", 15*time.Minute)
	if err != nil {
		t.Fatalf("SignedPutURL: %v", err)
	}
	if !strings.Contains(putURL, "X-Amz-Expires=900") {
		t.Fatalf("expected 15 minute expiry, got %s", putURL)
	}
}
