package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	s, err := NewLocal(t.TempDir(), "http://localhost:8080/files")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return s
}

func TestLocalPutGet(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()
	content := []byte("image bytes")

	if err := s.Put(ctx, "abc1234.jpg", bytes.NewReader(content), "image/jpeg"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rc, err := s.Get(ctx, "abc1234.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()

	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, content) {
		t.Errorf("content mismatch: %q", got)
	}
}

func TestLocalPutRefusesOverwrite(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	if err := s.Put(ctx, "taken.jpg", strings.NewReader("original"), "image/jpeg"); err != nil {
		t.Fatalf("first Put: %v", err)
	}

	err := s.Put(ctx, "taken.jpg", strings.NewReader("intruder"), "image/jpeg")
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	rc, err := s.Get(ctx, "taken.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	if got, _ := io.ReadAll(rc); string(got) != "original" {
		t.Errorf("existing object was replaced: %q", got)
	}
}

func TestLocalGetMissing(t *testing.T) {
	s := newTestLocal(t)

	_, err := s.Get(context.Background(), "nope.png")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalDelete(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	if err := s.Put(ctx, "gone.png", strings.NewReader("x"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, "gone.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "gone.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := s.Delete(ctx, "gone.png"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestLocalRejectsUnsafeKeys(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	for _, key := range []string{"", "../escape.jpg", "a/b.jpg", ".hidden"} {
		if err := s.Put(ctx, key, strings.NewReader("x"), "image/png"); !errors.Is(err, ErrBadKey) {
			t.Errorf("Put(%q): expected ErrBadKey, got %v", key, err)
		}
		if _, err := s.Get(ctx, key); !errors.Is(err, ErrBadKey) {
			t.Errorf("Get(%q): expected ErrBadKey, got %v", key, err)
		}
	}
}

func TestLocalLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocal(root, "http://localhost:8080/files")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	if err := s.Put(context.Background(), "a.png", strings.NewReader("x"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// A refused overwrite must clean up its temp file as well.
	if err := s.Put(context.Background(), "a.png", strings.NewReader("y"), "image/png"); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".upload-") {
			t.Errorf("temp file left behind: %s", filepath.Join(root, e.Name()))
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one file, got %d", len(entries))
	}
}

func TestLocalURL(t *testing.T) {
	s := newTestLocal(t)
	if got := s.URL("abc.jpg"); got != "http://localhost:8080/files/abc.jpg" {
		t.Errorf("unexpected URL %q", got)
	}
}
