package utils

import (
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()

	id, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(id) != 26 {
		t.Errorf("ULID length = %d, want 26", len(id))
	}

	other, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == other {
		t.Error("two ULIDs from the same timestamp should differ")
	}
}

func TestValidateImageFile(t *testing.T) {
	u := New()

	makeHeader := func(size int64, contentType string) *multipart.FileHeader {
		return &multipart.FileHeader{
			Filename: "receipt.png",
			Size:     size,
			Header: textproto.MIMEHeader{
				"Content-Type": []string{contentType},
			},
		}
	}

	t.Run("valid image", func(t *testing.T) {
		if err := u.ValidateImageFile(makeHeader(1024, "image/png")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("nil file", func(t *testing.T) {
		if err := u.ValidateImageFile(nil); err == nil {
			t.Error("expected error for nil file")
		}
	})

	t.Run("too large", func(t *testing.T) {
		if err := u.ValidateImageFile(makeHeader(6*1024*1024, "image/png")); err == nil {
			t.Error("expected error for oversized file")
		}
	})

	t.Run("not an image", func(t *testing.T) {
		if err := u.ValidateImageFile(makeHeader(1024, "application/pdf")); err == nil {
			t.Error("expected error for non-image content type")
		}
	})
}
