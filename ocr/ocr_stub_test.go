//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/tsawler/rtfkit/model"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New()
	if err == nil {
		t.Error("Expected error from New() when OCR is disabled")
	}
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when OCR is disabled")
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
}

func TestStubMethods(t *testing.T) {
	var client Client
	if _, err := client.RecognizeImage([]byte{1}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeImage: expected ErrOCRNotEnabled, got %v", err)
	}
	if _, err := client.RecognizePicture(&model.Image{}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizePicture: expected ErrOCRNotEnabled, got %v", err)
	}
	if err := client.SetLanguage("eng"); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("SetLanguage: expected ErrOCRNotEnabled, got %v", err)
	}
	if err := client.SetPageSegMode(PSM_AUTO); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("SetPageSegMode: expected ErrOCRNotEnabled, got %v", err)
	}
}

func TestRecognizePicturesStub(t *testing.T) {
	var client Client
	imgs := []*model.Image{{Format: model.ImageFormatPNG, Data: []byte{0x89}}}

	got, err := client.RecognizePictures(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("no pictures: got %v, %v", got, err)
	}

	if _, err := client.RecognizePictures(context.Background(), imgs); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.RecognizePictures(ctx, imgs); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
