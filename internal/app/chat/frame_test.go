package chat

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"chatrelay/internal/pkg/errs"
)

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name      string
		frame     string
		wantCode  int
		wantMedia string
	}{
		{name: "plain text", frame: `{"content":"hi"}`},
		{name: "explicit media type", frame: `{"content":"pic","media_url":"https://x/y.bin","media_type":"Video"}`, wantMedia: MediaVideo},
		{name: "inferred image", frame: `{"content":"pic","media_url":"https://x/photo.JPG?sig=1"}`, wantMedia: MediaImage},
		{name: "inferred video", frame: `{"content":"clip","media_url":"https://x/clip.mp4"}`, wantMedia: MediaVideo},
		{name: "invalid json", frame: `{"content":`, wantCode: errs.ErrInvalidJSONFormat},
		{name: "trailing data", frame: `{"content":"a"}{"content":"b"}`, wantCode: errs.ErrExtraContentInBody},
		{name: "missing content", frame: `{}`, wantCode: errs.ErrMessageEmpty},
		{name: "blank content", frame: `{"content":" \n\t"}`, wantCode: errs.ErrMessageEmpty},
		{name: "bad media type", frame: `{"content":"x","media_type":"audio"}`, wantCode: errs.ErrInvalidMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeInbound([]byte(tt.frame))

			if tt.wantCode != 0 {
				if errs.CodeOf(err) != tt.wantCode {
					t.Fatalf("Expected code %d, got %v", tt.wantCode, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p.MediaType != tt.wantMedia {
				t.Errorf("Expected media type %q, got %q", tt.wantMedia, p.MediaType)
			}
		})
	}
}

func TestDecodeInboundContentLimit(t *testing.T) {
	atLimit, _ := json.Marshal(map[string]string{"content": strings.Repeat("a", MaxContentBytes)})
	if _, err := DecodeInbound(atLimit); err != nil {
		t.Fatalf("Content at the limit should be accepted: %v", err)
	}

	overLimit, _ := json.Marshal(map[string]string{"content": strings.Repeat("a", MaxContentBytes+1)})
	if _, err := DecodeInbound(overLimit); errs.CodeOf(err) != errs.ErrMessageContentTooLong {
		t.Fatalf("Expected ErrMessageContentTooLong, got %v", err)
	}
}

func TestEncodeErrorFrame(t *testing.T) {
	data, err := encodeErrorFrame(errs.NewError(errs.ErrMessageEmpty))
	if err != nil {
		t.Fatalf("encodeErrorFrame failed: %v", err)
	}

	var frame ErrorFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("Invalid error frame: %v", err)
	}
	if frame.Type != FrameError || frame.Code != errs.ErrMessageEmpty || frame.Message == "" {
		t.Errorf("Unexpected error frame %+v", frame)
	}

	data, _ = encodeErrorFrame(errors.New("boom"))
	_ = json.Unmarshal(data, &frame)
	if frame.Code != errs.ErrUnknown {
		t.Errorf("Expected ErrUnknown for plain errors, got %d", frame.Code)
	}
}

func TestValidateFileType(t *testing.T) {
	kind, err := ValidateFileType("clip.MP4", "video/mp4")
	if err != nil || kind != MediaVideo {
		t.Fatalf("Expected video, got %q %v", kind, err)
	}

	kind, err = ValidateFileType("photo.jpeg", "image/jpeg")
	if err != nil || kind != MediaImage {
		t.Fatalf("Expected image, got %q %v", kind, err)
	}

	rejected := [][2]string{
		{"doc.pdf", "application/pdf"},
		{"photo.png", "image/jpeg"},
		{"noext", "image/png"},
	}
	for _, r := range rejected {
		if _, err := ValidateFileType(r[0], r[1]); err == nil || err.Code != errs.ErrFileTypeNotAllowed {
			t.Errorf("Expected %s (%s) to be rejected", r[0], r[1])
		}
	}
}

func TestValidateFileSize(t *testing.T) {
	if err := ValidateFileSize(10, 10); err != nil {
		t.Errorf("Size at the limit should pass: %v", err)
	}
	if err := ValidateFileSize(11, 10); err == nil || err.Code != errs.ErrFileSizeTooLarge {
		t.Errorf("Expected ErrFileSizeTooLarge, got %v", err)
	}
	if err := ValidateFileSize(0, 10); err == nil || err.Code != errs.ErrInvalidParams {
		t.Errorf("Expected ErrInvalidParams, got %v", err)
	}
}
