package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatrelay/internal/pkg/errs"
)

// FrameType tags every outbound frame.
type FrameType string

const (
	FrameMessage FrameType = "message"
	FrameAck     FrameType = "ack"
	FrameError   FrameType = "error"
)

// Payload is a validated inbound message.
type Payload struct {
	Content   string
	MediaURL  string
	MediaType string

	// TempID is echoed back in the ack so the client can match it to its optimistic copy.
	TempID string
}

// MessageFrame is delivered to every recipient of a routed message.
type MessageFrame struct {
	Type      FrameType `json:"type"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver,omitempty"`
	GroupID   int64     `json:"group_id,omitempty"`
	Content   string    `json:"content"`
	MediaURL  string    `json:"media_url,omitempty"`
	MediaType string    `json:"media_type,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// AckFrame confirms to the sender that its message was persisted.
type AckFrame struct {
	Type      FrameType `json:"type"`
	ID        int64     `json:"id"`
	Delivered int       `json:"delivered"`
	Timestamp int64     `json:"timestamp"`
	TempID    string    `json:"temp_id,omitempty"`
}

// ErrorFrame reports a rejected inbound frame.
type ErrorFrame struct {
	Type    FrameType `json:"type"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
}

type inboundFrame struct {
	Content   string `json:"content"`
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
	TempID    string `json:"temp_id"`
}

// DecodeInbound parses and validates a client frame.
func DecodeInbound(data []byte) (Payload, error) {
	var in inboundFrame

	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&in); err != nil {
		return Payload{}, errs.NewError(errs.ErrInvalidJSONFormat)
	}
	if decoder.More() {
		return Payload{}, errs.NewError(errs.ErrExtraContentInBody)
	}

	if strings.TrimSpace(in.Content) == "" {
		return Payload{}, errs.NewError(errs.ErrMessageEmpty)
	}

	if len(in.Content) > MaxContentBytes {
		return Payload{}, errs.NewError(errs.ErrMessageContentTooLong)
	}

	p := Payload{
		Content:  in.Content,
		MediaURL: strings.TrimSpace(in.MediaURL),
		TempID:   in.TempID,
	}

	mediaType := strings.ToLower(strings.TrimSpace(in.MediaType))
	switch {
	case mediaType != "":
		if !IsMediaType(mediaType) {
			return Payload{}, errs.NewError(errs.ErrInvalidMediaType)
		}
		p.MediaType = mediaType
	case p.MediaURL != "":
		p.MediaType = InferMediaType(p.MediaURL)
	}

	return p, nil
}

func unixMilli(t time.Time) int64 {
	return t.UnixMilli()
}

func encodeMessageFrame(msg StoredMessage) ([]byte, error) {
	return json.Marshal(MessageFrame{
		Type:      FrameMessage,
		Sender:    msg.Sender,
		Receiver:  msg.Receiver,
		GroupID:   msg.GroupID,
		Content:   msg.Content,
		MediaURL:  msg.MediaURL,
		MediaType: msg.MediaType,
		Timestamp: unixMilli(msg.SentAt),
	})
}

func encodeAckFrame(tempID string, outcome RouteOutcome) ([]byte, error) {
	return json.Marshal(AckFrame{
		Type:      FrameAck,
		ID:        outcome.MessageID,
		Delivered: outcome.Delivered,
		Timestamp: unixMilli(outcome.SentAt),
		TempID:    tempID,
	})
}

func encodeErrorFrame(err error) ([]byte, error) {
	frame := ErrorFrame{Type: FrameError}

	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		frame.Code = customErr.Code
		frame.Message = customErr.Message
	} else {
		frame.Code = errs.ErrUnknown
		frame.Message = fmt.Sprintf("Internal server error: %v", err)
	}

	return json.Marshal(frame)
}
