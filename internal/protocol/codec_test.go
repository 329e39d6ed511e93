package protocol

import (
	"bytes"
	"io"
	"testing"
)

func TestCodecAppList(t *testing.T) {
	var buf bytes.Buffer
	codec := NewCodec(&buf)

	if err := codec.Encode(&AppListReq{}); err != nil {
		t.Fatalf("Encode AppListReq failed: %v", err)
	}

	decoded, err := codec.Decode()
	if err != nil {
		t.Fatalf("Decode AppListReq failed: %v", err)
	}
	if _, ok := decoded.(*AppListReq); !ok {
		t.Fatalf("Expected *AppListReq, got %T", decoded)
	}

	res := &AppListRes{
		Apps: []AppInfo{
			{
				BundleID:      "com.example.maps",
				Name:          "Maps",
				Architectures: []string{"arm64", "x86_64"},
				InstallType:   "user",
				ProcessState:  StateRunning,
				Debuggable:    true,
			},
			{BundleID: "com.example.clock", Name: "Clock", ProcessState: StateNotRunning},
		},
	}
	if err := codec.Encode(res); err != nil {
		t.Fatalf("Encode AppListRes failed: %v", err)
	}

	decoded, err = codec.Decode()
	if err != nil {
		t.Fatalf("Decode AppListRes failed: %v", err)
	}
	decodedRes, ok := decoded.(*AppListRes)
	if !ok {
		t.Fatalf("Expected *AppListRes, got %T", decoded)
	}
	if len(decodedRes.Apps) != 2 {
		t.Fatalf("Expected 2 apps, got %d", len(decodedRes.Apps))
	}
	if decodedRes.Apps[0].BundleID != "com.example.maps" {
		t.Errorf("Expected 'com.example.maps', got %q", decodedRes.Apps[0].BundleID)
	}
	if decodedRes.Apps[0].ProcessState != StateRunning {
		t.Errorf("Expected StateRunning, got %v", decodedRes.Apps[0].ProcessState)
	}
}

func TestCodecDescribeOptionalPoint(t *testing.T) {
	var buf bytes.Buffer
	codec := NewCodec(&buf)

	if err := codec.Encode(&DescribeReq{Point: &Point{X: 10, Y: 20}}); err != nil {
		t.Fatalf("Encode DescribeReq failed: %v", err)
	}
	if err := codec.Encode(&DescribeReq{}); err != nil {
		t.Fatalf("Encode DescribeReq without point failed: %v", err)
	}

	decoded, err := codec.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	withPoint := decoded.(*DescribeReq)
	if withPoint.Point == nil || withPoint.Point.X != 10 || withPoint.Point.Y != 20 {
		t.Errorf("Point mismatch: %+v", withPoint.Point)
	}

	decoded, err = codec.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.(*DescribeReq).Point != nil {
		t.Error("Expected nil point")
	}
}

func TestCodecPipelinedMessages(t *testing.T) {
	// Many messages written before any read, the shape of a media
	// upload. The decoder must consume exactly one message per call.
	var buf bytes.Buffer
	codec := NewCodec(&buf)

	if err := codec.Encode(&MediaOpen{}); err != nil {
		t.Fatalf("Encode MediaOpen failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := codec.Encode(&MediaChunk{Seq: uint32(i), Data: []byte{byte(i), 0xAA}}); err != nil {
			t.Fatalf("Encode chunk %d failed: %v", i, err)
		}
	}

	decoded, err := codec.Decode()
	if err != nil {
		t.Fatalf("Decode MediaOpen failed: %v", err)
	}
	if _, ok := decoded.(*MediaOpen); !ok {
		t.Fatalf("Expected *MediaOpen, got %T", decoded)
	}
	for i := 0; i < 5; i++ {
		decoded, err := codec.Decode()
		if err != nil {
			t.Fatalf("Decode chunk %d failed: %v", i, err)
		}
		chunk, ok := decoded.(*MediaChunk)
		if !ok {
			t.Fatalf("Expected *MediaChunk, got %T", decoded)
		}
		if chunk.Seq != uint32(i) {
			t.Errorf("Expected seq %d, got %d", i, chunk.Seq)
		}
	}
	if _, err := codec.Decode(); err != io.EOF {
		t.Errorf("Expected io.EOF after last message, got %v", err)
	}
}

func TestCodecError(t *testing.T) {
	var buf bytes.Buffer
	codec := NewCodec(&buf)

	if err := codec.Encode(&Error{Code: ErrPeerNotFound, Message: "no companion for udid ABC"}); err != nil {
		t.Fatalf("Encode Error failed: %v", err)
	}

	decoded, err := codec.Decode()
	if err != nil {
		t.Fatalf("Decode Error failed: %v", err)
	}
	fault, ok := decoded.(*Error)
	if !ok {
		t.Fatalf("Expected *Error, got %T", decoded)
	}
	if fault.Code != ErrPeerNotFound {
		t.Errorf("Expected ErrPeerNotFound, got %v", fault.Code)
	}
	if fault.Message != "no companion for udid ABC" {
		t.Errorf("Message mismatch: %s", fault.Message)
	}
}

func TestMessageTypeString(t *testing.T) {
	tests := []struct {
		expected string
		msgType  MessageType
	}{
		{"APP_LIST_REQ", MsgAppListReq},
		{"MEDIA_CHUNK", MsgMediaChunk},
		{"ERROR", MsgError},
		{"UNKNOWN", MessageType(0xFFFE)},
	}
	for _, tt := range tests {
		if got := tt.msgType.String(); got != tt.expected {
			t.Errorf("%v.String() = %s, want %s", tt.msgType, got, tt.expected)
		}
	}
}

func TestPermissionString(t *testing.T) {
	if PermCamera.String() != "camera" {
		t.Errorf("PermCamera.String() = %s", PermCamera.String())
	}
	if Permission(0xFF).String() != "unknown" {
		t.Errorf("unknown permission should stringify as 'unknown'")
	}
}
