package playback_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"interview-live-service/internal/service/playback"
	"interview-live-service/internal/service/playback/mock"
)

func TestPlayBase64_EmptyInputIsNoOp(t *testing.T) {
	player := mock.New()

	// Any number of empty playbacks resolves immediately and never fails
	for i := 0; i < 5; i++ {
		if err := playback.PlayBase64(context.Background(), player, ""); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}

	if n := len(player.Played()); n != 0 {
		t.Errorf("expected output device untouched, got %d playbacks", n)
	}
}

func TestPlayBase64_PlaysDecodedAudio(t *testing.T) {
	player := mock.New()
	audio := []byte("mp3-bytes-here")
	encoded := base64.StdEncoding.EncodeToString(audio)

	if err := playback.PlayBase64(context.Background(), player, encoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	played := player.Played()
	if len(played) != 1 {
		t.Fatalf("expected 1 playback, got %d", len(played))
	}
	if !bytes.Equal(played[0], audio) {
		t.Errorf("expected decoded audio %q, got %q", audio, played[0])
	}
}

func TestPlayBase64_DecodeFailure(t *testing.T) {
	player := mock.New()

	err := playback.PlayBase64(context.Background(), player, "not-valid-base64!!!")
	if err == nil {
		t.Fatal("expected decode error")
	}

	var pe *playback.Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *playback.Error, got %T", err)
	}
	if pe.Stage != "decode" {
		t.Errorf("expected decode stage, got %s", pe.Stage)
	}
	if len(player.Played()) != 0 {
		t.Error("expected output device untouched on decode failure")
	}
}

func TestPlayBase64_OutputFailure(t *testing.T) {
	player := mock.New()
	player.FailWith = errors.New("device busy")

	encoded := base64.StdEncoding.EncodeToString([]byte("audio"))
	err := playback.PlayBase64(context.Background(), player, encoded)
	if err == nil {
		t.Fatal("expected output error")
	}

	var pe *playback.Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *playback.Error, got %T", err)
	}
	if pe.Stage != "output" {
		t.Errorf("expected output stage, got %s", pe.Stage)
	}
}

func TestWriterPlayer_WritesAudio(t *testing.T) {
	var buf bytes.Buffer
	player := playback.NewWriterPlayer(&buf)

	audio := []byte("decoded-audio")
	if err := player.Play(context.Background(), audio); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), audio) {
		t.Errorf("expected %q written, got %q", audio, buf.Bytes())
	}
}

func TestWriterPlayer_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	player := playback.NewWriterPlayer(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := player.Play(ctx, []byte("audio")); err == nil {
		t.Error("expected error for cancelled context")
	}
	if buf.Len() != 0 {
		t.Error("expected no write after cancellation")
	}
}
