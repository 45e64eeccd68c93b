package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTextChannel(t *testing.T) {
	assert.True(t, IsTextChannel("chat"))
	assert.True(t, IsTextChannel("email"))
	assert.False(t, IsTextChannel("voice"))
	assert.False(t, IsTextChannel(""))
}

func TestHasRequiredContent(t *testing.T) {
	voice := Interaction{Channel: "voice", RecordingPath: "/recordings/a.wav"}
	assert.True(t, voice.HasRequiredContent())

	voice.RecordingPath = ""
	assert.False(t, voice.HasRequiredContent())

	chat := Interaction{Channel: "chat", MessageCount: 3}
	assert.True(t, chat.HasRequiredContent())

	chat.MessageCount = 0
	assert.False(t, chat.HasRequiredContent())
}
