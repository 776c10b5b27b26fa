package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{
			name:   "with custom writer",
			writer: &bytes.Buffer{},
		},
		{
			name:   "with nil writer",
			writer: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.interrupted)
		})
	}
}

func TestInterruptHandler_Interrupt(t *testing.T) {
	output := &bytes.Buffer{}
	handler := NewInterruptHandler(output)

	ctx := handler.Watch(context.Background())

	select {
	case <-ctx.Done():
		t.Fatal("context must not be canceled before an interrupt")
	default:
	}
	assert.False(t, handler.WasInterrupted())

	handler.interrupt()

	select {
	case <-ctx.Done():
	default:
		t.Fatal("context must be canceled after an interrupt")
	}

	require.True(t, handler.WasInterrupted())
	assert.Contains(t, output.String(), "Interrupt received!")
	assert.Contains(t, output.String(), "nothing has been published")
}

func TestInterruptHandler_MessageShownOnce(t *testing.T) {
	output := &bytes.Buffer{}
	handler := NewInterruptHandler(output)
	_ = handler.Watch(context.Background())

	handler.interrupt()
	handler.interrupt()

	count := strings.Count(output.String(), "Interrupt received!")
	assert.Equal(t, 1, count, "interrupt message should only be shown once")
}
