package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream 按顺序吐出预设的文本片段。
type fakeStream struct {
	fragments []string
	err       error
	pos       int
	closed    bool
}

func (f *fakeStream) Next() bool {
	if f.pos >= len(f.fragments) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeStream) Current() openai.ChatCompletionChunk {
	return openai.ChatCompletionChunk{
		Choices: []openai.ChatCompletionChunkChoice{
			{Delta: openai.ChatCompletionChunkChoiceDelta{Content: f.fragments[f.pos-1]}},
		},
	}
}

func (f *fakeStream) Err() error   { return f.err }
func (f *fakeStream) Close() error { f.closed = true; return nil }

func TestComplete_ConcatenatesFragments(t *testing.T) {
	fs := &fakeStream{fragments: []string{"```json\n{\"function\": ", "\"add\", ", "\"args\": [1, 2]}", "\n```"}}
	var captured openai.ChatCompletionNewParams
	c := newClient(func(_ context.Context, p openai.ChatCompletionNewParams) chunkStream {
		captured = p
		return fs
	}, "test-model", time.Second)

	out, err := c.Complete(context.Background(), "what is 1 plus 2?")
	require.NoError(t, err)
	assert.Equal(t, "```json\n{\"function\": \"add\", \"args\": [1, 2]}\n```", out)
	assert.True(t, fs.closed)

	assert.Equal(t, "test-model", string(captured.Model))
	require.Len(t, captured.Messages, 1)
	require.NotNil(t, captured.Messages[0].OfUser)
	assert.Equal(t, "what is 1 plus 2?", captured.Messages[0].OfUser.Content.OfString.Value)
}

func TestComplete_StreamError(t *testing.T) {
	fs := &fakeStream{fragments: []string{"partial"}, err: errors.New("connection reset")}
	c := newClient(func(context.Context, openai.ChatCompletionNewParams) chunkStream { return fs }, "m", time.Second)

	_, err := c.Complete(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, fs.closed)
}

func TestComplete_TooLarge(t *testing.T) {
	big := strings.Repeat("x", MaxResponseSize/2+1)
	fs := &fakeStream{fragments: []string{big, big}}
	c := newClient(func(context.Context, openai.ChatCompletionNewParams) chunkStream { return fs }, "m", time.Second)

	_, err := c.Complete(context.Background(), "q")
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

func TestComplete_AppliesTimeout(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	c := newClient(func(ctx context.Context, _ openai.ChatCompletionNewParams) chunkStream {
		deadline, hasDeadline = ctx.Deadline()
		return &fakeStream{}
	}, "m", 5*time.Second)

	_, err := c.Complete(context.Background(), "q")
	require.NoError(t, err)
	require.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, 2*time.Second)
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://example.com"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, DefaultTimeout, c.timeout)
}
