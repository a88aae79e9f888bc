package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultTestTimeout = 5 * time.Second

type stubChatClient struct {
	response openai.ChatCompletionResponse
	err      error
	gotReq   openai.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.gotReq = req
	return s.response, s.err
}

func TestOpenAIClientComplete(t *testing.T) {
	stub := &stubChatClient{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "  Happy to help!  "}, FinishReason: openai.FinishReasonStop},
			},
			Usage: openai.Usage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16},
		},
	}
	client := &OpenAIClient{client: stub, model: "gpt-4o-mini", timeout: defaultTestTimeout}

	resp, err := client.Complete(context.Background(), Request{
		System:   []string{"You are a helpful assistant."},
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Happy to help!", resp.Text)
	assert.Equal(t, int32(16), resp.Usage.TotalTokens)

	require.Len(t, stub.gotReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, stub.gotReq.Messages[0].Role)
	assert.Equal(t, "gpt-4o-mini", stub.gotReq.Model)
}

func TestOpenAIClientNoChoices(t *testing.T) {
	client := &OpenAIClient{client: &stubChatClient{}, model: "gpt-4o-mini", timeout: defaultTestTimeout}

	_, err := client.Complete(context.Background(), Request{})
	assert.Error(t, err)
}

type stubClient struct {
	resp  Response
	err   error
	calls int
}

func (s *stubClient) Complete(ctx context.Context, req Request) (Response, error) {
	s.calls++
	return s.resp, s.err
}

func TestFallbackClientPrimarySucceeds(t *testing.T) {
	primary := &stubClient{resp: Response{Text: "primary"}}
	fallback := &stubClient{resp: Response{Text: "fallback"}}
	client := NewFallbackClient(primary, fallback, nil)

	resp, err := client.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "primary", resp.Text)
	assert.Zero(t, fallback.calls)
}

func TestFallbackClientUsesFallbackOnError(t *testing.T) {
	primary := &stubClient{err: errors.New("rate limited")}
	fallback := &stubClient{resp: Response{Text: "fallback"}}
	client := NewFallbackClient(primary, fallback, nil)

	resp, err := client.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Text)
}

func TestFallbackClientBothFail(t *testing.T) {
	primary := &stubClient{err: errors.New("primary down")}
	fallback := &stubClient{err: errors.New("fallback down")}
	client := NewFallbackClient(primary, fallback, nil)

	_, err := client.Complete(context.Background(), Request{})
	assert.EqualError(t, err, "fallback down")
}

func TestFallbackClientNoFallbackConfigured(t *testing.T) {
	primary := &stubClient{err: errors.New("primary down")}
	client := NewFallbackClient(primary, nil, nil)

	_, err := client.Complete(context.Background(), Request{})
	assert.EqualError(t, err, "primary down")
}
