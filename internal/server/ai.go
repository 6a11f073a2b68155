package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// LLMResponder generates replies through a real chat model. The prompt
// chain pairs the per-advisor system message with the user query; session
// history stays client-side, so each exchange is self-contained.
type LLMResponder struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewLLMResponder compiles the prompt chain over the supplied model.
func NewLLMResponder(ctx context.Context, chatModel model.ChatModel) (*LLMResponder, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &LLMResponder{chain: runnable}, nil
}

// Respond streams model output, forwarding each content delta to emit in
// arrival order.
func (l *LLMResponder) Respond(ctx context.Context, message, advisorID string, thinkMode bool, emit func(delta string) error) error {
	input := map[string]any{
		"system": systemMessage(advisorID, thinkMode),
		"query":  message,
	}

	stream, err := l.chain.Stream(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to stream chat chain output: %w", err)
	}
	defer stream.Close()

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return recvErr
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		if err := emit(chunk.Content); err != nil {
			return err
		}
	}
	return nil
}
