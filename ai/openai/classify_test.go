package openai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/planora/catalog/ai"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	transient := []error{
		errors.New("API returned unexpected status code: 429 Too Many Requests"),
		errors.New("rate limit exceeded"),
		errors.New("request timed out"),
		errors.New("dial tcp: connection refused"),
		errors.New("API returned unexpected status code: 503 Service Unavailable"),
		context.DeadlineExceeded,
	}
	for _, err := range transient {
		classified := classify(err)
		assert.ErrorIs(t, classified, ai.ErrTransient, "%v", err)
		assert.NotErrorIs(t, classified, ai.ErrPermanent)
	}

	permanent := []error{
		errors.New("API returned unexpected status code: 400 Bad Request"),
		errors.New("model not found"),
		errors.New("invalid api key"),
	}
	for _, err := range permanent {
		classified := classify(err)
		assert.ErrorIs(t, classified, ai.ErrPermanent, "%v", err)
		assert.NotErrorIs(t, classified, ai.ErrTransient)
	}
}

func TestClassify_CancellationPassesThrough(t *testing.T) {
	for _, err := range []error{
		context.Canceled,
		fmt.Errorf("Post \"http://localhost:11434/v1/embeddings\": %w", context.Canceled),
	} {
		classified := classify(err)
		assert.ErrorIs(t, classified, context.Canceled)
		assert.NotErrorIs(t, classified, ai.ErrTransient, "%v", err)
		assert.NotErrorIs(t, classified, ai.ErrPermanent, "%v", err)
	}
}

func TestClassify_PreservesExistingKind(t *testing.T) {
	already := fmt.Errorf("%w: wrapped once", ai.ErrPermanent)
	assert.Equal(t, already, classify(already))
	assert.Nil(t, classify(nil))
}

func TestTimeoutConfig(t *testing.T) {
	t.Run("zero applies no deadline", func(t *testing.T) {
		ctx, cancel := timeoutConfig{}.apply(context.Background())
		defer cancel()
		_, ok := ctx.Deadline()
		assert.False(t, ok)
	})

	t.Run("positive bounds the call", func(t *testing.T) {
		ctx, cancel := timeoutConfig{perCall: time.Second}.apply(context.Background())
		defer cancel()
		_, ok := ctx.Deadline()
		assert.True(t, ok)
	})
}
