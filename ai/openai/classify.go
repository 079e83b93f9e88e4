// Copyright 2025 Planora
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/planora/catalog/ai"
)

// timeoutConfig bounds a single provider call. A zero perCall applies no
// extra deadline beyond the caller's context.
type timeoutConfig struct {
	perCall time.Duration
}

func (t timeoutConfig) apply(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.perCall <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, t.perCall)
}

// transientMarkers are substrings of provider error messages that indicate
// a retryable condition. The OpenAI-compatible client surfaces HTTP status
// information only in the error text.
var transientMarkers = []string{
	"429",
	"rate limit",
	"timeout",
	"timed out",
	"connection refused",
	"connection reset",
	"status code: 500",
	"status code: 502",
	"status code: 503",
	"status code: 504",
	"service unavailable",
	"bad gateway",
	"overloaded",
}

// classify wraps a provider error with the matching taxonomy sentinel.
// Cancellation passes through unwrapped, deadline and network errors are
// transient, and everything unrecognized is permanent so it is never
// retried blindly.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ai.ErrTransient) || errors.Is(err, ai.ErrPermanent) {
		return err
	}

	// A cancelled call reflects the caller's intent, not provider health.
	if errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ai.ErrTransient, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ai.ErrTransient, err)
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %w", ai.ErrTransient, err)
		}
	}

	return fmt.Errorf("%w: %w", ai.ErrPermanent, err)
}
