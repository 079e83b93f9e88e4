// Package mock provides test double implementations of the ai interfaces.
//
// The mocks allow tests to run without external embedding services and
// enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder()
//	vector, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, ai.ErrTransient
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// Default behavior returns deterministic unit vectors derived from a hash
// of the input text, so identical text always embeds identically.
package mock
