package ports

import "context"

// PathPrompter asks the user for a replacement file.
//
//go:generate go run go.uber.org/mock/mockgen -source=prompter.go -destination=mocks/mock_prompter.go -package=mocks
type PathPrompter interface {
	// PromptPath asks for a path, suggesting one. An empty result means the user abandoned the choice.
	PromptPath(ctx context.Context, message, suggested string) (string, error)
}
