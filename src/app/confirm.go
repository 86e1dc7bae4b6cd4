package app

import "context"

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

var (
	AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })
	NeverConfirm  Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
)
