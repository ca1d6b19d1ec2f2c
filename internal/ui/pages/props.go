package pages

import (
	"context"

	"github.com/elarca/resetweb/internal/ctxkeys"
	"github.com/elarca/resetweb/internal/model"
)

type ForgotPasswordProps struct {
	Email string
	State model.FlowState
}

type ResetPasswordProps struct {
	Token         string
	Email         string
	State         model.FlowState
	CanSubmit     bool
	NeedsToken    bool
	MinLength     int
	ShowTokenCopy bool
	DeepLink      string
}

func notFoundMessage(ctx context.Context) string {
	if path := ctxkeys.URLPath(ctx); path != "" {
		return "Nothing lives at " + path + "."
	}
	return "This page does not exist."
}
