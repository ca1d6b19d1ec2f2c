package layouts

import (
	"context"

	"github.com/elarca/resetweb/internal/ctxkeys"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultAppName = "El Arca"

func appName(ctx context.Context) string {
	name := defaultAppName
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		name = cfg.AppName
	}
	return cases.Title(language.Und).String(name)
}

// pageTitle renders "<title> · <app>", or just the app name.
func pageTitle(ctx context.Context, title string) string {
	if title == "" {
		return appName(ctx)
	}
	return title + " · " + appName(ctx)
}
