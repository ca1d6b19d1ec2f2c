package app

import (
	"fmt"
	"net/http"

	"github.com/elarca/resetweb/internal/client"
	"github.com/elarca/resetweb/internal/config"
	"github.com/elarca/resetweb/internal/logger"
	"github.com/elarca/resetweb/internal/proxy"
	"github.com/elarca/resetweb/internal/repository"
	"github.com/elarca/resetweb/internal/service"
)

type App struct {
	Cfg            *config.Config
	Client         *client.Client
	EmailService   *service.EmailService
	AccountService *service.AccountService // nil unless the mock backend is enabled
	Proxy          *proxy.Proxy            // nil unless the dev proxy is enabled
}

func New(cfg *config.Config) (*App, error) {
	a := &App{
		Cfg:    cfg,
		Client: client.New(cfg),
	}

	if cfg.MockEnabled {
		a.EmailService = service.NewEmailService(
			cfg.ResendAPIKey,
			cfg.EmailFrom,
			cfg.AppURL,
			cfg.AppName,
			cfg.IsDevelopment(),
		)
		accountRepository := repository.NewAccountRepository(service.MockAccountEmail)
		a.AccountService = service.NewAccountService(accountRepository, a.EmailService, cfg.MockDelay)
	}

	if cfg.ProxyEnabled {
		p, err := proxy.New(cfg.BackendBaseURL, &http.Client{Timeout: cfg.ClientTimeout})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize proxy: %w", err)
		}
		a.Proxy = p
	}

	return a, nil
}

func (a *App) Close() error {
	logger.Flush()
	return nil
}
