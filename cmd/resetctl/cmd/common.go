package cmd

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/elarca/resetweb/internal/client"
	"github.com/elarca/resetweb/internal/config"
	"github.com/elarca/resetweb/internal/logger"
	"github.com/elarca/resetweb/internal/model"
)

// setup loads the shared configuration and logger for a command run
func setup() (*config.Config, *client.Client) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	return cfg, client.New(cfg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printState writes a flow state and turns an error state into a command error
func printState(w io.Writer, state model.FlowState) error {
	if err := printJSON(w, state); err != nil {
		return err
	}
	if state.IsError() {
		return errors.New(state.Message)
	}
	return nil
}
