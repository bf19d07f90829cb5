package main

import (
	"log/slog"

	"etymap/internal/config"
	"etymap/internal/logging"
	"etymap/internal/store"
)

// daemonStore opens the persistence layer, logging the resolved location.
func daemonStore(cfg *config.Config, logger *slog.Logger) (*store.Store, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("store opened", logging.String("path", st.Path()))
	return st, nil
}
