package main

import (
	"context"
	"errors"

	"file-insight/internal/logger"
	"file-insight/internal/service"
)

// seedUser creates the account unless the email is already registered.
func seedUser(ctx context.Context, auth *service.AuthService, email, password string) error {
	u, err := auth.Register(ctx, email, password)
	if errors.Is(err, service.ErrEmailTaken) {
		logger.Info("seed user exists, skipped", "email", email)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("seed user created", "id", u.ID, "email", u.Email)
	return nil
}
