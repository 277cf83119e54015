package core

import (
	"context"
	"crypto/subtle"
	"fmt"

	"ShopBot/entity"
)

const adminUser = "admin"

// AuthenticateByToken accepts the configured key and keys issued from
// the repository.
func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	username, err := c.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &entity.UserAuth{Username: username, Token: token}, nil
}

func (c *Core) ValidateToken(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("empty token")
	}
	if c.authKey != "" && subtle.ConstantTimeCompare([]byte(token), []byte(c.authKey)) == 1 {
		return adminUser, nil
	}
	c.mu.RLock()
	username, ok := c.keys[token]
	c.mu.RUnlock()
	if ok {
		return username, nil
	}
	if c.repo == nil {
		return "", fmt.Errorf("token not found")
	}

	username, err := c.repo.CheckApiKey(context.Background(), token)
	if err != nil {
		return "", fmt.Errorf("failed to check key: %w", err)
	}
	if username == "" {
		return "", fmt.Errorf("token not found")
	}
	c.remember(token, username)
	return username, nil
}

func (c *Core) GenerateApiKey(ctx context.Context, username string) (string, error) {
	if c.repo == nil {
		return "", fmt.Errorf("repository is not set")
	}

	apiKey, err := c.repo.GenerateApiKey(ctx, username)
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}

	c.remember(apiKey, username)
	return apiKey, nil
}

func (c *Core) remember(key, username string) {
	c.mu.Lock()
	c.keys[key] = username
	c.mu.Unlock()
}
