package ctxkeys

import (
	"context"

	"github.com/onegoal/onegoal/internal/config"
	"github.com/onegoal/onegoal/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey    contextKey = "user"
	ConfigKey  contextKey = "config"
	AuthViaKey contextKey = "auth_via"
)

// Ways a request can carry its session.
const (
	AuthViaHeader = "header"
	AuthViaCookie = "cookie"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// AuthVia reports whether the session came from the Authorization header or the cookie.
func AuthVia(ctx context.Context) string {
	via, _ := ctx.Value(AuthViaKey).(string)
	return via
}

func WithAuthVia(ctx context.Context, via string) context.Context {
	return context.WithValue(ctx, AuthViaKey, via)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}
