package context

import "context"

type ContextKey string

var (
	RequestIDKey = ContextKey("X-Request-Id")
	MethodKey    = ContextKey("X-Method")
	RouteKey     = ContextKey("X-Route")
	RemoteIPKey  = ContextKey("X-Remote-Ip")
	BrandIDKey   = ContextKey("X-Brand-Id")
	UserIDKey    = ContextKey("X-User-Id")
)

func getString(ctx context.Context, key ContextKey) string {
	value, ok := ctx.Value(key).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	return getString(ctx, RequestIDKey)
}

func SetMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, MethodKey, method)
}

func GetMethod(ctx context.Context) string {
	return getString(ctx, MethodKey)
}

func SetRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, RouteKey, route)
}

func GetRoute(ctx context.Context) string {
	return getString(ctx, RouteKey)
}

func SetRemoteIP(ctx context.Context, remoteIP string) context.Context {
	return context.WithValue(ctx, RemoteIPKey, remoteIP)
}

func GetRemoteIP(ctx context.Context) string {
	return getString(ctx, RemoteIPKey)
}

// SetBrandID scopes every registry lookup made with ctx to one brand.
func SetBrandID(ctx context.Context, brandID string) context.Context {
	return context.WithValue(ctx, BrandIDKey, brandID)
}

func GetBrandID(ctx context.Context) string {
	return getString(ctx, BrandIDKey)
}

func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) string {
	return getString(ctx, UserIDKey)
}
