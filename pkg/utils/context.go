package utils

import (
	"context"
)

type contextKey string

const (
	ResidentIDKey   contextKey = "resident_id"
	ResidentNameKey contextKey = "resident_name"
	RoleKey         contextKey = "role"
)

// The resident identity comes from the upstream identity layer and is treated
// as an opaque string throughout the service.

func GetResidentIDFromContext(ctx context.Context) (string, bool) {
	idVal := ctx.Value(ResidentIDKey)
	if idVal == nil {
		return "", false
	}

	id, ok := idVal.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

func GetResidentNameFromContext(ctx context.Context) (string, bool) {
	nameVal := ctx.Value(ResidentNameKey)
	if nameVal == nil {
		return "", false
	}

	name, ok := nameVal.(string)
	return name, ok
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

func SetResidentContext(ctx context.Context, residentID, name, role string) context.Context {
	ctx = context.WithValue(ctx, ResidentIDKey, residentID)
	ctx = context.WithValue(ctx, ResidentNameKey, name)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}
