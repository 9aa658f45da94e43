package auditlog

import "context"

type Repository interface {
	Append(ctx context.Context, component, category, message string) error
}
