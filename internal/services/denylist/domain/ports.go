package domain

import "context"

// ServicePort is what the transport needs from the denylist service
type ServicePort interface {
	List(ctx context.Context) ListResponse
	Replace(ctx context.Context, text string) ReplaceResponse
}
