package domain

import "context"

// ServicePort defines the service contract for samples
type ServicePort interface {
	// List never fails, an unreadable source yields an empty list
	List(ctx context.Context) []Sample
}
