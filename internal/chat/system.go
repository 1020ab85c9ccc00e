package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/sibyl/pkg/pagination"
)

// System defines the public contract for chat domain operations.
type System interface {
	Handler(timeout time.Duration) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Exchange], error)

	Find(ctx context.Context, id uuid.UUID) (*Exchange, error)
	Send(ctx context.Context, cmd SendCommand) (*Exchange, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
