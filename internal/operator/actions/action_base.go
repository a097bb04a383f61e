package actions

import (
	"context"

	"github.com/carson-networks/recurrence-server/internal/service"
)

type IAction interface {
	// Name identifies the action in operator logs.
	Name() string
	Perform(ctx context.Context, svc *service.Service) error
}
