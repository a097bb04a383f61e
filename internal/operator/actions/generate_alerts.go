package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/service"
)

// GenerateAlerts runs the alert evaluators for one owner. It is usually
// enqueued detached after a transaction-mutating operation; the triggering
// request never waits on it.
type GenerateAlerts struct {
	OwnerID uuid.UUID
}

func (a *GenerateAlerts) Name() string {
	return "GenerateAlerts"
}

func (a *GenerateAlerts) Perform(ctx context.Context, svc *service.Service) error {
	_, err := svc.Alert.GenerateAlerts(ctx, a.OwnerID)
	return err
}
