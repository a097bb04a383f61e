package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/recurrence-server/internal/detection"
	"github.com/carson-networks/recurrence-server/internal/service"
)

// DetectPatterns runs one detection scan for an owner and kind. Result is
// populated on a successful Perform so awaited callers can read the run's
// outcome; detached callers simply ignore it.
type DetectPatterns struct {
	OwnerID uuid.UUID
	Kind    detection.Kind

	Result *service.DetectionResult
}

func (a *DetectPatterns) Name() string {
	return "DetectPatterns"
}

func (a *DetectPatterns) Perform(ctx context.Context, svc *service.Service) error {
	result, err := svc.Detection.Detect(ctx, a.OwnerID, a.Kind)
	if err != nil {
		return err
	}
	a.Result = result
	return nil
}
