package service

import (
	"github.com/carson-networks/recurrence-server/internal/config"
	"github.com/carson-networks/recurrence-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Detection   *DetectionService
	Pattern     *PatternService
	Alert       *AlertService
	Transaction *TransactionService
}

// NewService creates a new Service with the given storage and config.
func NewService(store *storage.Storage, env *config.Config) *Service {
	return &Service{
		Detection:   NewDetectionService(store),
		Pattern:     NewPatternService(store),
		Alert:       NewAlertService(store, env),
		Transaction: NewTransactionService(store),
	}
}
