package operator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/recurrence-server/internal/operator/actions"
	"github.com/carson-networks/recurrence-server/internal/service"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	service *service.Service
	logger  *logrus.Logger
	queue   chan ActionItem
}

func NewOperator(svc *service.Service, logger *logrus.Logger, queue chan ActionItem) *Operator {
	return &Operator{
		service: svc,
		logger:  logger,
		queue:   queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	err := item.action.Perform(item.ctx, o.service)

	if item.response == nil {
		// Detached item: the initiating request has already returned, so
		// failures are logged here and never rethrown to any caller.
		if err != nil {
			o.logger.WithError(err).Errorf("Operator.%v.DetachedError", item.action.Name())
		}
		return
	}

	item.response <- ActionItemResponse{err: err}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
