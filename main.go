package main

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/recurrence-server/api"
	"github.com/carson-networks/recurrence-server/internal/config"
	"github.com/carson-networks/recurrence-server/internal/logging"
	"github.com/carson-networks/recurrence-server/internal/operator"
	"github.com/carson-networks/recurrence-server/internal/service"
	"github.com/carson-networks/recurrence-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("recurrence-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	dbStorage := storage.NewStorage(envConfig)
	svc := service.NewService(dbStorage, envConfig)

	delegator := operator.NewOperatorDelegator(svc, logger, 4)
	delegator.Start()
	defer delegator.Stop()

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:   logger,
			Port:     "9446",
			Service:  svc,
			Operator: delegator,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}
