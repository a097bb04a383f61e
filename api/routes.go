package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/recurrence-server/internal/handlers/v1/alert"
	"github.com/carson-networks/recurrence-server/internal/handlers/v1/pattern"
	"github.com/carson-networks/recurrence-server/internal/handlers/v1/status"
	"github.com/carson-networks/recurrence-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/recurrence-server/internal/logging"
	"github.com/carson-networks/recurrence-server/internal/operator"
	"github.com/carson-networks/recurrence-server/internal/service"
)

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Operator *operator.OperatorDelegator
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	humaAPI := humago.New(mux, huma.DefaultConfig("recurrence-server", "1.0.0"))

	pattern.NewDetectHandler(r.Operator).Register(humaAPI)
	pattern.NewListPatternsHandler(r.Service.Pattern).Register(humaAPI)
	pattern.NewUpcomingHandler(r.Service.Pattern).Register(humaAPI)
	pattern.NewPayBillHandler(r.Service.Pattern).Register(humaAPI)

	alert.NewGenerateAlertsHandler(r.Service.Alert).Register(humaAPI)
	alert.NewListAlertsHandler(r.Service.Alert).Register(humaAPI)
	alert.NewMarkReadHandler(r.Service.Alert).Register(humaAPI)

	transaction.NewCreateTransactionHandler(r.Service.Transaction, r.Operator).Register(humaAPI)

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
