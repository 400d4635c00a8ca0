package main

import (
	"net/http"

	"github.com/angeloszaimis/model-health-monitor/internal/handler"
	"github.com/angeloszaimis/model-health-monitor/internal/metrics"
)

func setupRouter(modelHandler *handler.ModelHandler, metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/models", modelHandler.ListModels)
	mux.HandleFunc("DELETE /v1/models/{id}", modelHandler.RemoveModel)
	mux.HandleFunc("POST /v1/interviews", modelHandler.StartInterview)
	mux.HandleFunc("GET /v1/metrics", metricsCollector.Handler())

	return mux
}
