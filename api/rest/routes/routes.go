package routes

import (
	"net/http"

	"ml-pipeline/api/rest/handlers"

	"github.com/gorilla/mux"
)

// Services are the backends the HTTP API exposes. Only Dispatcher is required.
type Services struct {
	Dispatcher handlers.Dispatcher
	Ledger     handlers.Ledger
	Estimator  handlers.Estimator
	Monitor    handlers.JobMonitor
}

// SetupRoutes configures all API routes
func SetupRoutes(r *mux.Router, svc Services) {
	dispatchHandler := handlers.NewDispatchHandler(svc.Dispatcher, svc.Ledger)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	api := r.PathPrefix("/v1").Subrouter()
	// mux only reports 405 from a subrouter that has its own handler
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler

	// Dispatch endpoints
	api.HandleFunc("/dispatch", dispatchHandler.Dispatch).Methods("POST")
	api.HandleFunc("/dispatches", dispatchHandler.ListDispatches).Methods("GET")
	api.HandleFunc("/dispatches/{id}", dispatchHandler.GetDispatch).Methods("GET")

	if svc.Monitor != nil {
		trainingJobHandler := handlers.NewTrainingJobHandler(svc.Monitor)
		api.HandleFunc("/training-jobs/{name}", trainingJobHandler.GetTrainingJob).Methods("GET")
	}

	if svc.Estimator != nil {
		estimateHandler := handlers.NewEstimateHandler(svc.Estimator)
		api.HandleFunc("/estimates", estimateHandler.Estimate).Methods("POST")
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
