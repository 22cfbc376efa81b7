package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/draftea/checkout-system/checkout-service/application"
	"github.com/draftea/checkout-system/checkout-service/domain"
	"github.com/draftea/checkout-system/shared/logging"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CheckoutHandlers contains checkout HTTP handlers
type CheckoutHandlers struct {
	createCheckout      *application.CreateCheckout
	getCheckout         *application.GetCheckout
	listPaymentMethods  *application.ListPaymentMethods
	selectPaymentMethod *application.SelectPaymentMethod
}

// NewCheckoutHandlers creates new checkout handlers
func NewCheckoutHandlers(
	createCheckout *application.CreateCheckout,
	getCheckout *application.GetCheckout,
	listPaymentMethods *application.ListPaymentMethods,
	selectPaymentMethod *application.SelectPaymentMethod,
) *CheckoutHandlers {
	return &CheckoutHandlers{
		createCheckout:      createCheckout,
		getCheckout:         getCheckout,
		listPaymentMethods:  listPaymentMethods,
		selectPaymentMethod: selectPaymentMethod,
	}
}

// CreateCheckout handles checkout creation requests
func (h *CheckoutHandlers) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var cmd application.CreateCheckoutCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.createCheckout.Execute(r.Context(), &cmd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// GetCheckout handles checkout retrieval requests
func (h *CheckoutHandlers) GetCheckout(w http.ResponseWriter, r *http.Request) {
	response, err := h.getCheckout.Execute(r.Context(), &application.GetCheckoutQuery{
		CheckoutID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// ListPaymentMethods renders the payment method list of a checkout
func (h *CheckoutHandlers) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	response, err := h.listPaymentMethods.Execute(r.Context(), &application.ListPaymentMethodsQuery{
		CheckoutID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// SelectPaymentMethod stores the submitted payment method value on a checkout
func (h *CheckoutHandlers) SelectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var cmd application.SelectPaymentMethodCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd.CheckoutID = chi.URLParam(r, "id")

	response, err := h.selectPaymentMethod.Execute(r.Context(), &cmd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/checkouts", func(r chi.Router) {
		r.Post("/", h.CreateCheckout)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetCheckout)
			r.Get("/payment-methods", h.ListPaymentMethods)
			r.Put("/payment-methods/selection", h.SelectPaymentMethod)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var resolutionErr *domain.PaymentMethodResolutionError

	switch {
	case errors.Is(err, application.ErrInvalidCheckoutID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrCheckoutNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &resolutionErr):
		http.Error(w, resolutionErr.Error(), http.StatusUnprocessableEntity)
	default:
		logging.FromContext(r.Context()).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
