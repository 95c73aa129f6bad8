package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	tenantAuth := standardMiddleware.Append(app.JWTMiddlewareWithRole("tenant"))
	ownerAuth := standardMiddleware.Append(app.JWTMiddlewareWithRole("owner"))
	userAuth := standardMiddleware.Append(app.JWTMiddlewareWithRole(""))

	mux := pat.New()

	// Payments
	mux.Post("/payments/create", tenantAuth.ThenFunc(app.paymentHandler.CreatePayment))
	mux.Post("/payments/confirm", tenantAuth.ThenFunc(app.paymentHandler.ConfirmPayment))
	mux.Post("/payments/verify", ownerAuth.ThenFunc(app.paymentHandler.VerifyPayment))
	mux.Post("/payments/refund", ownerAuth.ThenFunc(app.paymentHandler.RefundPayment))
	mux.Get("/payments/pending", ownerAuth.ThenFunc(app.paymentHandler.PendingPayments))
	mux.Get("/payments/:id/audit", userAuth.ThenFunc(app.paymentHandler.AuditTrail))

	// External confirmation channel; authenticated by API key, not JWT.
	mux.Post("/payments/webhook", standardMiddleware.ThenFunc(app.paymentHandler.Webhook))

	// Payment status events
	mux.Get("/ws", userAuth.ThenFunc(app.WebSocketHandler))

	return mux
}
