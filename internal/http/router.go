package http

import (
	"net/http"

	"crm-backend/internal/config"
	"crm-backend/internal/handlers"
	"crm-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Contact  *handlers.ContactHandler
	Enquiry  *handlers.EnquiryHandler
	Booking  *handlers.BookingHandler
	Invoice  *handlers.InvoiceHandler
	Activity *handlers.ActivityHandler
}

// NewRouter wires every route and the middleware chain. Metrics and
// request logging run inside the router so the route template is
// available for labels; recovery and CORS wrap the whole thing.
func NewRouter(cfg *config.Config, h Handlers) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware, middleware.RequestLogging)

	r.HandleFunc("/health", h.Health.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	contacts := api.PathPrefix("/contacts").Subrouter()
	contacts.HandleFunc("", h.Contact.CreateContact).Methods("POST")
	contacts.HandleFunc("", h.Contact.ListContacts).Methods("GET")
	contacts.HandleFunc("/{id:[0-9]+}", h.Contact.GetContact).Methods("GET")
	contacts.HandleFunc("/{id:[0-9]+}", h.Contact.UpdateContact).Methods("PATCH")

	enquiries := api.PathPrefix("/enquiries").Subrouter()
	enquiries.HandleFunc("", h.Enquiry.CreateEnquiry).Methods("POST")
	enquiries.HandleFunc("", h.Enquiry.ListEnquiries).Methods("GET")
	enquiries.HandleFunc("/{id:[0-9]+}", h.Enquiry.GetEnquiry).Methods("GET")
	enquiries.HandleFunc("/{id:[0-9]+}", h.Enquiry.UpdateEnquiry).Methods("PATCH")

	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.HandleFunc("", h.Booking.CreateBooking).Methods("POST")
	bookings.HandleFunc("", h.Booking.ListBookings).Methods("GET")
	bookings.HandleFunc("/{id:[0-9]+}", h.Booking.GetBooking).Methods("GET")
	bookings.HandleFunc("/{id:[0-9]+}", h.Booking.UpdateBooking).Methods("PATCH")

	invoices := api.PathPrefix("/invoices").Subrouter()
	invoices.HandleFunc("", h.Invoice.CreateInvoice).Methods("POST")
	invoices.HandleFunc("", h.Invoice.ListInvoices).Methods("GET")
	invoices.HandleFunc("/from-booking", h.Invoice.CreateFromBooking).Methods("POST")
	invoices.HandleFunc("/{id:[0-9]+}", h.Invoice.GetInvoice).Methods("GET")
	invoices.HandleFunc("/{id:[0-9]+}", h.Invoice.UpdateDraft).Methods("PATCH")
	invoices.HandleFunc("/{id:[0-9]+}", h.Invoice.DeleteInvoice).Methods("DELETE")
	invoices.HandleFunc("/{id:[0-9]+}/send", h.Invoice.Send).Methods("POST")
	invoices.HandleFunc("/{id:[0-9]+}/cancel", h.Invoice.Cancel).Methods("POST")
	invoices.HandleFunc("/{id:[0-9]+}/overdue", h.Invoice.MarkOverdue).Methods("POST")
	invoices.HandleFunc("/{id:[0-9]+}/line-items", h.Invoice.AddLineItem).Methods("POST")
	invoices.HandleFunc("/{id:[0-9]+}/line-items/{item_id:[0-9]+}", h.Invoice.UpdateLineItem).Methods("PATCH")
	invoices.HandleFunc("/{id:[0-9]+}/line-items/{item_id:[0-9]+}", h.Invoice.DeleteLineItem).Methods("DELETE")
	invoices.HandleFunc("/{id:[0-9]+}/payments", h.Invoice.RecordPayment).Methods("POST")
	invoices.HandleFunc("/{id:[0-9]+}/payments", h.Invoice.ListPayments).Methods("GET")
	invoices.HandleFunc("/{id:[0-9]+}/payments/{payment_id:[0-9]+}", h.Invoice.DeletePayment).Methods("DELETE")

	api.HandleFunc("/activities/feed", h.Activity.GetFeed).Methods("GET")
	api.HandleFunc("/activities/{kind}/{id:[0-9]+}", h.Activity.ListEntityActivities).Methods("GET")

	var handler http.Handler = r
	handler = middleware.CORS(cfg)(handler)
	handler = middleware.PanicRecovery(handler)

	return handler
}
