package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"saba/internal/backend"
	"saba/internal/log"
	"saba/internal/metrics"
	"saba/internal/middleware/ratelimit"
	"saba/internal/middleware/security"
	"saba/internal/middleware/trace"
	"saba/internal/payroll"
	"saba/internal/services"
)

// Server serves the ledger views as JSON plus table exports.
type Server struct {
	http.Server

	ledger  *services.Ledger
	ready   func(ctx context.Context) error
	rates   payroll.Rates
	limiter *ratelimit.Limiter
	logger  *log.Logger
	started time.Time

	now func() time.Time

	shutdownOnce sync.Once
}

// Options tune a Server. Metrics and Logger may be nil.
type Options struct {
	// PayrollRates are used when a payroll request does not override them.
	PayrollRates payroll.Rates
	RateLimit    ratelimit.Config
	Metrics      *metrics.Metrics
	Logger       *log.Logger
}

// NewServer configures routes and middleware around the ledger in res.
func NewServer(addr string, res *backend.BackendResult, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		ledger:  res.Ledger,
		ready:   res.Ready,
		rates:   opts.PayrollRates,
		limiter: ratelimit.NewLimiter(opts.RateLimit, opts.Metrics),
		logger:  logger,
		started: time.Now(),
		now:     time.Now,
	}

	detector := security.NewDetector(opts.Metrics, logger)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(detector.ExtractClientIP, logger, opts.Metrics)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	r.Use(tracer.Middleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)

	api.HandleFunc("/sales", s.handleListSales).Methods(http.MethodGet)
	api.HandleFunc("/sales", s.handleCreateSale).Methods(http.MethodPost)
	api.HandleFunc("/sales/stats", s.handleSalesStats).Methods(http.MethodGet)
	api.HandleFunc("/dishes", s.handleListDishes).Methods(http.MethodGet)
	api.HandleFunc("/dishes", s.handleSaveDish).Methods(http.MethodPost)

	api.HandleFunc("/purchases", s.handleListPurchases).Methods(http.MethodGet)
	api.HandleFunc("/purchases", s.handleCreatePurchase).Methods(http.MethodPost)
	api.HandleFunc("/purchases/stats", s.handlePurchaseStats).Methods(http.MethodGet)
	api.HandleFunc("/purchases/{id}", s.handleUpdatePurchase).Methods(http.MethodPut)
	api.HandleFunc("/purchases/{id}", s.handleDeletePurchase).Methods(http.MethodDelete)

	api.HandleFunc("/stock", s.handleListStock).Methods(http.MethodGet)
	api.HandleFunc("/stock", s.handleSetStockItem).Methods(http.MethodPost)
	api.HandleFunc("/stock/low", s.handleLowStock).Methods(http.MethodGet)

	api.HandleFunc("/recipes", s.handleListRecipes).Methods(http.MethodGet)
	api.HandleFunc("/recipes", s.handleSaveRecipe).Methods(http.MethodPost)
	api.HandleFunc("/recipes/{name}", s.handleGetRecipe).Methods(http.MethodGet)
	api.HandleFunc("/recipes/{name}/requirements", s.handleRequirements).Methods(http.MethodGet)
	api.HandleFunc("/recipes/{name}/shopping-list", s.handleShoppingList).Methods(http.MethodGet)
	api.HandleFunc("/recipes/{name}/cook", s.handleCook).Methods(http.MethodPost)

	api.HandleFunc("/employees", s.handleListEmployees).Methods(http.MethodGet)
	api.HandleFunc("/employees", s.handleSaveEmployee).Methods(http.MethodPost)
	api.HandleFunc("/schedule", s.handleGetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/schedule", s.handleReplaceSchedule).Methods(http.MethodPut)
	api.HandleFunc("/schedule/shifts", s.handleSetShift).Methods(http.MethodPost)
	api.HandleFunc("/payroll", s.handlePayroll).Methods(http.MethodGet)

	api.HandleFunc("/treasury", s.handleTreasury).Methods(http.MethodGet)
	api.HandleFunc("/treasury", s.handleCreateMovement).Methods(http.MethodPost)
	api.HandleFunc("/bank-balances", s.handleBankBalances).Methods(http.MethodGet)
	api.HandleFunc("/bank-balances", s.handleSetBankBalance).Methods(http.MethodPost)

	r.HandleFunc("/export/payroll.pdf", s.handleExportPayrollPDF).Methods(http.MethodGet)
	r.HandleFunc("/export/{kind:[a-z_]+}.{format:csv|xlsx}", s.handleExport).Methods(http.MethodGet)

	var h http.Handler = r
	h = s.limiter.Middleware(detector.ExtractClientIP)(h)
	h = headers.Middleware(h)
	h = detector.Middleware(h)
	s.Handler = h

	return s
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
