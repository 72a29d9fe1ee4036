package transport

import (
	"net/http"

	"ham-store/internal/images"
	"ham-store/internal/middleware"
	"ham-store/internal/money"
	"ham-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadSize bounds admin image uploads (10 MiB)
const maxUploadSize = 10 << 20

// AdminHandler handles the admin dashboard and image uploads
type AdminHandler struct {
	catalog  service.CatalogService
	orders   service.OrderService
	uploader *images.Uploader
	folder   string
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	catalog service.CatalogService,
	orders service.OrderService,
	uploader *images.Uploader,
	folder string,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalog:  catalog,
		orders:   orders,
		uploader: uploader,
		folder:   folder,
		logger:   logger,
	}
}

// RegisterRoutes registers all admin dashboard routes
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/stats", h.Stats)
		r.Get("/products/low-stock", h.LowStock)
		r.Get("/orders/recent", h.RecentOrders)
		r.Post("/uploads", h.UploadImage)
	})
}

// StatsResponse is the dashboard aggregates plus the revenue preformatted
// for the dashboard cards
type StatsResponse struct {
	service.DashboardStats
	FormattedRevenue string `json:"formattedRevenue"`
}

// Stats handles the dashboard aggregates. The figures come from
// independent queries and may be mutually inconsistent under concurrent
// writes; the dashboard tolerates that.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.catalog.DashboardStats(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, StatsResponse{
		DashboardStats:   stats,
		FormattedRevenue: money.FormatPrice(stats.TotalRevenue, ""),
	})
}

// LowStock handles the low-stock listing, most urgent first
func (h *AdminHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.LowStockProducts(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// RecentOrders handles the dashboard's recent orders widget
func (h *AdminHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.orders.RecentOrders(r.Context(), 10)
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// UploadImage forwards an admin-uploaded image to the CDN and returns its
// public URL
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), header.Filename, file, h.folder)
	if err != nil {
		h.logger.Error("Image upload failed", zap.Error(err), zap.String("filename", header.Filename))
		middleware.RespondWithError(w, http.StatusBadGateway, "image upload failed")
		return
	}

	h.logger.Info("Image uploaded", zap.String("url", url))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{"url": url})
}
