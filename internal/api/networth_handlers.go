package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mmynk/wealthwise/internal/authz"
	"github.com/mmynk/wealthwise/internal/httputil"
	"github.com/mmynk/wealthwise/internal/middleware"
	"github.com/mmynk/wealthwise/internal/models"
	"github.com/mmynk/wealthwise/internal/networth"
	"github.com/mmynk/wealthwise/internal/observability"
	"github.com/mmynk/wealthwise/internal/tenant"
)

const maxBodyBytes = 1 << 20

// resource is a collection of items of one type.
type resource struct {
	path     string
	itemType models.ItemType
}

var resources = []resource{
	{path: "assets", itemType: models.ItemTypeAsset},
	{path: "liabilities", itemType: models.ItemTypeLiability},
}

// NetWorthHandlers serves the /api/v1/networth routes.
type NetWorthHandlers struct {
	gate    *networth.Gate
	metrics *observability.Metrics
}

// NewNetWorthHandlers creates the handlers.
func NewNetWorthHandlers(gate *networth.Gate, metrics *observability.Metrics) *NetWorthHandlers {
	return &NetWorthHandlers{gate: gate, metrics: metrics}
}

// RegisterRoutes registers the net worth routes. Each route declares its own
// method to permission map; methods outside the map are answered with 405.
func (h *NetWorthHandlers) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1/networth").Subrouter()

	guard := func(perms authz.MethodPermissions, fn http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(perms, h.metrics)(fn)
	}

	// Every route answers with and without a trailing slash. StrictSlash
	// would redirect, which clients do not follow for POST.
	handle := func(path string, h http.Handler) {
		api.Handle(path, h)
		api.Handle(path+"/", h)
	}

	handle("/summary", guard(authz.ReadOnlyPermissions, h.summary))
	handle("/ratios", guard(authz.ReadOnlyPermissions, h.ratios))

	for _, res := range resources {
		res := res
		handle("/"+res.path, guard(authz.CollectionPermissions, func(w http.ResponseWriter, r *http.Request) {
			h.collection(w, r, res)
		}))
		// Non-numeric IDs fall through to the router's 404.
		handle("/"+res.path+"/{id:[0-9]+}", guard(authz.DetailPermissions, func(w http.ResponseWriter, r *http.Request) {
			h.detail(w, r, res)
		}))
	}
}

func (h *NetWorthHandlers) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.gate.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (h *NetWorthHandlers) ratios(w http.ResponseWriter, r *http.Request) {
	ratios, err := h.gate.Ratios(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRatiosResponse(ratios))
}

func (h *NetWorthHandlers) collection(w http.ResponseWriter, r *http.Request, res resource) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.list(w, r, res)
	case http.MethodPost:
		h.create(w, r, res)
	}
}

func (h *NetWorthHandlers) detail(w http.ResponseWriter, r *http.Request, res resource) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		httputil.WriteNotFound(w, "Item not found")
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		item, err := h.gate.Get(r.Context(), res.itemType, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toItemResponse(item))
	case http.MethodPut, http.MethodPatch:
		fields, ok := readFields(w, r)
		if !ok {
			return
		}
		item, err := h.gate.Update(r.Context(), res.itemType, id, fields)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toItemResponse(item))
	case http.MethodDelete:
		if err := h.gate.Delete(r.Context(), res.itemType, id); err != nil {
			writeError(w, r, err)
			return
		}
		httputil.WriteNoContent(w)
	}
}

// queryInt returns the positive integer query parameter key, or def.
func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func pageLink(page, pageSize int) interface{} {
	if page == 0 {
		return nil
	}
	return fmt.Sprintf("?page=%d&page_size=%d", page, pageSize)
}

func (h *NetWorthHandlers) list(w http.ResponseWriter, r *http.Request, res resource) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", networth.DefaultPageSize)

	p, err := h.gate.List(r.Context(), res.itemType, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]ItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = toItemResponse(item)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":    p.Count,
		"next":     pageLink(p.Next, p.PageSize),
		"previous": pageLink(p.Previous, p.PageSize),
		res.path:   items,
	})
}

func (h *NetWorthHandlers) create(w http.ResponseWriter, r *http.Request, res resource) {
	fields, ok := readFields(w, r)
	if !ok {
		return
	}
	item, err := h.gate.Create(r.Context(), res.itemType, fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toItemResponse(item))
}

// readFields decodes the request body, writing a 400 on failure.
func readFields(w http.ResponseWriter, r *http.Request) (networth.Fields, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteBadRequest(w, "Could not read request body")
		return nil, false
	}
	fields, err := networth.DecodeFields(body)
	if err != nil {
		httputil.WriteBadRequest(w, "Request body must be a JSON object")
		return nil, false
	}
	return fields, true
}

// writeError maps gate errors to responses. Unknown errors are logged and
// reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if httputil.WriteAuthzError(w, err) {
		return
	}

	var verr *networth.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.WriteError(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error:  httputil.TitleValidation,
			Errors: verr.Errors,
		})
	case errors.Is(err, networth.ErrNotFound):
		httputil.WriteNotFound(w, "No item matches the given query")
	default:
		slog.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"user_id", tenant.UserID(r.Context()),
			"error", err,
		)
		httputil.WriteInternalError(w)
	}
}
