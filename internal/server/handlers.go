package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/api/schemas"
	"github.com/xkilldash9x/campus-nav/internal/campus"
	"github.com/xkilldash9x/campus-nav/internal/labels"
	"github.com/xkilldash9x/campus-nav/internal/navigation"
	"github.com/xkilldash9x/campus-nav/internal/routing"
	"github.com/xkilldash9x/campus-nav/internal/search"
	"github.com/xkilldash9x/campus-nav/internal/tags"
)

// maxImportBytes bounds import payloads read from request bodies.
const maxImportBytes = 4 << 20

// apiResponse is the standard JSON envelope for every endpoint.
type apiResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Handlers holds the HTTP handlers and the services they delegate to.
type Handlers struct {
	log        *zap.Logger
	graph      *campus.Graph
	directory  *campus.Directory
	calculator *routing.Calculator
	navigator  *navigation.Navigator
	tagManager *tags.Manager
	tagSearch  *tags.SearchService
	labels     *labels.Manager
	search     *search.Service
}

// NewHandlers creates the handler set.
func NewHandlers(
	logger *zap.Logger,
	graph *campus.Graph,
	directory *campus.Directory,
	calculator *routing.Calculator,
	navigator *navigation.Navigator,
	tagManager *tags.Manager,
	tagSearch *tags.SearchService,
	labelManager *labels.Manager,
	searchService *search.Service,
) *Handlers {
	return &Handlers{
		log:        logger.Named("handlers"),
		graph:      graph,
		directory:  directory,
		calculator: calculator,
		navigator:  navigator,
		tagManager: tagManager,
		tagSearch:  tagSearch,
		labels:     labelManager,
		search:     searchService,
	}
}

// RegisterRoutes mounts every endpoint onto the router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.HandleHealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/buildings", h.HandleListBuildings)
		r.Get("/buildings/{name}", h.HandleGetBuilding)
		r.Get("/route", h.HandleRoute)
		r.Get("/navigate", h.HandleNavigate)
		r.Get("/search", h.HandleSearch)

		r.Get("/rooms", h.HandleListRooms)
		r.Get("/rooms/{block}", h.HandleRoomsByBlock)

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.HandleListTags)
			r.Post("/", h.HandleCreateTag)
			r.Get("/stats", h.HandleTagStatistics)
			r.Get("/search", h.HandleSearchByTag)
			r.Get("/export", h.HandleExportTags)
			r.Post("/import", h.HandleImportTags)
			r.Get("/tree", h.HandleTagTree)
			r.Patch("/{tagID}", h.HandleUpdateTag)
			r.Delete("/{tagID}", h.HandleDeleteTag)
			r.Post("/{tagID}/promote-children", h.HandlePromoteChildren)
		})

		r.Route("/tag-categories", func(r chi.Router) {
			r.Get("/", h.HandleListCategories)
			r.Post("/", h.HandleCreateCategory)
			r.Delete("/{categoryID}", h.HandleDeleteCategory)
		})

		r.Route("/room-tags", func(r chi.Router) {
			r.Get("/", h.HandleGetRoomTags)
			r.Post("/", h.HandleApplyTag)
			r.Delete("/", h.HandleRemoveTag)
		})

		r.Route("/labels", func(r chi.Router) {
			r.Get("/", h.HandleGetLabels)
			r.Post("/", h.HandleAddLabel)
			r.Delete("/", h.HandleRemoveLabel)
			r.Get("/search", h.HandleSearchLabels)
			r.Get("/export", h.HandleExportLabels)
			r.Post("/import", h.HandleImportLabels)
		})
	})
}

// HandleHealthCheck confirms the server is responsive.
func (h *Handlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// -- Campus and routing --

func (h *Handlers) HandleListBuildings(w http.ResponseWriter, r *http.Request) {
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"buildings": h.graph.Buildings(),
	})
}

func (h *Handlers) HandleGetBuilding(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info := h.graph.BuildingInfo(name)
	if info == nil {
		h.respondWithError(w, http.StatusNotFound, fmt.Sprintf("Building %q not found.", name))
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"building":  info,
		"neighbors": h.graph.Neighbors(name),
	})
}

func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		h.respondWithError(w, http.StatusBadRequest, "Both 'from' and 'to' query parameters are required.")
		return
	}

	route := h.calculator.FindRoute(from, to)
	if route == nil {
		h.respondWithError(w, http.StatusNotFound, "One or both locations are unknown.")
		return
	}
	h.respondWithSuccess(w, http.StatusOK, route)
}

func (h *Handlers) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		h.respondWithError(w, http.StatusBadRequest, "Both 'from' and 'to' query parameters are required.")
		return
	}

	route := h.navigator.CalculateRoomRoute(from, to)
	if route == nil {
		h.respondWithError(w, http.StatusNotFound, "One or both rooms could not be resolved.")
		return
	}
	h.respondWithSuccess(w, http.StatusOK, route)
}

func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := h.search.Search(query)
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

func (h *Handlers) HandleListRooms(w http.ResponseWriter, r *http.Request) {
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"rooms": h.directory.AllRooms(),
	})
}

func (h *Handlers) HandleRoomsByBlock(w http.ResponseWriter, r *http.Request) {
	block := chi.URLParam(r, "block")
	rooms := h.directory.RoomsByBlock(block)
	if floorParam := r.URL.Query().Get("floor"); floorParam != "" {
		floor, err := strconv.Atoi(floorParam)
		if err != nil {
			h.respondWithError(w, http.StatusBadRequest, "Invalid 'floor' query parameter.")
			return
		}
		rooms = h.directory.RoomsByFloor(block, floor)
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"block": block,
		"rooms": rooms,
	})
}

// -- Tags --

func (h *Handlers) HandleListTags(w http.ResponseWriter, r *http.Request) {
	if categoryID := r.URL.Query().Get("category"); categoryID != "" {
		h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
			"tags": h.tagManager.TagsByCategory(categoryID),
		})
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"tags": h.tagManager.AllTags(),
	})
}

type createTagRequest struct {
	Name        string `json:"name"`
	CategoryID  string `json:"categoryId"`
	ParentTagID string `json:"parentTagId,omitempty"`
}

func (h *Handlers) HandleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	tag, err := h.tagManager.CreateTag(r.Context(), req.Name, req.CategoryID, req.ParentTagID)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusCreated, tag)
}

type updateTagRequest struct {
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	ParentTagID *string `json:"parentTagId,omitempty"`
}

func (h *Handlers) HandleUpdateTag(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "tagID")

	var req updateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	err := h.tagManager.UpdateTag(r.Context(), tagID, tags.TagUpdate{
		Name:        req.Name,
		Color:       req.Color,
		ParentTagID: req.ParentTagID,
	})
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusOK, h.tagManager.Tag(tagID))
}

func (h *Handlers) HandleDeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "tagID")
	if err := h.tagManager.DeleteTag(r.Context(), tagID); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]string{"deleted": tagID})
}

func (h *Handlers) HandlePromoteChildren(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "tagID")
	if err := h.tagManager.PromoteChildren(r.Context(), tagID); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"tag":      tagID,
		"promoted": true,
	})
}

func (h *Handlers) HandleTagStatistics(w http.ResponseWriter, r *http.Request) {
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"statistics": h.tagManager.TagStatistics(),
	})
}

func (h *Handlers) HandleSearchByTag(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := h.tagSearch.SearchByTag(query)
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

func (h *Handlers) HandleExportTags(w http.ResponseWriter, r *http.Request) {
	raw, err := h.tagManager.ExportTags()
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="campus-tags.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (h *Handlers) HandleImportTags(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Failed to read request body.")
		return
	}
	if err := h.tagManager.ImportTags(r.Context(), payload); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]string{"message": "import merged"})
}

func (h *Handlers) HandleTagTree(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category")
	if categoryID == "" {
		h.respondWithError(w, http.StatusBadRequest, "The 'category' query parameter is required.")
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"tree": h.tagManager.HierarchyTree(categoryID),
	})
}

// -- Categories --

func (h *Handlers) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"categories": h.tagManager.AllCategories(),
	})
}

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

func (h *Handlers) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	category, err := h.tagManager.CreateCategory(r.Context(), req.Name, req.Color, req.Icon)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusCreated, category)
}

func (h *Handlers) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")
	if err := h.tagManager.DeleteCategory(r.Context(), categoryID); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]string{"deleted": categoryID})
}

// -- Room tag associations --

type roomTagRequest struct {
	Room  schemas.RoomRef `json:"room"`
	TagID string          `json:"tagId"`
}

func (h *Handlers) HandleGetRoomTags(w http.ResponseWriter, r *http.Request) {
	room, err := roomRefFromQuery(r)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"room": room,
		"tags": h.tagManager.RoomTags(room),
	})
}

func (h *Handlers) HandleApplyTag(w http.ResponseWriter, r *http.Request) {
	var req roomTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := h.tagManager.ApplyTagToRoom(r.Context(), req.Room, req.TagID); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"room": req.Room,
		"tags": h.tagManager.RoomTags(req.Room),
	})
}

func (h *Handlers) HandleRemoveTag(w http.ResponseWriter, r *http.Request) {
	var req roomTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := h.tagManager.RemoveTagFromRoom(r.Context(), req.Room, req.TagID); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"room": req.Room,
		"tags": h.tagManager.RoomTags(req.Room),
	})
}

// -- Labels --

type labelRequest struct {
	Room  schemas.RoomRef `json:"room"`
	Label string          `json:"label"`
}

func (h *Handlers) HandleGetLabels(w http.ResponseWriter, r *http.Request) {
	room, err := roomRefFromQuery(r)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"room":   room,
		"labels": h.labels.Labels(room),
	})
}

func (h *Handlers) HandleAddLabel(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := h.labels.AddLabel(r.Context(), req.Room, req.Label); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusCreated, map[string]interface{}{
		"room":   req.Room,
		"labels": h.labels.Labels(req.Room),
	})
}

func (h *Handlers) HandleRemoveLabel(w http.ResponseWriter, r *http.Request) {
	var req labelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := h.labels.RemoveLabel(r.Context(), req.Room, req.Label); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"room":   req.Room,
		"labels": h.labels.Labels(req.Room),
	})
}

func (h *Handlers) HandleSearchLabels(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := h.labels.SearchByLabel(query)
	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

func (h *Handlers) HandleExportLabels(w http.ResponseWriter, r *http.Request) {
	raw, err := h.labels.ExportLabels()
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="campus-labels.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (h *Handlers) HandleImportLabels(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Failed to read request body.")
		return
	}
	if err := h.labels.ImportLabels(r.Context(), payload); err != nil {
		h.respondWithServiceError(w, err)
		return
	}
	h.respondWithSuccess(w, http.StatusOK, map[string]string{"message": "import merged"})
}

// -- Helpers --

func roomRefFromQuery(r *http.Request) (schemas.RoomRef, error) {
	q := r.URL.Query()
	building := strings.TrimSpace(q.Get("building"))
	room := strings.TrimSpace(q.Get("room"))
	if building == "" || room == "" {
		return schemas.RoomRef{}, fmt.Errorf("both 'building' and 'room' query parameters are required")
	}
	floor := 0
	if floorParam := q.Get("floor"); floorParam != "" {
		parsed, err := strconv.Atoi(floorParam)
		if err != nil {
			return schemas.RoomRef{}, fmt.Errorf("invalid 'floor' query parameter")
		}
		floor = parsed
	}
	return schemas.RoomRef{Building: building, Floor: floor, Room: room}, nil
}

// respondWithServiceError maps the error taxonomy onto HTTP status codes:
// validation failures are the caller's fault, storage failures are ours.
func (h *Handlers) respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		h.respondWithError(w, http.StatusBadRequest, validationErr.Message)
		return
	}
	var storageErr *schemas.StorageError
	if errors.As(err, &storageErr) {
		h.log.Error("Storage failure", zap.Error(err))
		h.respondWithError(w, http.StatusInsufficientStorage, storageErr.Message)
		return
	}
	h.log.Error("Unhandled service error", zap.Error(err))
	h.respondWithError(w, http.StatusInternalServerError, "Internal server error.")
}

func (h *Handlers) respondWithError(w http.ResponseWriter, statusCode int, message string) {
	h.respondWithStatus(w, statusCode, apiResponse{Status: "error", Error: message})
}

func (h *Handlers) respondWithSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	h.respondWithStatus(w, statusCode, apiResponse{Status: "success", Data: data})
}

func (h *Handlers) respondWithStatus(w http.ResponseWriter, statusCode int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}
