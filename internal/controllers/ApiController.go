package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"adoptwatch/internal/backup"
	"adoptwatch/internal/codec"
	"adoptwatch/internal/fetch"
	"adoptwatch/internal/models"
	"adoptwatch/internal/providers"
	"adoptwatch/internal/services"
	"adoptwatch/internal/stores"
	"adoptwatch/internal/urlstate"

	json "github.com/goccy/go-json"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB
	maxBackupSize      = 16 << 20
)

type ApiController struct {
	logger  providers.Logger
	service services.EngineServiceInterface
}

func NewApiController(logger providers.Logger, service services.EngineServiceInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses. User-facing errors keep
// their message; anything unexpected is logged and hidden.
func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fetchErr *fetch.Error
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, backup.ErrInvalidJSON), errors.Is(err, backup.ErrUnrecognizedSchema),
		errors.Is(err, services.ErrUnknownTab), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, backup.ErrNewerVersion), errors.Is(err, stores.ErrPresetNameRequired),
		errors.Is(err, stores.ErrUnknownChecklistItem):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, stores.ErrPresetNameTaken):
		status = http.StatusConflict
	case errors.Is(err, stores.ErrPresetNotFound), errors.Is(err, fetch.ErrNotFound), errors.Is(err, errNotFound):
		status = http.StatusNotFound
	case errors.As(err, &fetchErr):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, status, errorResponse{Error: "Internal Server Error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

var (
	errBadRequest = errors.New("malformed request body")
	errNotFound   = errors.New("not found")
)

// readBody decodes a JSON request body into untyped values so the record
// codecs can normalize it.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errBadRequest
	}
	raw, err := codec.Decode(data)
	if err != nil {
		return nil, errBadRequest
	}
	obj, ok := codec.Object(raw)
	if !ok {
		return nil, errBadRequest
	}
	return obj, nil
}

func queryParams(r *http.Request) map[string]string {
	out := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func (ac *ApiController) GetListings(w http.ResponseWriter, r *http.Request) {
	view, err := ac.service.Listings(r.Context(), urlstate.Decode(queryParams(r)))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (ac *ApiController) GetListing(w http.ResponseWriter, r *http.Request) {
	tab := int64(-1)
	if v, ok := codec.Int(r.URL.Query().Get("tab")); ok {
		tab = v
	}
	res, err := ac.service.Detail(r.Context(), int(tab), r.PathValue("id"))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (ac *ApiController) GetFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.Favorites())
}

func (ac *ApiController) AddFavorite(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRequestBodySize)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	listing, ok := models.NormalizeListing(body)
	if !ok {
		ac.writeError(w, r, errBadRequest)
		return
	}
	if !ac.service.AddFavorite(listing) {
		ac.writeError(w, r, errors.New("favorite not saved"))
		return
	}
	writeJSON(w, http.StatusCreated, ac.service.Favorites())
}

func (ac *ApiController) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	if !ac.service.RemoveFavorite(r.PathValue("id")) {
		ac.writeError(w, r, errNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) SetDisclaimer(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRequestBodySize)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	accepted, ok := codec.Bool(body["accepted"])
	if !ok {
		ac.writeError(w, r, errBadRequest)
		return
	}
	ac.service.AcceptDisclaimer(accepted)
	writeJSON(w, http.StatusOK, ac.service.Favorites())
}

func (ac *ApiController) GetSeen(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.Seen())
}

func (ac *ApiController) MarkSeen(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRequestBodySize)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	id, ok := codec.ID(body["id"])
	if !ok {
		ac.writeError(w, r, errBadRequest)
		return
	}
	ac.service.MarkSeen(id, codec.Text(body["species"]))
	writeJSON(w, http.StatusOK, ac.service.Seen())
}

func (ac *ApiController) ClearSeen(w http.ResponseWriter, r *http.Request) {
	ac.service.ClearSeen()
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) SetSeenEnabled(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRequestBodySize)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	enabled, ok := codec.Bool(body["enabled"])
	if !ok {
		ac.writeError(w, r, errBadRequest)
		return
	}
	ac.service.SetSeenEnabled(enabled)
	writeJSON(w, http.StatusOK, ac.service.Seen())
}

func (ac *ApiController) GetPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.Presets())
}

func (ac *ApiController) SavePreset(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRequestBodySize)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	name, _ := body["name"].(string)
	tab, _ := codec.Int(body["selectedTab"])
	preset, err := ac.service.SavePreset(name, int(tab), models.NormalizeFilters(body["filters"]))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, preset)
}

func (ac *ApiController) DeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.DeletePreset(r.PathValue("id")); err != nil {
		ac.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetChecklist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.Checklist(r.PathValue("id")))
}

func (ac *ApiController) UpdateChecklist(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRequestBodySize)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	items := map[string]bool{}
	if rawItems, ok := codec.Object(body["items"]); ok {
		for id, v := range rawItems {
			done, ok := codec.Bool(v)
			if !ok {
				ac.writeError(w, r, errBadRequest)
				return
			}
			items[id] = done
		}
	}
	var notes *string
	if s, ok := body["notes"].(string); ok {
		notes = &s
	}
	list, err := ac.service.UpdateChecklist(r.PathValue("id"), items, notes)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (ac *ApiController) GetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.Preferences())
}

func (ac *ApiController) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRequestBodySize)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	var prefs *models.FitPreferences
	if p, ok := models.NormalizePreferences(body["preferences"]); ok {
		prefs = &p
	}
	var enabled *bool
	if b, ok := codec.Bool(body["enabled"]); ok {
		enabled = &b
	}
	writeJSON(w, http.StatusOK, ac.service.UpdatePreferences(prefs, enabled))
}

func (ac *ApiController) ClearNewMatches(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxRequestBodySize)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	tab, ok := codec.Int(body["tab"])
	if !ok {
		ac.writeError(w, r, errBadRequest)
		return
	}
	var species []string
	if list, ok := codec.Array(body["species"]); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				species = append(species, s)
			}
		}
	}
	if err := ac.service.ClearNewMatches(int(tab), species); err != nil {
		ac.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) ExportBackup(w http.ResponseWriter, r *http.Request) {
	payload := ac.service.Export()
	w.Header().Set("Content-Disposition", `attachment; filename="adoptwatch-backup-v`+strconv.Itoa(payload.Version)+`.json"`)
	writeJSON(w, http.StatusOK, payload)
}

func (ac *ApiController) ImportBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBackupSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		ac.writeError(w, r, errBadRequest)
		return
	}
	summary, err := ac.service.Import(data)
	if err != nil {
		ac.logger.Warnf(providers.TypePost, "backup rejected: %v", err)
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
