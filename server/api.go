package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"

	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/store/kvstore"
	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack"
)

// settingsResponse is the effective configuration as returned by the API.
type settingsResponse struct {
	Prefix                     string `json:"prefix"`
	NormalUserCharLimit        int    `json:"normalUserCharLimit"`
	ManageMessageUserCharLimit int    `json:"manageMessageUserCharLimit"`
}

type patternResponse struct {
	Name     string `json:"name"`
	Regexp   string `json:"regexp"`
	Strategy string `json:"strategy"`
}

type previewRequest struct {
	URL string `json:"url"`
}

type previewResponse struct {
	Text   string `json:"text"`
	Failed bool   `json:"failed"`
}

// ServeHTTP handles the plugin REST API.
// The root URL is currently <siteUrl>/plugins/com.fmartingr.text-unpacker/api/v1/.
func (p *Plugin) ServeHTTP(c *plugin.Context, w http.ResponseWriter, r *http.Request) {
	router := mux.NewRouter()

	// Middleware to require that the user is logged in
	router.Use(p.MattermostAuthorizationRequired)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()

	apiRouter.HandleFunc("/config", p.SystemAdminRequired(p.GetConfig)).Methods(http.MethodGet)
	apiRouter.HandleFunc("/config", p.SystemAdminRequired(p.UpdateConfig)).Methods(http.MethodPost)
	apiRouter.HandleFunc("/config", p.SystemAdminRequired(p.ResetConfig)).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/patterns", p.GetPatterns).Methods(http.MethodGet)
	apiRouter.HandleFunc("/preview", p.Preview).Methods(http.MethodPost)

	router.ServeHTTP(w, r)
}

func (p *Plugin) MattermostAuthorizationRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("Mattermost-User-ID")
		if userID == "" {
			// Mattermost adds this header for authenticated requests
			p.API.LogWarn("Missing Mattermost-User-ID header in request", "path", r.URL.Path, "method", r.Method)
			http.Error(w, "Not authorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SystemAdminRequired rejects requests from users who are not system admins.
func (p *Plugin) SystemAdminRequired(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("Mattermost-User-ID")

		user, appErr := p.API.GetUser(userID)
		if appErr != nil || !user.IsInRole(model.SystemAdminRoleId) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next(w, r)
	}
}

// GetConfig returns the effective plugin settings (admin only)
func (p *Plugin) GetConfig(w http.ResponseWriter, r *http.Request) {
	p.writeJSON(w, http.StatusOK, newSettingsResponse(p.getConfiguration()))
}

// UpdateConfig merges the request into the stored admin override of the
// plugin settings (admin only). Fields left out of the request keep their
// current value.
func (p *Plugin) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var request kvstore.SettingsOverride
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Check the result before persisting anything.
	candidate := p.getConfiguration().Clone()
	candidate.applyOverride(&request)
	if err := candidate.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if p.kvstore == nil {
		http.Error(w, "Plugin is not active", http.StatusServiceUnavailable)
		return
	}

	stored, err := p.kvstore.GetSettingsOverride()
	if err != nil {
		p.API.LogError("Failed to load settings override from KV store", "error", err.Error())
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}

	var override kvstore.SettingsOverride
	if stored != nil {
		override = *stored
	}
	override.Merge(request)

	if err := p.kvstore.SaveSettingsOverride(&override); err != nil {
		p.API.LogError("Failed to save settings override to KV store", "error", err.Error())
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	p.reloadAndWriteConfig(w)
}

// ResetConfig removes the admin override so the plugin settings apply again
// (admin only).
func (p *Plugin) ResetConfig(w http.ResponseWriter, r *http.Request) {
	if p.kvstore == nil {
		http.Error(w, "Plugin is not active", http.StatusServiceUnavailable)
		return
	}

	if err := p.kvstore.DeleteSettingsOverride(); err != nil {
		p.API.LogError("Failed to delete settings override from KV store", "error", err.Error())
		http.Error(w, "Failed to reset settings", http.StatusInternalServerError)
		return
	}

	p.reloadAndWriteConfig(w)
}

func (p *Plugin) reloadAndWriteConfig(w http.ResponseWriter) {
	if err := p.OnConfigurationChange(); err != nil {
		p.API.LogError("Failed to reload configuration", "error", err.Error())
		http.Error(w, "Failed to reload settings", http.StatusInternalServerError)
		return
	}

	p.writeJSON(w, http.StatusOK, newSettingsResponse(p.getConfiguration()))
}

// GetPatterns lists the recognised URL shapes in the order they are tried.
func (p *Plugin) GetPatterns(w http.ResponseWriter, r *http.Request) {
	patterns := unpack.Patterns()
	response := make([]patternResponse, 0, len(patterns))
	for _, pattern := range patterns {
		response = append(response, patternResponse{
			Name:     pattern.Name,
			Regexp:   pattern.Regexp.String(),
			Strategy: pattern.Strategy.String(),
		})
	}

	p.writeJSON(w, http.StatusOK, response)
}

// Preview resolves a URL and returns the text that would be posted for a
// normal user, without posting it.
func (p *Plugin) Preview(w http.ResponseWriter, r *http.Request) {
	var request previewRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.URL == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if p.dispatcher == nil {
		http.Error(w, "Plugin is not active", http.StatusServiceUnavailable)
		return
	}

	outcome, err := p.dispatcher.Resolve(r.Context(), unpack.NormalizeURL(request.URL))
	if err != nil {
		p.API.LogWarn("Failed to resolve preview", "url", request.URL, "error", err.Error())
		http.Error(w, "Failed to fetch content", http.StatusBadGateway)
		return
	}
	if outcome == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	config := p.getConfiguration()
	p.writeJSON(w, http.StatusOK, previewResponse{
		Text:   unpack.Format(outcome, config.NormalUserCharLimit, unpack.MattermostMentions),
		Failed: outcome.Failed,
	})
}

func (p *Plugin) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		p.API.LogError("Failed to encode response", "error", err.Error())
	}
}

func newSettingsResponse(c *configuration) settingsResponse {
	return settingsResponse{
		Prefix:                     c.Prefix,
		NormalUserCharLimit:        c.NormalUserCharLimit,
		ManageMessageUserCharLimit: c.ManageMessageUserCharLimit,
	}
}
