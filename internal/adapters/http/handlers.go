package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"teamvideos/internal/adapters/http/middleware"
	"teamvideos/internal/application/orchestrators"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_error", "error", err.Error())
	}
}

// templatesDir is relative to the repository root; handler tests point it at
// the package directory.
var templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())

	funcMap := template.FuncMap{
		"currentUser": func() string { return sess.Username },
		"isLoggedIn":  func() bool { return ok },
		"isSiteAdmin": func() bool { return ok && sess.IsSiteAdmin() },
		"csrfToken":   func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// safeRedirect returns next when it is a local path, otherwise fallback.
func safeRedirect(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return fallback
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	next := safeRedirect(r.URL.Query().Get("next"), "/teams")
	if r.Method == "GET" {
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, next, http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{"Next": next})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	next = safeRedirect(r.FormValue("next"), next)

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		if !errors.Is(err, orchestrators.ErrInvalidCredentials) && !errors.Is(err, orchestrators.ErrAccountLocked) {
			internalError(w, err)
			return
		}
		renderTemplateStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Next":     next,
			"Username": r.FormValue("username"),
			"Error":    err.Error(),
		})
		return
	}

	token, err := sessions.Create(result.AccountID, result.Username, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleChangePassword handles GET (form) and POST (update) for /change-password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login?next=/change-password", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, "change_password.html", nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Form error", http.StatusBadRequest)
		return
	}
	if r.FormValue("new_password") != r.FormValue("confirm_password") {
		renderTemplateStatus(w, r, http.StatusBadRequest, "change_password.html", map[string]any{
			"Error": "New passwords do not match",
		})
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       session.AccountID,
		CurrentPassword: r.FormValue("current_password"),
		NewPassword:     r.FormValue("new_password"),
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	if err != nil {
		renderTemplateStatus(w, r, http.StatusBadRequest, "change_password.html", map[string]any{
			"Error": err.Error(),
		})
		return
	}
	http.Redirect(w, r, "/teams", http.StatusSeeOther)
}

// handleTeams lists every team.
func handleTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := stores.TeamStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if isHTMLRequest(r) {
		renderTemplate(w, r, "teams.html", map[string]any{"Teams": teams})
		return
	}
	type teamJSON struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	out := make([]teamJSON, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamJSON{Slug: t.Slug, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// registerRoutes binds every handler to its method and path pattern.
func registerRoutes(mux *http.ServeMux) {
	mux.Handle("GET /{$}", http.RedirectHandler("/teams", http.StatusSeeOther))
	mux.HandleFunc("GET /login", handleLogin)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)
	mux.HandleFunc("GET /change-password", handleChangePassword)
	mux.HandleFunc("POST /change-password", handleChangePassword)

	mux.HandleFunc("GET /teams", handleTeams)
	mux.HandleFunc("GET /teams/{slug}/videos", handleTeamVideos)
	mux.Handle("POST /teams/{slug}/videos", middleware.RequireAuth(http.HandlerFunc(handleAddVideo)))
	mux.Handle("GET /teams/{slug}/videos/new", middleware.RequireAuth(http.HandlerFunc(handleNewVideoPage)))
	mux.HandleFunc("GET /teams/{slug}/tasks", handleTeamTasks)
	mux.HandleFunc("GET /teams/{slug}/videos/{id}/edit", handleEditVideoPage)
	mux.HandleFunc("POST /teams/{slug}/videos/{id}/edit", handleEditVideoPage)
	mux.Handle("POST /teams/{slug}/videos/{id}/remove", middleware.RequireAuth(http.HandlerFunc(handleRemoveVideo)))

	mux.Handle("PUT /api/videos/{id}", middleware.RequireAuth(http.HandlerFunc(handleUpdateVideo)))
	mux.Handle("PATCH /api/teams/{slug}/policy", middleware.RequireAuth(http.HandlerFunc(handleSetTeamPolicy)))
	mux.Handle("GET /api/teams/{slug}/members", middleware.RequireAuth(http.HandlerFunc(handleTeamMembers)))
	mux.Handle("GET /api/teams/{slug}/activity", middleware.RequireAuth(http.HandlerFunc(handleTeamActivity)))

	mux.Handle("POST /api/index/refresh", middleware.RequireSiteAdmin(http.HandlerFunc(handleRefreshIndex)))
	mux.Handle("GET /api/admin/perf", middleware.RequireSiteAdmin(http.HandlerFunc(handleAdminPerf)))
	mux.Handle("GET /api/admin/accounts", middleware.RequireSiteAdmin(http.HandlerFunc(handleAdminAccounts)))
}
