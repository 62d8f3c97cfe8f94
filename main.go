package main

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/inkwell-blog/inkwell/internal/cache"
	"github.com/inkwell-blog/inkwell/internal/codec"
	"github.com/inkwell-blog/inkwell/internal/config"
	"github.com/inkwell-blog/inkwell/internal/db"
	"github.com/inkwell-blog/inkwell/internal/editor"
	"github.com/inkwell-blog/inkwell/internal/logger"
	"github.com/inkwell-blog/inkwell/internal/media"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/render"
	"github.com/inkwell-blog/inkwell/internal/repository"
	"github.com/inkwell-blog/inkwell/internal/routes"
	"github.com/inkwell-blog/inkwell/internal/sse"
	"github.com/inkwell-blog/inkwell/internal/theme"
	"github.com/inkwell-blog/inkwell/internal/util"
)

//go:embed static/* templates/*
var content embed.FS

var database db.DB = db.NewSQLite()

var clients = sse.NewSSEClients()

var postRepository repository.PostRepository = repository.NewDBPostRepository(database)

var editorRepo editor.Repository = editor.NewDBRepository(database)

var editorHandler *editor.Handler

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Error loading .env file")
	}

	configPath := os.Getenv("INKWELL_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := config.LoadConfig(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	l := logger.New(config.AppConfig.Logging.Level)
	config.SetLogger(l)
	db.SetLogger(l)
	render.SetLogger(l)
	editor.SetLogger(l)
	media.SetLogger(l)
	repository.SetLogger(l)

	if err := database.InitDB(); err != nil {
		l.Fatal().Err(err).Msg("Failed to initialize database")
	}

	editorHandler = editor.NewHandler(editorRepo, newUploader(), clients, &content)

	// Calculate the hash of static content
	static, _ := fs.Sub(content, config.StaticLocalDir)
	fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if !d.IsDir() {
			cache.SetStaticHash(config.StaticUrlPath+path, util.ContentHash([]byte(path)))
		}
		return nil
	})

	mux := http.NewServeMux()

	mux.HandleFunc(routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})

	mux.HandleFunc(routes.ThemeOppositeIcon, func(w http.ResponseWriter, r *http.Request) {
		currTheme := r.URL.Query().Get("theme")
		if currTheme == "" {
			http.Error(w, "theme required", http.StatusBadRequest)
			return
		}

		w.Header().Set(config.HCType, config.CTypeHTML)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(theme.GetThemeIcon(currTheme)))
	})

	mux.Handle(config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(static))))
	mux.HandleFunc(config.PostsUrlPath, servePost)
	mux.HandleFunc(routes.ThemeToggle, serveThemePostToggle)
	mux.HandleFunc(routes.SyntaxThemeSet, serveSyntaxThemePostSet)
	mux.HandleFunc(routes.SyntaxThemeGet, serveSyntaxThemeGetTheme)
	mux.HandleFunc(routes.SSEPath, eventsHandler)
	mux.HandleFunc(routes.RootPath, serveIndex)

	mux.HandleFunc(routes.NewPost, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:  config.CookieDraftID,
			Value: "",
			Path:  "/",
		})
		w.Header().Add(config.HHxRedirect, routes.NewPostEdit)
		http.Redirect(w, r, routes.NewPostEdit, http.StatusFound)
	})

	mux.HandleFunc(routes.NewPostEdit, editorHandler.ServeNewDraftEditor)
	mux.HandleFunc(routes.EditorPreview, editorHandler.ServeEditorPreview)

	mux.HandleFunc("POST "+routes.APIDraftBlocks, editorHandler.HandleInsert)
	mux.HandleFunc(routes.APIDraftBlock, editorHandler.HandleBlock)
	mux.HandleFunc("PATCH "+routes.APIDraftBlockStyles, editorHandler.HandleStyles)
	mux.HandleFunc("POST "+routes.APIDraftBlockImage, editorHandler.HandleUpload)
	mux.HandleFunc("POST "+routes.APIDraftBlockList, editorHandler.HandleListKey)
	mux.HandleFunc("POST "+routes.APIDraftDrop, editorHandler.HandleDrop)

	mux.HandleFunc(routes.APIPosts, handlePostSave)

	if config.AppConfig.Media.Backend == "fs" {
		mux.Handle(config.AppConfig.Media.PublicBaseURL,
			http.StripPrefix(config.AppConfig.Media.PublicBaseURL,
				http.FileServer(http.Dir(config.AppConfig.Media.LocalDir))))
	}

	go postRepository.Init()
	postRepository.SetReloadNotifier(handleReloadPost)

	addr := config.AppConfig.Server.Host + ":" + config.AppConfig.Server.Port
	l.Info().Str("addr", addr).Msg("Server listening")
	l.Fatal().Err(http.ListenAndServe(addr, cacheIt(secureHeaders(mux.ServeHTTP)))).Msg("Server stopped")
}

func newUploader() media.Uploader {
	cfg := config.AppConfig.Media
	if cfg.Backend == "s3" {
		return media.NewS3Uploader(
			os.Getenv("S3_ACCESS_KEY_ID"),
			os.Getenv("S3_ACCESS_KEY_SECRET"),
			cfg.Endpoint,
			cfg.Bucket,
			cfg.PublicBaseURL,
		)
	}
	return media.NewFSUploader(cfg.LocalDir, cfg.PublicBaseURL)
}

// deriveTitle picks the first heading's text as the post title so a
// title never has to be entered twice.
func deriveTitle(doc model.Document) string {
	for _, b := range doc.Blocks {
		if heading, ok := b.Data.(model.HeadingData); ok && heading.Text != "" {
			return heading.Text
		}
	}
	return "Untitled - " + time.Now().UTC().Format("2006-01-02")
}

// handlePostSave publishes a draft as a post (POST) or replaces a
// published post's content (PUT). The body is the encoded document.
func handlePostSave(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		draftID := r.PathValue("id")

		draft, err := editorRepo.GetDraft(editor.DraftID(draftID))
		if err != nil {
			http.Error(w, config.ErrDraftNotFound, http.StatusNotFound)
			return
		}

		doc := codec.Decode(draft.Content)
		encoded, err := codec.Encode(doc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		post := postRepository.NewPost()
		post.Content = encoded
		post.Title = deriveTitle(doc)

		if err := postRepository.SavePost(post); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		editorRepo.DeleteDraft(editor.DraftID(draftID))

		w.Header().Set(config.HCType, config.CTypeJSON)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"id":%q}`, post.ID)
	case http.MethodPut:
		postID := model.PostID(r.PathValue("id"))

		post, err := postRepository.ReadPost(postID)
		if err != nil {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}

		content := []byte(r.FormValue("content"))
		doc := codec.Decode(content)
		encoded, err := codec.Encode(doc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		post.Content = encoded
		post.Title = deriveTitle(doc)

		if err := postRepository.SetPostContent(post); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

func handleReloadPost(postID model.PostID) {
	cache.ClearRenderedDocumentCache()
	clients.Broadcast(postID, "refresh")
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	posts := postRepository.GetPostList()

	tmpl, err := template.ParseFS(content, config.TemplatesLocalDir+"/"+config.TemplateLayout, config.TemplatesLocalDir+"/"+config.TemplateIndex)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		SiteName string
		Posts    []model.Post
	}{
		SiteName: config.AppConfig.Site.Name,
		Posts:    posts,
	}

	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func servePost(w http.ResponseWriter, r *http.Request) {
	postID := strings.TrimPrefix(r.URL.Path, config.PostsUrlPath)
	if postID == "" {
		http.NotFound(w, r)
		return
	}

	post, err := postRepository.ReadPost(model.PostID(postID))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	doc := codec.Decode(post.Content)
	body := render.DocumentCached(doc, post.ContentHash, theme.GetSyntaxThemeFromRequest(r))

	data := struct {
		Title string
		Body  template.HTML
	}{
		Title: post.Title,
		Body:  template.HTML(body),
	}

	tmpl, err := template.ParseFS(content, config.TemplatesLocalDir+"/"+config.TemplateLayout, config.TemplatesLocalDir+"/"+config.TemplatePost)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func serveThemePostToggle(w http.ResponseWriter, r *http.Request) {
	currentTheme := theme.GetThemeFromRequest(r)

	newTheme := config.DefaultTheme
	if currentTheme == config.DarkTheme {
		newTheme = config.LightTheme
	}

	http.SetCookie(w, &http.Cookie{
		Name:  config.CookieTheme,
		Value: newTheme,
		Path:  "/",
	})

	syntaxTheme := theme.GetDefaultSyntaxTheme(newTheme)
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil {
		syntaxTheme = cookie.Value
	}

	w.Header().Set("Hx-Trigger", fmt.Sprintf(`{"themeChanged":{"value":"%s","syntaxTheme":"%s"}}`, newTheme, syntaxTheme))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(newTheme)))
}

func serveSyntaxThemePostSet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	currTheme := r.FormValue("syntax-theme-select")
	if currTheme == "" {
		http.Error(w, "theme required", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieSyntaxTheme,
		Value:    currTheme,
		Path:     "/",
		HttpOnly: true,
	})

	themeStyle := []byte(theme.GenerateSyntaxCSS(currTheme))
	w.WriteHeader(http.StatusOK)
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, util.ContentHash(themeStyle))
	w.Write(themeStyle)
}

func serveSyntaxThemeGetTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	currTheme := r.PathValue("theme")

	themeStyle := []byte(theme.GenerateSyntaxCSS(currTheme))
	w.WriteHeader(http.StatusOK)
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, util.ContentHash(themeStyle))
	w.Write(themeStyle)
}

func eventsHandler(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("post")
	if postID == "" {
		http.Error(w, "Post parameter required", http.StatusBadRequest)
		return
	}

	w.Header().Set(config.HCType, "text/event-stream")
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	client := &sse.Client{
		Msg:    make(chan string, 1),
		PostID: model.PostID(postID),
	}
	clients.Add(client)
	defer clients.Delete(client)

	for {
		select {
		case msg := <-client.Msg:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func secureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		h(w, r)
	}
}

func cacheIt(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Vary", "Cookie")

		// Add etag header to response if it's a static file
		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		h(w, r)
	}
}
