package editor

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/inkwell-blog/inkwell/internal/cache"
	"github.com/inkwell-blog/inkwell/internal/codec"
	"github.com/inkwell-blog/inkwell/internal/config"
	"github.com/inkwell-blog/inkwell/internal/media"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/render"
	"github.com/inkwell-blog/inkwell/internal/sse"
	"github.com/inkwell-blog/inkwell/internal/theme"
)

// Handler exposes the editing surface over HTTP. Each draft gets one
// live session; sessions persist their document back to the draft
// repository on every change notification.
type Handler struct {
	repo     Repository
	uploader media.Uploader
	clients  *sse.SSEClients

	sessions *cache.Cache[DraftID, *Session]

	fs *embed.FS
}

func NewHandler(repo Repository, uploader media.Uploader, clients *sse.SSEClients, fs *embed.FS) *Handler {
	return &Handler{
		repo:     repo,
		uploader: uploader,
		clients:  clients,
		sessions: cache.NewCache[DraftID, *Session](),
		fs:       fs,
	}
}

// session returns the live session for a draft, hydrating one from the
// stored content on first access.
func (h *Handler) session(id DraftID) (*Session, error) {
	if s, ok := h.sessions.Get(id); ok {
		return s, nil
	}

	draft, err := h.repo.GetDraft(id)
	if err != nil {
		return nil, err
	}

	doc := codec.Decode(draft.Content)
	s := NewSession(doc, h.uploader, func(raw []byte) {
		if err := h.repo.SaveDraft(id, raw); err != nil {
			editorLogger.Error().Err(err).Str("draft", string(id)).Msg("Failed to persist draft")
		}
		h.clients.Broadcast(model.PostID(id), "refresh")
	})
	h.sessions.Set(id, s)
	return s, nil
}

// ServeNewDraftEditor serves the editor page, creating a draft when the
// request carries no draft cookie.
func (h *Handler) ServeNewDraftEditor(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFS(h.fs, config.TemplatesLocalDir+"/"+config.TemplateLayout, config.TemplatesLocalDir+"/"+config.TemplateEditor)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var draft *Draft
	if cookie, err := r.Cookie(config.CookieDraftID); err == nil {
		draft, _ = h.repo.GetDraft(DraftID(cookie.Value))
	}

	if draft == nil {
		draft, err = h.repo.CreateDraft()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:  config.CookieDraftID,
			Value: string(draft.ID),
			Path:  "/",
		})
	}

	session, err := h.session(draft.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		DraftID      DraftID
		Palette      []model.BlockType
		EditorHTML   template.HTML
		SyntaxTheme  string
		IsEditorPage bool
	}{
		DraftID:      draft.ID,
		Palette:      session.Palette(),
		EditorHTML:   template.HTML(h.editorHTML(session, theme.GetSyntaxThemeFromRequest(r))),
		SyntaxTheme:  theme.GetSyntaxThemeFromRequest(r),
		IsEditorPage: true,
	}

	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// editorHTML renders the editing view of the document. Unlike the
// public surface, blocks that would be suppressed there get an
// empty-state placeholder here so the operator has something to grab.
func (h *Handler) editorHTML(s *Session, syntaxTheme string) string {
	doc := s.Document()

	var buf strings.Builder
	if doc.Len() == 0 {
		buf.WriteString(`<div class="drop-zone drop-zone-empty" data-drop="empty">Drag a block here to start writing</div>`)
		return buf.String()
	}

	for _, b := range doc.Blocks {
		buf.WriteString(`<div class="editor-block" data-block-id="`)
		buf.WriteString(string(b.ID))
		buf.WriteString(`" draggable="true">`)

		var inner strings.Builder
		render.Block(&inner, b, syntaxTheme)
		if inner.Len() == 0 {
			buf.WriteString(`<div class="block-placeholder">Empty `)
			buf.WriteString(string(b.Type))
			buf.WriteString(` block</div>`)
		} else {
			buf.WriteString(inner.String())
		}

		buf.WriteString(`</div>`)
	}
	return buf.String()
}

// ServeEditorPreview returns the current editing view as an HTML
// fragment, for live refresh after a mutation. The draft is named by
// the "draft" query parameter, falling back to the draft cookie.
func (h *Handler) ServeEditorPreview(w http.ResponseWriter, r *http.Request) {
	id := DraftID(r.URL.Query().Get("draft"))
	if id == "" {
		if cookie, err := r.Cookie(config.CookieDraftID); err == nil {
			id = DraftID(cookie.Value)
		}
	}

	session, err := h.session(id)
	if err != nil {
		http.Error(w, config.ErrDraftNotFound, http.StatusNotFound)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.editorHTML(session, theme.GetSyntaxThemeFromRequest(r))))
}

// blockEdit carries the inline-editable fields. Only present fields are
// applied, each as a shallow merge into the existing payload.
type blockEdit struct {
	Text      *string `json:"text,omitempty"`
	Level     *int    `json:"level,omitempty"`
	Author    *string `json:"author,omitempty"`
	Code      *string `json:"code,omitempty"`
	Language  *string `json:"language,omitempty"`
	URL       *string `json:"url,omitempty"`
	Caption   *string `json:"caption,omitempty"`
	ListStyle *string `json:"listStyle,omitempty"`
	Item      *string `json:"item,omitempty"`
	ItemIndex *int    `json:"itemIndex,omitempty"`
}

func (h *Handler) applyEdit(s *Session, id model.BlockID, edit blockEdit) error {
	var err error
	apply := func(e error) {
		if err == nil {
			err = e
		}
	}

	if edit.Text != nil {
		apply(s.SetText(id, *edit.Text))
	}
	if edit.Level != nil {
		apply(s.SetHeadingLevel(id, *edit.Level))
	}
	if edit.Author != nil {
		apply(s.SetQuoteAuthor(id, *edit.Author))
	}
	if edit.Code != nil {
		apply(s.SetCode(id, *edit.Code))
	}
	if edit.Language != nil {
		apply(s.SetCodeLanguage(id, *edit.Language))
	}
	if edit.URL != nil {
		apply(s.SetVideoURL(id, *edit.URL))
	}
	if edit.Caption != nil {
		apply(s.SetImageCaption(id, *edit.Caption))
	}
	if edit.ListStyle != nil {
		apply(s.SetListStyle(id, *edit.ListStyle))
	}
	if edit.Item != nil && edit.ItemIndex != nil {
		apply(s.SetListItem(id, *edit.ItemIndex, *edit.Item))
	}
	return err
}

// HandleInsert handles POST /api/drafts/{id}/blocks with a JSON body
// {"type": "...", "at": n}. at defaults to append.
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Type model.BlockType `json:"type"`
		At   *int            `json:"at,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	at := model.AppendIndex
	if req.At != nil {
		at = *req.At
	}

	block, err := session.Insert(req.Type, at)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(block)
}

// HandleBlock handles PATCH and DELETE on
// /api/drafts/{id}/blocks/{blockId}.
func (h *Handler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	blockID := model.BlockID(r.PathValue("blockId"))

	switch r.Method {
	case http.MethodPatch:
		var edit blockEdit
		if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.applyEdit(session, blockID, edit); err != nil {
			h.writeMutationError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := session.Delete(blockID); err != nil {
			h.writeMutationError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

// HandleStyles handles PATCH /api/drafts/{id}/blocks/{blockId}/styles.
// The body is a StylePatch; untouched keys survive.
func (h *Handler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	blockID := model.BlockID(r.PathValue("blockId"))

	var patch StylePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := session.UpdateStyles(blockID, patch); err != nil {
		h.writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDrop handles POST /api/drafts/{id}/drop: one complete drag
// gesture described as source plus target.
func (h *Handler) HandleDrop(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		NewType       model.BlockType `json:"newType,omitempty"`
		SourceBlockID model.BlockID   `json:"sourceBlockId,omitempty"`
		TargetBlockID model.BlockID   `json:"targetBlockId,omitempty"`
		EmptyZone     bool            `json:"emptyZone,omitempty"`
		Cancelled     bool            `json:"cancelled,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session.StartDrag(DragSource{NewType: req.NewType, BlockID: req.SourceBlockID})
	var err error
	if req.Cancelled {
		err = session.CancelDrag()
	} else {
		err = session.Drop(DropTarget{EmptyZone: req.EmptyZone, BlockID: req.TargetBlockID})
	}
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListKey handles POST /api/drafts/{id}/blocks/{blockId}/list-key
// for the enter/backspace list editing behaviors. Responds with the
// item index that should receive focus.
func (h *Handler) HandleListKey(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	blockID := model.BlockID(r.PathValue("blockId"))

	var req struct {
		Key   string `json:"key"`
		Index int    `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var focus int
	var err error
	switch req.Key {
	case "enter":
		focus, err = session.ListItemEnter(blockID, req.Index)
	case "backspace":
		focus, err = session.ListItemBackspace(blockID, req.Index)
	default:
		http.Error(w, "unknown key", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	w.Header().Set(config.HCType, config.CTypeJSON)
	json.NewEncoder(w).Encode(struct {
		Focus int `json:"focus"`
	}{Focus: focus})
}

// HandleUpload handles POST /api/drafts/{id}/blocks/{blockId}/image
// with a multipart "image" field. A failed upload leaves the block as
// it was; the operator sees the error and can retry.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	blockID := model.BlockID(r.PathValue("blockId"))

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := session.UploadImage(r.Context(), blockID, file, r.PathValue("id")); err != nil {
		switch {
		case errors.Is(err, ErrUploadInFlight):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, model.ErrBlockNotFound):
			http.Error(w, config.ErrBlockNotFound, http.StatusNotFound)
		default:
			http.Error(w, config.ErrUploadFailed, http.StatusBadGateway)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := DraftID(r.PathValue("id"))
	session, err := h.session(id)
	if err != nil {
		http.Error(w, config.ErrDraftNotFound, http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrBlockNotFound):
		http.Error(w, config.ErrBlockNotFound, http.StatusNotFound)
	case errors.Is(err, model.ErrInvalidBlockType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrWrongBlockType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
	}
}
