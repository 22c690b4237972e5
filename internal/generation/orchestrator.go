// Package generation submits spreadsheets to the docuflow service and saves
// the Business Requirements Document it returns.
//
// A call to Generate runs these steps strictly in order and makes at most one
// network call:
//
//  1. reject a request without a spreadsheet
//  2. reject an unknown filter mode
//  3. reject the call if another generation is already running
//  4. load the session; reject when absent, clear and reject when expired
//  5. build the multipart body
//  6. POST /generate with the bearer token
//  7. classify the response and, on success, save the document
//
// Nothing is retried. The result is either an *Artifact or an error whose
// terminal state is reported by StateOf.
package generation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/docuflow/docuflow/internal/api"
	"github.com/docuflow/docuflow/internal/auth"
	apperrors "github.com/docuflow/docuflow/internal/errors"
	"github.com/docuflow/docuflow/internal/models"
	"github.com/docuflow/docuflow/internal/storage"
	"github.com/jonboulle/clockwork"
)

// ArtifactName is the file name every generated document is saved under,
// whatever the inputs were.
const ArtifactName = "Business Requirements Document - updated.docx"

const unknownServerError = "Unknown error occurred"

// ErrInProgress is the cause of the validation error returned when Generate
// is called while another generation on the same Orchestrator is running.
var ErrInProgress = errors.New("a generation is already in progress")

// File is a named blob selected by the user
type File struct {
	Name string
	Data []byte
}

// Request holds the inputs of one generation
type Request struct {
	Excel      *File
	Template   *File
	SheetName  string
	FilterMode models.FilterMode
}

// Artifact describes a saved document
type Artifact struct {
	Name string
	Path string
	Size int64
}

// Orchestrator runs generation requests against the service
type Orchestrator struct {
	api      *api.Client
	sessions storage.SessionStore
	saver    Saver
	clock    clockwork.Clock

	inFlight atomic.Bool
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithClock replaces the clock used to decide whether a token has expired
func WithClock(clock clockwork.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

func NewOrchestrator(apiClient *api.Client, sessions storage.SessionStore, saver Saver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:      apiClient,
		sessions: sessions,
		saver:    saver,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate submits req and saves the returned document under ArtifactName
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Artifact, error) {
	if req.Excel == nil || len(req.Excel.Data) == 0 {
		return nil, apperrors.Validation("Please select the Excel file.")
	}

	filterMode, err := models.ParseFilterMode(string(req.FilterMode))
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	req.FilterMode = filterMode

	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, apperrors.Validation("A document is already being generated. Please wait for it to finish.").WithCause(ErrInProgress)
	}
	defer o.inFlight.Store(false)

	session, ok := o.sessions.Load()
	if !ok {
		return nil, apperrors.Auth("You must be logged in to generate documents.").WithCause(apperrors.ErrNotAuthenticated)
	}
	if auth.Expired(session.Token, o.clock.Now()) {
		slog.InfoContext(ctx, "Stored token has expired", "username", session.Username)
		o.expireSession()
		return nil, apperrors.Auth("Your session has expired. Please login again.").WithCause(apperrors.ErrSessionExpired)
	}

	body, contentType, err := buildGenerateBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := o.api.NewRequest(ctx, http.MethodPost, "/generate", body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", contentType)
	api.SetBearer(httpReq, session.Token)
	ctx = httpReq.Context()

	slog.InfoContext(ctx, "Submitting generation request",
		"excel", req.Excel.Name,
		"template", req.Template != nil,
		"sheet_name", req.SheetName,
		"filter_mode", req.FilterMode)

	resp, err := o.api.Do(httpReq)
	if err != nil {
		slog.ErrorContext(ctx, "Backend unreachable", "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		slog.WarnContext(ctx, "Session rejected by backend", "username", session.Username)
		o.expireSession()
		return nil, apperrors.Auth("Your session has expired. Please login again.").
			WithCause(apperrors.ErrSessionExpired).
			WithStatus(resp.StatusCode)
	}

	if !api.OK(resp) {
		msg := api.ErrorMessage(resp, "error", "message", "detail")
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if msg == "" {
			msg = unknownServerError
		}
		slog.ErrorContext(ctx, "Generation rejected", "status", resp.StatusCode, "error", msg)
		return nil, apperrors.Server(resp.StatusCode, msg)
	}

	path, size, err := o.saver.Save(ArtifactName, resp.Body)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Document generated", "path", path, "bytes", size)
	return &Artifact{Name: ArtifactName, Path: path, Size: size}, nil
}

// InProgress reports whether a generation is currently running
func (o *Orchestrator) InProgress() bool {
	return o.inFlight.Load()
}

func (o *Orchestrator) expireSession() {
	if err := o.sessions.Clear(); err != nil {
		slog.Warn("Unable to clear expired session", "err", err)
	}
}
