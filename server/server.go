// Package server provides an HTTP API for evaluating unit expressions and
// persisting a history of past evaluations.
//
// server:
//   - POST /token     - exchange the configured API secret for a JWT.
//   - POST /evaluate  - evaluate an expression and persist it. Requires a
//     bearer token obtained from /token.
//   - GET  /evaluate  - list past evaluations, newest first. Does not
//     require authentication.
//   - GET  /info      - get version info on the server.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dekarrin/physunits"
	"github.com/dekarrin/physunits/internal/quantity"
	"github.com/dekarrin/physunits/internal/version"
	"github.com/dekarrin/physunits/server/dao"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is a physunits evaluation server.
type Server struct {
	mux    *chi.Mux
	db     dao.Store
	facade *physunits.Facade
	cfg    Config
}

// New builds a Server. cfg should already have had FillDefaults called on
// it. facade is used to evaluate incoming expressions.
func New(cfg Config, facade *physunits.Facade) (Server, error) {
	db, err := cfg.DB.Connect()
	if err != nil {
		return Server{}, fmt.Errorf("connect to DB: %w", err)
	}

	s := Server{
		mux:    chi.NewRouter(),
		db:     db,
		facade: facade,
		cfg:    cfg,
	}

	s.mux.Use(middleware.Recoverer)
	s.mux.Get("/info", s.handleGetInfo)
	s.mux.Post("/token", s.handlePostToken)
	s.mux.Get("/evaluate", s.handleGetEvaluate)
	s.mux.With(s.requireAuth).Post("/evaluate", s.handlePostEvaluate)

	return s, nil
}

func (s Server) requireAuth(next http.Handler) http.Handler {
	return RequireAuth(s.cfg.TokenSecret, s.cfg.UnauthDelay(), next)
}

// ServeForever starts listening for connections on addr:port and blocks
// until the server exits or an unrecoverable error occurs.
func (s Server) ServeForever(addr string, port int) error {
	listenOn := fmt.Sprintf("%s:%d", addr, port)
	return http.ListenAndServe(listenOn, s.mux)
}

// Close releases the server's underlying resources (notably its DB
// connection).
func (s Server) Close() error {
	return s.db.Close()
}

func (s Server) handleGetInfo(w http.ResponseWriter, req *http.Request) {
	jsonOK(map[string]string{"version": version.Current}).writeResponse(w, req)
}

func (s Server) handlePostToken(w http.ResponseWriter, req *http.Request) {
	var body TokenRequest
	if err := parseJSON(req, &body); err != nil {
		jsonBadRequest(err.Error(), "parse token request: %v", err).writeResponse(w, req)
		return
	}

	if !s.cfg.CheckAPISecret(body.Secret) {
		jsonUnauthorized("The supplied secret is incorrect").writeResponse(w, req)
		return
	}

	tok, err := generateJWT(s.cfg.TokenSecret)
	if err != nil {
		jsonInternalServerError("generate JWT: %v", err).writeResponse(w, req)
		return
	}

	jsonCreated(TokenResponse{Token: tok}, "issued token").writeResponse(w, req)
}

func (s Server) handlePostEvaluate(w http.ResponseWriter, req *http.Request) {
	var body EvaluateRequest
	if err := parseJSON(req, &body); err != nil {
		jsonBadRequest(err.Error(), "parse evaluate request: %v", err).writeResponse(w, req)
		return
	}

	v, err := s.facade.Parse(body.Expression)
	if err != nil {
		jsonBadRequest(err.Error(), "evaluate %q: %v", body.Expression, err).writeResponse(w, req)
		return
	}

	eval, err := s.db.Evaluations().Create(req.Context(), dao.Evaluation{
		Expression: body.Expression,
		Result:     v.Encode(),
	})
	if err != nil {
		jsonInternalServerError("store evaluation: %v", err).writeResponse(w, req)
		return
	}

	jsonCreated(modelForEvaluation(eval, v), "evaluated %q", body.Expression).writeResponse(w, req)
}

func (s Server) handleGetEvaluate(w http.ResponseWriter, req *http.Request) {
	evals, err := s.db.Evaluations().GetAll(req.Context(), nil, nil)
	if err != nil {
		jsonInternalServerError("list evaluations: %v", err).writeResponse(w, req)
		return
	}

	models := make([]EvaluationModel, 0, len(evals))
	for _, e := range evals {
		v, err := quantity.DecodeValue(e.Result, s.facade.Registry())
		if err != nil {
			jsonInternalServerError("decode stored evaluation %s: %v", e.ID, err).writeResponse(w, req)
			return
		}
		models = append(models, modelForEvaluation(e, v))
	}

	jsonOK(EvaluationListResponse{Evaluations: models}).writeResponse(w, req)
}

func modelForEvaluation(e dao.Evaluation, v quantity.Value) EvaluationModel {
	return EvaluationModel{
		ID:         e.ID.String(),
		Expression: e.Expression,
		Result:     v.String(),
		Created:    e.Created.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// v must be a pointer to a type.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}

	if err := json.Unmarshal(bodyData, v); err != nil {
		return fmt.Errorf("malformed JSON in request")
	}

	return nil
}
