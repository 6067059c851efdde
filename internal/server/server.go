package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tidwall/gjson"

	"jobShop/internal/bnb"
	"jobShop/internal/config"
	"jobShop/internal/engine"
	"jobShop/internal/jobshop"
	"jobShop/internal/loader"
	"jobShop/internal/materialize"
)

// Handler serves solve requests
type Handler struct {
	cfg *config.Config
	log *slog.Logger
}

func NewHandler(cfg *config.Config, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{cfg: cfg, log: log}
}

// New builds the router with every endpoint.
func New(cfg *config.Config, log *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	SetupRoutes(r, NewHandler(cfg, log))
	return r
}

// SetupRoutes configures all API routes
func SetupRoutes(r *mux.Router, h *Handler) {
	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/solve", h.Solve).Methods("POST")
	api.HandleFunc("/samples/{name}", h.GetSample).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
}

// MaxBodyBytes limits the size of a solve request body.
const MaxBodyBytes = 1 << 20

// SolveRequest is the body of POST /v1/solve. Empty optional fields take the
// server configuration.
type SolveRequest struct {
	loader.File

	Origin     time.Time     `json:"origin"`
	Unit       string        `json:"unit,omitempty"`
	TimeBudget string        `json:"time_budget,omitempty"`
	WarmStart  bnb.WarmStart `json:"warm_start,omitempty"`
	Workers    int           `json:"workers,omitempty"`
}

type SolveResponse struct {
	RunID             string              `json:"run_id"`
	Status            string              `json:"status"`
	Objective         int                 `json:"objective"`
	ElapsedMs         float64             `json:"elapsed_ms"`
	LowerBound        int                 `json:"lower_bound"`
	Nodes             int                 `json:"nodes"`
	WarmStartMakespan int                 `json:"warm_start_makespan,omitempty"`
	Entries           []materialize.Entry `json:"entries"`
}

// Solve handles POST /v1/solve
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req, err := ParseSolveRequest(body)
	if err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	inst, err := req.Instance()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if inst.NumOps() > h.cfg.MaxOps {
		http.Error(w, fmt.Sprintf("Instance too large: %d operations (limit %d)", inst.NumOps(), h.cfg.MaxOps), http.StatusBadRequest)
		return
	}

	er := engine.Request{
		Origin:     req.Origin,
		Unit:       h.cfg.Unit,
		TimeBudget: h.cfg.TimeBudget,
		WarmStart:  h.cfg.WarmStart,
		Workers:    h.cfg.Workers,
	}
	if req.Unit != "" {
		if er.Unit, err = materialize.ParseUnit(req.Unit); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.TimeBudget != "" {
		if er.TimeBudget, err = time.ParseDuration(req.TimeBudget); err != nil || er.TimeBudget <= 0 {
			http.Error(w, "Invalid time_budget: "+req.TimeBudget, http.StatusBadRequest)
			return
		}
		if er.TimeBudget > h.cfg.MaxTimeBudget {
			http.Error(w, fmt.Sprintf("time_budget %s exceeds the limit %s", er.TimeBudget, h.cfg.MaxTimeBudget), http.StatusBadRequest)
			return
		}
	}
	if req.WarmStart != "" {
		er.WarmStart = req.WarmStart
	}
	if req.Workers > 0 {
		if req.Workers > h.cfg.MaxWorkers {
			http.Error(w, fmt.Sprintf("workers %d exceeds the limit %d", req.Workers, h.cfg.MaxWorkers), http.StatusBadRequest)
			return
		}
		er.Workers = req.Workers
	}

	if err := validate(er); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := engine.SolveInstance(r.Context(), inst, er)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, jobshop.ErrInvalidInstance) {
			status = http.StatusBadRequest
		}
		h.log.Error("solve failed", "error", err, "jobs", inst.Jobs(), "machines", inst.Machines())
		http.Error(w, err.Error(), status)
		return
	}

	h.log.Info("solved",
		"run_id", res.RunID,
		"status", res.Status,
		"makespan", res.Objective,
		"lower_bound", res.LowerBound,
		"nodes", res.Nodes,
		"elapsed", res.Elapsed,
	)

	resp := SolveResponse{
		RunID:             res.RunID,
		Status:            string(res.Status),
		Objective:         res.Objective,
		ElapsedMs:         float64(res.Elapsed.Microseconds()) / 1000.0,
		LowerBound:        res.LowerBound,
		Nodes:             res.Nodes,
		WarmStartMakespan: res.WarmStartMakespan,
		Entries:           res.Entries,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetSample handles GET /v1/samples/{name}
func (h *Handler) GetSample(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	f, err := loader.Sample(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(f)
}

// ParseSolveRequest decodes a solve request. The instance part is parsed by
// loader.ParseJSON, so the endpoint accepts exactly what instance files do.
func ParseSolveRequest(data []byte) (SolveRequest, error) {
	f, err := loader.ParseJSON(data, "origin", "unit", "time_budget", "warm_start", "workers")
	if err != nil {
		return SolveRequest{}, err
	}
	req := SolveRequest{File: f}
	doc := gjson.ParseBytes(data)

	if v := doc.Get("origin"); v.Exists() {
		if v.Type != gjson.String {
			return SolveRequest{}, errors.New("origin must be an RFC 3339 string")
		}
		if req.Origin, err = time.Parse(time.RFC3339Nano, v.Str); err != nil {
			return SolveRequest{}, fmt.Errorf("origin: %w", err)
		}
	}
	for key, dst := range map[string]*string{
		"unit":        &req.Unit,
		"time_budget": &req.TimeBudget,
	} {
		if v := doc.Get(key); v.Exists() {
			if v.Type != gjson.String {
				return SolveRequest{}, fmt.Errorf("%s must be a string", key)
			}
			*dst = v.Str
		}
	}
	if v := doc.Get("warm_start"); v.Exists() {
		if v.Type != gjson.String {
			return SolveRequest{}, errors.New("warm_start must be a string")
		}
		req.WarmStart = bnb.WarmStart(v.Str)
	}
	if v := doc.Get("workers"); v.Exists() {
		n, ok := loader.Int(v)
		if !ok || n < 0 {
			return SolveRequest{}, fmt.Errorf("workers must be a non-negative integer (got %s)", v.Raw)
		}
		req.Workers = n
	}
	return req, nil
}

// validate checks the solver settings of er before any work is started.
func validate(er engine.Request) error {
	cfg := bnb.DefaultConfig()
	cfg.TimeBudget = er.TimeBudget
	if er.WarmStart != "" {
		cfg.WarmStart = er.WarmStart
	}
	if er.Workers > 0 {
		cfg.Workers = er.Workers
	}
	return cfg.Validate()
}
