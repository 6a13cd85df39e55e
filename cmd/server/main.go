package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrhapile/classkit/class"
	"github.com/mrhapile/classkit/config"
	"github.com/mrhapile/classkit/fluid"
	"github.com/mrhapile/classkit/invoke"
	"github.com/mrhapile/classkit/logging"
)

// Request represents the JSON request body for POST /run
type Request struct {
	Plugin   string          `json:"plugin"`             // Plugin name (e.g., "hello")
	Function string          `json:"function,omitempty"` // Export to call, default "process"
	Args     []int           `json:"args,omitempty"`     // Integer arguments
	Input    *int            `json:"input,omitempty"`    // Shorthand for a single argument
	Offsets  []invoke.Offset `json:"offsets,omitempty"`  // Decorators, innermost first
}

// Response represents the JSON response body
type Response struct {
	Output int `json:"output"`
}

// PluginsResponse lists the plugins in the store
type PluginsResponse struct {
	Plugins []string `json:"plugins"`
}

// ErrorResponse represents an error in JSON format
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves plugin calls from a store.
type Server struct {
	store   fluid.Store
	invoker *invoke.Invoker
	logger  *slog.Logger
}

// NewServer creates a server loading WebAssembly plugins from store.
func NewServer(store fluid.Store, logger *slog.Logger) *Server {
	return newServer(store, invoke.New(store, logger), logger)
}

func newServer(store fluid.Store, invoker *invoke.Invoker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, invoker: invoker, logger: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/run", s.handleRun)
	mux.HandleFunc("/plugins", s.handlePlugins)
	return mux
}

// handleRun handles POST /run.
//
// Each request loads the plugin into a fresh VM, wraps it with the requested
// offset decorators, calls the function and releases the VM.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if req.Plugin == "" {
		writeError(w, http.StatusBadRequest, "plugin name is required")
		return
	}
	if !isValidPluginName(req.Plugin) {
		writeError(w, http.StatusBadRequest, "invalid plugin name")
		return
	}

	args := req.Args
	if req.Input != nil {
		args = append([]int{*req.Input}, args...)
	}

	output, err := s.invoker.Run(invoke.Request{
		Plugin:   req.Plugin,
		Function: req.Function,
		Args:     args,
		Offsets:  req.Offsets,
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("plugin run failed", "plugin", req.Plugin, "error", err)
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, Response{Output: output})
}

// handlePlugins handles GET /plugins.
func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	names, err := s.store.List()
	if err != nil {
		s.logger.Error("listing plugins failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, PluginsResponse{Plugins: names})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fluid.ErrPluginNotFound):
		return http.StatusNotFound
	case errors.Is(err, class.ErrUndefinedOperation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// isValidPluginName checks if the plugin name is safe to use in file paths
// Prevents path traversal attacks (e.g., "../etc/passwd")
func isValidPluginName(name string) bool {
	if len(name) == 0 {
		return false
	}

	// Only allow alphanumeric, underscore, and hyphen
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') ||
			c == '_' || c == '-') {
			return false
		}
	}

	return true
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response with the given status code
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func newServerCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve decorated plugin calls over HTTP",
		Long: `server answers POST /run by loading the named plugin, wrapping it with the
requested offset decorators and calling one of its exports. GET /plugins lists
the configured store.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger, err := logging.Init(cmd.ErrOrStderr(), cfg.Log.Level)
			if err != nil {
				return err
			}

			store, err := fluid.NewStore(cfg.Store.Kind, cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("invalid plugin store: %w", err)
			}

			logger.Info("starting plugin server", "addr", cfg.Server.Addr, "store", cfg.Store.Kind, "path", cfg.Store.Path)
			return http.ListenAndServe(cfg.Server.Addr, NewServer(store, logger).Handler())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to classkit YAML config")
	return cmd
}

func main() {
	if err := newServerCmd().Execute(); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}
