package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/miekg/dns"

	"gitlab.bluewillows.net/root/ddnsd/pkg/provider"
)

// updateResponse is the success body for the update endpoint.
type updateResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	RecordID string `json:"record_id,omitempty"`
}

// errorResponse is the failure body for all endpoints.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// handleUpdate serves GET /ddns/{provider}/{host}/{ip}.
//
// This handler owns the boundary guarantees the core relies on: the address
// is a well-formed IPv4 dotted-quad, the hostname is syntactically valid,
// and the shared secret (when configured) matches before the reconciler is
// invoked. The core never re-checks any of these.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	providerName := r.PathValue("provider")
	host := r.PathValue("host")
	ip := r.PathValue("ip")

	if !isValidIPv4(ip) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("Invalid IP address: %s", ip),
		})
		return
	}

	if !isValidHostname(host) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("Invalid hostname: %s", host),
		})
		return
	}

	providerCfg := s.cfg.GetProvider(providerName)
	if providerCfg == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: fmt.Sprintf("Provider not found: %s", providerName),
		})
		return
	}

	// Shared-secret check: exact, case-sensitive string equality.
	if providerCfg.Key != "" {
		if r.URL.Query().Get("key") != providerCfg.Key {
			s.logger.Warn("invalid key for provider", slog.String("provider", providerName))
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid key"})
			return
		}
	}

	result, err := s.updater.Update(r.Context(), providerCfg.ToSettings(), host, ip)
	if err != nil {
		s.logger.Error("DNS update failed",
			slog.String("provider", providerName),
			slog.String("host", host),
			slog.String("error", err.Error()),
		)
		writeJSON(w, statusForError(err), errorResponse{
			Error: fmt.Sprintf("DNS update failed: %s", err),
		})
		return
	}

	s.logger.Info("DNS update successful", slog.String("message", result.Message))
	writeJSON(w, http.StatusOK, updateResponse{
		Success:  result.Success,
		Message:  result.Message,
		RecordID: result.RecordID,
	})
}

// statusForError maps the core error taxonomy onto HTTP status codes:
// configuration mistakes are client errors, remote failures are server
// errors.
func statusForError(err error) int {
	switch {
	case provider.IsUnsupportedType(err):
		return http.StatusBadRequest
	case provider.IsAPIError(err), provider.IsTransport(err):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// isValidIPv4 reports whether s is a well-formed IPv4 dotted-quad.
func isValidIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

// isValidHostname reports whether s is a syntactically valid DNS name.
func isValidHostname(s string) bool {
	if s == "" {
		return false
	}
	_, ok := dns.IsDomainName(s)
	return ok
}
