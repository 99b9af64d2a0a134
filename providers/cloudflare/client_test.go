package cloudflare

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gitlab.bluewillows.net/root/ddnsd/pkg/provider"
)

// successResponse creates a successful Cloudflare API response.
func successResponse(result interface{}) map[string]interface{} {
	return map[string]interface{}{
		"success": true,
		"errors":  []interface{}{},
		"result":  result,
	}
}

// errorResponse creates an error Cloudflare API response.
func errorResponse(details ...map[string]interface{}) map[string]interface{} {
	errs := make([]interface{}, len(details))
	for i, d := range details {
		errs[i] = d
	}
	return map[string]interface{}{
		"success": false,
		"errors":  errs,
		"result":  nil,
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("test-token")

	if client.apiEndpoint != DefaultAPIEndpoint {
		t.Errorf("expected apiEndpoint %s, got %s", DefaultAPIEndpoint, client.apiEndpoint)
	}
	if client.httpClient == nil {
		t.Error("expected httpClient to be initialized")
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, client.httpClient.Timeout)
	}
}

func TestClient_FindRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/zones/zone-123/dns_records" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected Authorization header %q", got)
		}

		query := r.URL.Query()
		if query.Get("type") != "A" {
			t.Errorf("expected type=A filter, got %q", query.Get("type"))
		}
		if query.Get("name") != "home.example.com" {
			t.Errorf("expected exact name match filter, got %q", query.Get("name"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(successResponse([]map[string]interface{}{
			{"id": "abc", "type": "A", "name": "home.example.com", "content": "1.1.1.1"},
		}))
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIEndpoint(server.URL))
	record, err := client.FindRecord(context.Background(), "zone-123", "home.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record == nil {
		t.Fatal("expected a record")
	}
	if record.ID != "abc" || record.Content != "1.1.1.1" {
		t.Errorf("unexpected record %+v", record)
	}
}

func TestClient_FindRecord_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(successResponse([]map[string]interface{}{}))
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIEndpoint(server.URL))
	record, err := client.FindRecord(context.Background(), "zone-123", "missing.example.com")
	if err != nil {
		t.Fatalf("expected empty result set to not be an error, got %v", err)
	}
	if record != nil {
		t.Errorf("expected nil record, got %+v", record)
	}
}

func TestClient_CreateRecord_Body(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/zones/zone-123/dns_records" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected Content-Type %q", got)
		}

		var body writeRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		want := writeRecordRequest{
			Type:    "A",
			Name:    "home.example.com",
			Content: "2.2.2.2",
			TTL:     1,
			Proxied: false,
		}
		if body != want {
			t.Errorf("unexpected body %+v, want %+v", body, want)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(successResponse(map[string]interface{}{
			"id": "new-id", "type": "A", "name": "home.example.com", "content": "2.2.2.2",
		}))
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIEndpoint(server.URL))
	record, err := client.CreateRecord(context.Background(), "zone-123", "home.example.com", "2.2.2.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != "new-id" {
		t.Errorf("expected new record id, got %q", record.ID)
	}
}

func TestClient_UpdateRecord_Addressing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/zones/zone-123/dns_records/abc" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var body writeRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if body.Type != "A" || body.Name != "home.example.com" {
			t.Errorf("expected type and name preserved, got %+v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(successResponse(map[string]interface{}{
			"id": "abc", "type": "A", "name": "home.example.com", "content": "2.2.2.2",
		}))
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIEndpoint(server.URL))
	record, err := client.UpdateRecord(context.Background(), "zone-123", "abc", "home.example.com", "2.2.2.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != "abc" {
		t.Errorf("expected unchanged record id, got %q", record.ID)
	}
}

func TestClient_APIError_AllDetailsPreserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(errorResponse(
			map[string]interface{}{"code": 9103, "message": "Unknown X-Auth-Key or X-Auth-Email"},
			map[string]interface{}{"code": 7003, "message": "Could not route to /zones"},
		))
	}))
	defer server.Close()

	client := NewClient("bad-token", WithAPIEndpoint(server.URL))
	_, err := client.FindRecord(context.Background(), "zone-123", "home.example.com")
	if err == nil {
		t.Fatal("expected error")
	}
	if !provider.IsAPIError(err) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}

	msg := err.Error()
	for _, want := range []string{"9103", "Unknown X-Auth-Key", "7003", "Could not route"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q, got %q", want, msg)
		}
	}
}

func TestClient_TransportError_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIEndpoint(server.URL))
	_, err := client.FindRecord(context.Background(), "zone-123", "home.example.com")
	if err == nil {
		t.Fatal("expected error")
	}
	if !provider.IsTransport(err) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
}

func TestClient_TransportError_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Close immediately so the client cannot connect.

	client := NewClient("test-token", WithAPIEndpoint(server.URL))
	_, err := client.CreateRecord(context.Background(), "zone-123", "home.example.com", "2.2.2.2")
	if err == nil {
		t.Fatal("expected error")
	}
	if !provider.IsTransport(err) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
}

func TestClient_WriteResponse_MissingResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(successResponse(nil))
	}))
	defer server.Close()

	client := NewClient("test-token", WithAPIEndpoint(server.URL))
	_, err := client.CreateRecord(context.Background(), "zone-123", "home.example.com", "2.2.2.2")
	if err == nil {
		t.Fatal("expected error for missing result")
	}
	if !provider.IsTransport(err) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
}
