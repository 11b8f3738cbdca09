package banking

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_ListCustomers_SendsFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/customers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("status") != "approved" || q.Get("from") != "2024-01-01" || q.Get("to") != "2024-01-31" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"customers":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	resp, err := client.ListCustomers(context.Background(), ListCustomersParams{Status: "approved", From: "2024-01-01", To: "2024-01-31"})
	if err != nil {
		t.Fatalf("list customers failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK || string(resp.Body) != `{"customers":[]}` {
		t.Fatalf("unexpected response: %d %s", resp.StatusCode, resp.Body)
	}
	if resp.ContentType != "application/json" {
		t.Fatalf("unexpected content type: %q", resp.ContentType)
	}
}

func TestClient_ListCustomers_OmitsEmptyFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("expected no query, got %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if _, err := NewClient(server.URL, time.Second).ListCustomers(context.Background(), ListCustomersParams{}); err != nil {
		t.Fatalf("list customers failed: %v", err)
	}
}

func TestClient_BankStatement_UsesCPFPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers/123.456.789-00/statement" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"statement":[]}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, time.Second).BankStatement(context.Background(), StatementParams{CPF: "123.456.789-00"})
	if err != nil {
		t.Fatalf("bank statement failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestClient_CreateTransfer_PostsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transfers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %s", r.Header.Get("Content-Type"))
		}
		raw, _ := io.ReadAll(r.Body)
		var payload TransferPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Errorf("decode failed: %v", err)
		}
		if payload.SenderCPF != "111.111.111-11" || payload.ReceiverCPF != "222.222.222-22" || payload.Amount != 10.5 {
			t.Errorf("unexpected payload: %+v", payload)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"transfer":{"id":1}}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, time.Second).CreateTransfer(context.Background(), TransferPayload{
		SenderCPF:   "111.111.111-11",
		ReceiverCPF: "222.222.222-22",
		Amount:      10.5,
	})
	if err != nil {
		t.Fatalf("create transfer failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if _, err := NewClient(url, time.Second).ListCustomers(context.Background(), ListCustomersParams{}); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestResponse_Translate(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantKnown  bool
		wantStatus int
		wantCode   string
	}{
		{name: "validation", body: `{"error":"INVALID_DATE_RANGE","message":"bad"}`, wantKnown: true, wantStatus: http.StatusUnprocessableEntity, wantCode: "INVALID_DATE_RANGE"},
		{name: "not found", body: `{"error":"RECEIVER_NOT_FOUND"}`, wantKnown: true, wantStatus: http.StatusNotFound, wantCode: "RECEIVER_NOT_FOUND"},
		{name: "other known", body: `{"error":"INSUFFICIENT_FUNDS"}`, wantKnown: true, wantStatus: http.StatusBadRequest, wantCode: "INSUFFICIENT_FUNDS"},
		{name: "unknown", body: `{"error":"SOMETHING_NEW"}`, wantKnown: false, wantCode: "SOMETHING_NEW"},
		{name: "absent", body: `{"customers":[]}`, wantKnown: false},
		{name: "not json", body: `oops`, wantKnown: false},
	}

	for _, tc := range cases {
		resp := &Response{StatusCode: http.StatusBadRequest, Body: []byte(tc.body)}
		apiErr, outcome, known := resp.Translate()
		if known != tc.wantKnown {
			t.Fatalf("%s: expected known=%v, got %v", tc.name, tc.wantKnown, known)
		}
		if known && outcome.Status != tc.wantStatus {
			t.Fatalf("%s: expected status %d, got %d", tc.name, tc.wantStatus, outcome.Status)
		}
		if tc.wantCode != "" && (apiErr == nil || apiErr.Code != tc.wantCode) {
			t.Fatalf("%s: expected code %s, got %+v", tc.name, tc.wantCode, apiErr)
		}
	}
}

func TestErrorOutcomes_StatusesAreClassified(t *testing.T) {
	for code, outcome := range errorOutcomes {
		switch outcome.Status {
		case http.StatusUnprocessableEntity, http.StatusNotFound, http.StatusBadRequest:
		default:
			t.Fatalf("code %s has unexpected status %d", code, outcome.Status)
		}
		if outcome.Token == "" {
			t.Fatalf("code %s has no token", code)
		}
	}
}
