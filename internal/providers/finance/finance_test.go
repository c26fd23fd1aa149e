package finance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"odmcp/internal/tools"
)

const screenerPayload = `{
	"finance": {
		"result": [{
			"count": 2,
			"quotes": [
				{"symbol": "AAA", "shortName": "Alpha Corp", "regularMarketPrice": 12.5, "regularMarketChangePercent": 8.1},
				{"symbol": "BBB", "shortName": "Beta Inc", "regularMarketPrice": 3.2, "regularMarketChangePercent": 6.4}
			]
		}],
		"error": null
	}
}`

func TestClient_Screen(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/screener/predefined/saved" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(screenerPayload))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client())
	resp, err := client.Screen(context.Background(), "day_gainers", 2)
	if err != nil {
		t.Fatalf("Screen failed: %v", err)
	}

	if !strings.Contains(gotQuery, "scrIds=day_gainers") {
		t.Errorf("Expected scrIds in query, got %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "count=2") {
		t.Errorf("Expected count in query, got %q", gotQuery)
	}
	if resp.Count != 2 || len(resp.Quotes) != 2 {
		t.Fatalf("Unexpected response: %+v", resp)
	}
	if resp.Quotes[0].Symbol != "AAA" {
		t.Errorf("Expected first symbol AAA, got %s", resp.Quotes[0].Symbol)
	}
}

func TestClient_ScreenErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    tools.Kind
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "forbidden", http.StatusForbidden)
			},
			want: tools.KindUpstreamDown,
		},
		{
			name: "undecodable payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json at all`))
			},
			want: tools.KindUpstreamMalformed,
		},
		{
			name: "empty result set",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"finance": {"result": [], "error": null}}`))
			},
			want: tools.KindUpstreamMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := New(srv.URL, srv.Client())
			_, err := client.Screen(context.Background(), "day_gainers", 10)
			if err == nil {
				t.Fatal("Expected an error")
			}

			var terr *tools.Error
			if !errors.As(err, &terr) {
				t.Fatalf("Expected *tools.Error, got %T: %v", err, err)
			}
			if terr.Kind != tt.want {
				t.Errorf("Expected kind %s, got %s", tt.want, terr.Kind)
			}
		})
	}
}

func TestScreenerTool(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		// Defaults applied by validation, not by the upstream client.
		if got := r.URL.Query().Get("scrIds"); got != "day_gainers" {
			t.Errorf("Expected default screener day_gainers, got %q", got)
		}
		if got := r.URL.Query().Get("count"); got != "10" {
			t.Errorf("Expected default count 10, got %q", got)
		}
		w.Write([]byte(screenerPayload))
	}))
	defer srv.Close()

	reg := tools.NewRegistry()
	if err := Register(reg, New(srv.URL, srv.Client())); err != nil {
		t.Fatalf("Failed to register tool: %v", err)
	}
	inv := tools.NewInvoker(reg, zerolog.Nop())

	result := inv.Invoke(context.Background(), "stock-screendata", json.RawMessage(`{}`))
	if result.IsError {
		t.Fatalf("Expected success, got %+v", result.Content)
	}
	if hits.Load() != 1 {
		t.Fatalf("Expected one upstream request, got %d", hits.Load())
	}

	text := result.Content[0].(tools.TextContent).Text
	if !strings.Contains(text, "Alpha Corp") {
		t.Errorf("Expected quote in output, got %q", text)
	}
}

func TestScreenerTool_RejectsUnknownScreener(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	reg := tools.NewRegistry()
	if err := Register(reg, New(srv.URL, srv.Client())); err != nil {
		t.Fatalf("Failed to register tool: %v", err)
	}
	inv := tools.NewInvoker(reg, zerolog.Nop())

	result := inv.Invoke(context.Background(), "stock-screendata",
		json.RawMessage(`{"screener": "best_stonks"}`))
	if !result.IsError {
		t.Fatal("Expected a validation failure envelope")
	}
	text := result.Content[0].(tools.TextContent).Text
	if !strings.HasPrefix(text, string(tools.KindValidation)) {
		t.Errorf("Expected %s prefix, got %q", tools.KindValidation, text)
	}
	if hits.Load() != 0 {
		t.Errorf("Expected no upstream requests, got %d", hits.Load())
	}
}
