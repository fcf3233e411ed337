package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"finances/internal/core"

	goption "google.golang.org/api/option"
)

func TestNew_RequiresSpreadsheetAndSheet(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "no spreadsheet", opts: Options{SheetName: "Ledger"}, want: "missing spreadsheet id"},
		{name: "no sheet", opts: Options{SpreadsheetID: "abc"}, want: "missing sheet name"},
		{name: "no credentials", opts: Options{SpreadsheetID: "abc", SheetName: "Ledger"}, want: "missing service account credentials"},
		{name: "unreadable credentials file", opts: Options{SpreadsheetID: "abc", SheetName: "Ledger", CredentialsFile: "/nonexistent/sa.json"}, want: "read service account file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.opts, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("New() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestBuildRows(t *testing.T) {
	txs := []core.Transaction{
		{Description: "Salary", Amount: core.Money{Cents: 500000}, Date: "01/03/2024"},
		{Description: "Rent", Amount: core.Money{Cents: -200000}, Date: "05/03/2024"},
	}
	rows := buildRows(txs, core.NewFormatter("BRL"))

	if len(rows) != 7 {
		t.Fatalf("len(rows) = %d, want 7", len(rows))
	}
	if rows[0][0] != "Date" {
		t.Errorf("header = %v", rows[0])
	}
	if got := rows[2]; got[0] != "05/03/2024" || got[1] != "Rent" || got[2] != "expense" || got[3] != "-2000.00" {
		t.Errorf("rent row = %v", got)
	}
	if got := rows[6]; got[1] != "Total" || got[3] != "3000.00" {
		t.Errorf("total row = %v", got)
	}
}

func TestBuildRows_Empty(t *testing.T) {
	rows := buildRows(nil, core.NewFormatter(""))
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want header, blank and three totals", len(rows))
	}
	if rows[4][3] != "0.00" {
		t.Errorf("total = %v, want 0.00", rows[4][3])
	}
}

func TestClient_Mirror(t *testing.T) {
	var (
		mu      sync.Mutex
		calls   []string
		written [][]interface{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			var body struct {
				Values [][]interface{} `json:"values"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			written = body.Values
			if got := r.URL.Query().Get("valueInputOption"); got != "RAW" {
				t.Errorf("valueInputOption = %q", got)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := New(context.Background(), Options{
		SpreadsheetID: "sheet-id",
		SheetName:     "Ledger",
		ClientOptions: []goption.ClientOption{
			goption.WithEndpoint(srv.URL + "/"),
			goption.WithHTTPClient(srv.Client()),
		},
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	txs := []core.Transaction{{Description: "Coffee", Amount: core.Money{Cents: -450}, Date: "02/01/2024"}}
	if err := c.Mirror(context.Background(), txs); err != nil {
		t.Fatalf("Mirror() error = %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("calls = %v, want clear then update", calls)
	}
	if !strings.HasPrefix(calls[0], "POST ") || !strings.HasSuffix(calls[0], ":clear") {
		t.Errorf("first call = %q, want POST ...:clear", calls[0])
	}
	if !strings.HasPrefix(calls[1], "PUT ") {
		t.Errorf("second call = %q, want PUT", calls[1])
	}
	if len(written) != 6 || written[1][1] != "Coffee" || written[1][3] != "-4.50" {
		t.Errorf("written = %v", written)
	}
}

func TestClient_MirrorUninitialized(t *testing.T) {
	c := &Client{spreadsheetID: "x", sheetName: "Ledger"}
	if err := c.Mirror(context.Background(), nil); err == nil {
		t.Error("Mirror() on a client without service should fail")
	}
}
