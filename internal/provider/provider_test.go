package provider

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/state"
	"github.com/omrstudio/pilotctl/internal/types"
)

// fakeProvider emulates just enough of the hosted auth + row API for the
// client: a fixed credential pair and in-memory tables keyed by path.
type fakeProvider struct {
	t        *testing.T
	empresas []empresaRow
	produtos []produtoRow
	faqs     []faqRow
	inst     []instanciaRow
	calls    []string
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		f.calls = append(f.calls, "token")
		var creds struct{ Email, Password string }
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &creds)
		if creds.Email != "dona@padaria.com" || creds.Password != "segredo" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
			return
		}
		w.Write([]byte(`{"access_token":"tok-abc","user":{"id":"u1","email":"dona@padaria.com"}}`))
	})
	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		f.calls = append(f.calls, "user")
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"msg":"JWT expired"}`))
			return
		}
		w.Write([]byte(`{"id":"u1","email":"dona@padaria.com"}`))
	})
	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		f.calls = append(f.calls, "logout")
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/rest/v1/usuarios", func(w http.ResponseWriter, r *http.Request) {
		f.calls = append(f.calls, "usuarios:"+r.Method)
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/rest/v1/empresas", func(w http.ResponseWriter, r *http.Request) {
		f.calls = append(f.calls, "empresas:"+r.Method)
		switch r.Method {
		case http.MethodGet:
			writeJSON(f.t, w, f.empresas)
		case http.MethodPost:
			var rows []empresaRow
			decodeBody(f.t, r, &rows)
			for i := range rows {
				rows[i].ID = "e1"
			}
			f.empresas = append(f.empresas, rows...)
			writeJSON(f.t, w, rows)
		case http.MethodPatch:
			var row empresaRow
			decodeBody(f.t, r, &row)
			if len(f.empresas) > 0 {
				row.ID = f.empresas[0].ID
				f.empresas[0] = row
			}
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/rest/v1/produtos", func(w http.ResponseWriter, r *http.Request) {
		f.calls = append(f.calls, "produtos:"+r.Method)
		switch r.Method {
		case http.MethodGet:
			writeJSON(f.t, w, f.produtos)
		case http.MethodPost:
			var rows []produtoRow
			decodeBody(f.t, r, &rows)
			f.produtos = append(f.produtos, rows...)
			writeJSON(f.t, w, rows)
		case http.MethodDelete:
			f.produtos = nil
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("/rest/v1/faqs", func(w http.ResponseWriter, r *http.Request) {
		f.calls = append(f.calls, "faqs:"+r.Method)
		switch r.Method {
		case http.MethodGet:
			writeJSON(f.t, w, f.faqs)
		case http.MethodPost:
			var rows []faqRow
			decodeBody(f.t, r, &rows)
			f.faqs = append(f.faqs, rows...)
			writeJSON(f.t, w, rows)
		case http.MethodDelete:
			f.faqs = nil
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("GET /rest/v1/instancias", func(w http.ResponseWriter, r *http.Request) {
		f.calls = append(f.calls, "instancias:GET")
		writeJSON(f.t, w, f.inst)
	})
	return mux
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	body, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(body, v); err != nil {
		t.Errorf("decode request body: %v", err)
	}
}

func newEnv(t *testing.T) (*fakeProvider, *Client, *state.Store) {
	t.Helper()
	fake := &fakeProvider{t: t}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	store := state.New(&state.MemoryPersister{}, slog.New(slog.DiscardHandler), 100)
	client, err := New(Config{BaseURL: srv.URL, AnonKey: "anon"}, store, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return fake, client, store
}

func signIn(t *testing.T, client *Client, store *state.Store) {
	t.Helper()
	session, err := client.SignIn(context.Background(), "dona@padaria.com", "segredo")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	store.Commit("login", func(st *state.AppState) {
		u := session.User
		st.Auth = state.Auth{User: &u, SessionToken: session.SessionToken}
	})
}

func TestNewRequiresConfig(t *testing.T) {
	store := state.New(&state.MemoryPersister{}, slog.New(slog.DiscardHandler), 100)
	if _, err := New(Config{}, store, nil); err == nil {
		t.Fatal("expected error without base URL and key")
	}
}

func TestSignInSuccess(t *testing.T) {
	_, client, _ := newEnv(t)
	session, err := client.SignIn(context.Background(), "dona@padaria.com", "segredo")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.SessionToken != "tok-abc" || session.User.ID != "u1" {
		t.Errorf("unexpected session %+v", session)
	}
}

func TestSignInBadCredentials(t *testing.T) {
	_, client, _ := newEnv(t)
	_, err := client.SignIn(context.Background(), "dona@padaria.com", "errada")
	coded := api.AsError(err)
	if coded == nil || coded.Code != api.CodeAuthInvalid {
		t.Fatalf("expected AUTH_INVALID, got %v", err)
	}
	if coded.Message != "Invalid login credentials" {
		t.Errorf("expected provider message preserved, got %q", coded.Message)
	}
}

func TestFetchWorkspaceRequiresSession(t *testing.T) {
	_, client, _ := newEnv(t)
	_, err := client.FetchWorkspace(context.Background())
	if coded := api.AsError(err); coded == nil || coded.Code != api.CodeAuthRequired {
		t.Fatalf("expected AUTH_REQUIRED, got %v", err)
	}
}

func TestFetchWorkspaceEmpty(t *testing.T) {
	_, client, store := newEnv(t)
	signIn(t, client, store)

	ws, err := client.FetchWorkspace(context.Background())
	if err != nil {
		t.Fatalf("FetchWorkspace: %v", err)
	}
	if ws.Empresa != nil || len(ws.Instancias) != 0 {
		t.Errorf("expected empty workspace, got %+v", ws)
	}
}

func TestFetchWorkspaceFull(t *testing.T) {
	preco := 12.5
	fake, client, store := newEnv(t)
	fake.empresas = []empresaRow{{ID: "e1", UserID: "u1", Nome: "Padaria da Dona", Persona: "josi"}}
	fake.produtos = []produtoRow{{ID: "p1", EmpresaID: "e1", Nome: "Pão francês", Preco: &preco}}
	fake.faqs = []faqRow{{ID: "f1", EmpresaID: "e1", Pergunta: "Abre domingo?", Resposta: "Sim, até meio-dia."}}
	fake.inst = []instanciaRow{{
		ID: "i1", EmpresaID: "e1", EvolutionInstanceID: "ev-1",
		Status:   types.InstanceStatusConnected,
		Settings: json.RawMessage(`{"rejeitar_chamadas":true,"sempre_online":true}`),
	}}
	signIn(t, client, store)

	ws, err := client.FetchWorkspace(context.Background())
	if err != nil {
		t.Fatalf("FetchWorkspace: %v", err)
	}
	if ws.Empresa == nil || ws.Empresa.Nome != "Padaria da Dona" {
		t.Fatalf("unexpected empresa %+v", ws.Empresa)
	}
	if len(ws.Empresa.Produtos) != 1 || ws.Empresa.Produtos[0].Preco != "12,50" {
		t.Errorf("unexpected produtos %+v", ws.Empresa.Produtos)
	}
	if len(ws.Empresa.Faqs) != 1 || ws.Empresa.Faqs[0].Pergunta != "Abre domingo?" {
		t.Errorf("unexpected faqs %+v", ws.Empresa.Faqs)
	}
	if len(ws.Instancias) != 1 {
		t.Fatalf("unexpected instancias %+v", ws.Instancias)
	}
	inst := ws.Instancias[0]
	if inst.Status != types.InstanceStatusConnected || !inst.RejeitarChamadas || !inst.SempreOnline {
		t.Errorf("settings not decoded: %+v", inst)
	}
}

func TestSaveWorkspaceValidatesNome(t *testing.T) {
	_, client, store := newEnv(t)
	signIn(t, client, store)

	_, err := client.SaveWorkspace(context.Background(), types.DadosPayload{})
	if coded := api.AsError(err); coded == nil || coded.Code != api.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestSaveWorkspaceCreatesAndReplaces(t *testing.T) {
	fake, client, store := newEnv(t)
	signIn(t, client, store)

	payload := types.DadosPayload{
		Empresa: types.EmpresaFields{Nome: "  Padaria da Dona  ", Persona: "clara"},
		Produtos: []types.Produto{
			{Nome: "Pão francês", Preco: "R$ 0,75"},
			{}, // fully empty rows are dropped
		},
		Faqs: []types.Faq{{Pergunta: "Entrega?", Resposta: "Só no bairro."}},
	}
	ws, err := client.SaveWorkspace(context.Background(), payload)
	if err != nil {
		t.Fatalf("SaveWorkspace: %v", err)
	}
	if ws.Empresa == nil || ws.Empresa.Nome != "Padaria da Dona" {
		t.Fatalf("unexpected workspace %+v", ws)
	}
	if len(fake.produtos) != 1 || fake.produtos[0].Preco == nil || *fake.produtos[0].Preco != 0.75 {
		t.Errorf("unexpected stored produtos %+v", fake.produtos)
	}
	if len(fake.faqs) != 1 {
		t.Errorf("unexpected stored faqs %+v", fake.faqs)
	}

	// Second save updates in place and replaces the catalogs.
	payload.Produtos = []types.Produto{{Nome: "Bolo de fubá", Preco: "18"}}
	if _, err := client.SaveWorkspace(context.Background(), payload); err != nil {
		t.Fatalf("second SaveWorkspace: %v", err)
	}
	if len(fake.empresas) != 1 {
		t.Fatalf("expected single empresa row, got %d", len(fake.empresas))
	}
	if len(fake.produtos) != 1 || fake.produtos[0].Nome != "Bolo de fubá" {
		t.Errorf("catalog not replaced: %+v", fake.produtos)
	}
}

func TestSignOut(t *testing.T) {
	fake, client, store := newEnv(t)
	signIn(t, client, store)
	if err := client.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	found := false
	for _, call := range fake.calls {
		if call == "logout" {
			found = true
		}
	}
	if !found {
		t.Error("expected logout call to reach the provider")
	}
}

func TestParsePreco(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"R$ 12,50", ptr(12.5)},
		{"12.50", ptr(12.5)},
		{"1.234,56", ptr(1234.56)},
		{"18", ptr(18.0)},
		{"", nil},
		{"a combinar", nil},
	}
	for _, tc := range cases {
		got := ParsePreco(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("ParsePreco(%q) = %v, want nil", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("ParsePreco(%q) = %v, want %v", tc.in, got, *tc.want)
		}
	}
}

func TestFormatPreco(t *testing.T) {
	if got := FormatPreco(ptr(12.5)); got != "12,50" {
		t.Errorf("FormatPreco(12.5) = %q", got)
	}
	if got := FormatPreco(nil); got != "" {
		t.Errorf("FormatPreco(nil) = %q", got)
	}
}

func ptr(f float64) *float64 { return &f }
