package tui

import (
	"testing"

	"github.com/omrstudio/pilotctl/internal/state"
	"github.com/omrstudio/pilotctl/internal/types"
)

func testDadosForm() dadosForm {
	var f dadosForm
	for i := 0; i < dadosProfileFieldCount; i++ {
		f.profile = append(f.profile, newInput(dadosFieldLabels[i]))
	}
	f.produtos = append(f.produtos, produtoRowInputs(types.Produto{Nome: "Pão francês"}))
	f.produtos = append(f.produtos, produtoRowInputs(types.Produto{Nome: "Bolo de fubá"}))
	f.faqs = append(f.faqs, faqRowInputs(types.Faq{Pergunta: "Entregam?", Resposta: "Sim."}))
	return f
}

func TestDadosFormFocusIndexes(t *testing.T) {
	f := testDadosForm()

	// 6 profile fields + 2 produto rows of 3 + 1 faq row of 2.
	if got := f.fieldCount(); got != dadosProfileFieldCount+6+2 {
		t.Fatalf("fieldCount = %d", got)
	}

	if in := f.input(dadosFieldNome); in != &f.profile[dadosFieldNome] {
		t.Error("profile index should resolve to the profile input")
	}
	firstProduto := dadosProfileFieldCount
	if in := f.input(firstProduto + 4); in != &f.produtos[1][1] {
		t.Error("produto index should resolve row-major")
	}
	firstFaq := firstProduto + 6
	if in := f.input(firstFaq + 1); in != &f.faqs[0][1] {
		t.Error("faq index should resolve after the produto rows")
	}
	if in := f.input(f.fieldCount()); in != nil {
		t.Error("out-of-range index should return nil")
	}

	if catalog, row := f.rowAt(dadosFieldTipo); catalog != "" || row != -1 {
		t.Errorf("profile fields have no catalog row, got %q/%d", catalog, row)
	}
	if catalog, row := f.rowAt(firstProduto + 5); catalog != "produtos" || row != 1 {
		t.Errorf("rowAt(produto) = %q/%d", catalog, row)
	}
	if catalog, row := f.rowAt(firstFaq); catalog != "faqs" || row != 0 {
		t.Errorf("rowAt(faq) = %q/%d", catalog, row)
	}
}

func TestDadosFormRowRemoval(t *testing.T) {
	f := testDadosForm()

	f.removeProduto(0)
	if len(f.produtos) != 1 || f.produtos[0][0].Value() != "Bolo de fubá" {
		t.Errorf("wrong row removed: %d rows", len(f.produtos))
	}
	f.removeProduto(5) // out of range is a no-op
	if len(f.produtos) != 1 {
		t.Error("out-of-range removal should be ignored")
	}
	f.removeFaq(0)
	if len(f.faqs) != 0 {
		t.Error("faq row not removed")
	}
}

func TestDadosFormCollectTrims(t *testing.T) {
	f := testDadosForm()
	f.persona = "clara"
	f.profile[dadosFieldNome].SetValue("  Padaria da Praça  ")
	f.produtos[0][2].SetValue(" R$ 1,20 ")

	payload := f.collect()
	if payload.Empresa.Nome != "Padaria da Praça" {
		t.Errorf("nome not trimmed: %q", payload.Empresa.Nome)
	}
	if payload.Empresa.Persona != "clara" {
		t.Errorf("persona not carried: %q", payload.Empresa.Persona)
	}
	if len(payload.Produtos) != 2 || payload.Produtos[0].Preco != "R$ 1,20" {
		t.Errorf("produto row not collected: %+v", payload.Produtos)
	}
	if len(payload.Faqs) != 1 || payload.Faqs[0].Pergunta != "Entregam?" {
		t.Errorf("faq row not collected: %+v", payload.Faqs)
	}
}

func TestSyncDadosFormPrefersDraft(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	store.Commit("draft", func(st *state.AppState) {
		st.Forms.Dados = &types.DadosPayload{
			Empresa: types.EmpresaFields{Nome: "Rascunho", Persona: "clara"},
		}
	})
	m := newTestModel(store, &stubBackend{})

	if got := m.dados.profile[dadosFieldNome].Value(); got != "Rascunho" {
		t.Errorf("draft should win over the committed profile, got %q", got)
	}
	if m.dados.persona != "clara" {
		t.Errorf("draft persona should win, got %q", m.dados.persona)
	}
	if len(m.dados.produtos) != 0 {
		t.Error("the draft's empty catalog replaces the committed one")
	}
}

func TestSearchFaqs(t *testing.T) {
	faqs := []types.Faq{
		{Pergunta: "Vocês fazem entrega?", Resposta: "Sim, no bairro."},
		{Pergunta: "Qual o horário?", Resposta: "Das 6h às 18h."},
		{Pergunta: "Aceitam cartão?", Resposta: "Aceitamos."},
	}

	if got := searchFaqs(faqs, ""); len(got) != 3 {
		t.Errorf("empty query should return everything, got %d", len(got))
	}
	got := searchFaqs(faqs, "entrega")
	if len(got) == 0 || got[0].Pergunta != "Vocês fazem entrega?" {
		t.Errorf("fuzzy search missed the delivery faq: %+v", got)
	}
	got = searchFaqs(faqs, "18h")
	if len(got) == 0 || got[0].Pergunta != "Qual o horário?" {
		t.Errorf("search should also cover answers: %+v", got)
	}
	if got := searchFaqs(faqs, "zzzzzz"); len(got) != 0 {
		t.Errorf("no match should return nothing, got %+v", got)
	}
}

func TestInsertSuggestionCycles(t *testing.T) {
	m := newTestModel(newTestStore(), &stubBackend{})

	m.insertSuggestion()
	if m.chatInput.Value() != chatSuggestions[0] {
		t.Fatalf("first press should insert the first suggestion, got %q", m.chatInput.Value())
	}
	m.insertSuggestion()
	if m.chatInput.Value() != chatSuggestions[1] {
		t.Errorf("second press should cycle, got %q", m.chatInput.Value())
	}
	m.chatInput.SetValue(chatSuggestions[len(chatSuggestions)-1])
	m.insertSuggestion()
	if m.chatInput.Value() != chatSuggestions[0] {
		t.Errorf("cycle should wrap around, got %q", m.chatInput.Value())
	}
}

func TestPersonaCycle(t *testing.T) {
	if nextPersona("josi") != "clara" || nextPersona("clara") != "josi" {
		t.Error("personas should alternate")
	}
	if nextPersona("") != "clara" {
		t.Error("an unset persona starts from the default")
	}
	if got := personaDisplayName("josi"); got != "Josi (calorosa)" {
		t.Errorf("display name = %q", got)
	}
}

func TestProjectJSON(t *testing.T) {
	body := `{"error":{"code":"AUTH_INVALID","message":"nope"},"ok":false}`

	got, err := projectJSON(body, "error.code")
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	if got != `"AUTH_INVALID"` {
		t.Errorf("projection = %q", got)
	}

	if _, err := projectJSON(body, "error..code"); err == nil {
		t.Error("an invalid expression should report an error")
	}

	plain := "not json at all"
	got, err = projectJSON(plain, "anything")
	if err != nil || got != plain {
		t.Errorf("non-JSON bodies pass through, got %q, %v", got, err)
	}
}
