package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/omrstudio/pilotctl/internal/state"
	"github.com/omrstudio/pilotctl/internal/types"
)

// Profile field order in the dados form.
const (
	dadosFieldNome = iota
	dadosFieldTipo
	dadosFieldHorario
	dadosFieldContatos
	dadosFieldEndereco
	dadosFieldObservacoes
	dadosProfileFieldCount
)

var dadosFieldLabels = [dadosProfileFieldCount]string{
	"Nome do negócio",
	"Tipo",
	"Horário de funcionamento",
	"Contatos extras",
	"Endereço",
	"Observações",
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 512
	return in
}

func newPasswordInput(placeholder string) textinput.Model {
	in := newInput(placeholder)
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	return in
}

func (m *Model) initInputs() {
	m.loginInputs = []textinput.Model{
		newInput("voce@seunegocio.com"),
		newPasswordInput("senha"),
	}
	m.loginInputs[loginFieldEmail].Focus()

	m.signupInputs = []textinput.Model{
		newInput("Seu nome"),
		newInput("voce@seunegocio.com"),
		newInput("(11) 90000-0000"),
		newPasswordInput("crie uma senha"),
	}

	m.chatInput = newInput("Escreva como se fosse um cliente…")
	m.supportInput = newInput("Conte o que está acontecendo…")
	m.faqQuery = newInput("Buscar nas perguntas frequentes")
	m.conexoes.rejectMsg = newInput("Mensagem enviada ao rejeitar chamadas")
	m.inspect.query = newInput("consulta jmespath, ex: error.code")
}

// dadosForm holds the editing buffers of the profile form: the fixed
// profile fields plus one row of inputs per catalog entry.
type dadosForm struct {
	profile  []textinput.Model
	persona  string
	produtos [][]textinput.Model // nome, descrição, preço
	faqs     [][]textinput.Model // pergunta, resposta
}

func produtoRowInputs(p types.Produto) []textinput.Model {
	nome := newInput("Produto ou serviço")
	nome.SetValue(p.Nome)
	desc := newInput("Descrição curta")
	desc.SetValue(p.Descricao)
	preco := newInput("R$ 0,00")
	preco.SetValue(p.Preco)
	return []textinput.Model{nome, desc, preco}
}

func faqRowInputs(f types.Faq) []textinput.Model {
	pergunta := newInput("Pergunta")
	pergunta.SetValue(f.Pergunta)
	resposta := newInput("Resposta")
	resposta.SetValue(f.Resposta)
	return []textinput.Model{pergunta, resposta}
}

// syncDadosForm rebuilds the buffers from the draft when one is pending,
// otherwise from the committed profile. Called on login context load and
// after a successful save; never mid-edit.
func (m *Model) syncDadosForm() {
	var payload types.DadosPayload
	switch {
	case m.st.Forms.Dados != nil:
		payload = m.st.Forms.Dados.Clone()
	case m.st.Empresa != nil:
		payload = types.DadosPayload{
			Empresa:  m.st.Empresa.EmpresaFields,
			Produtos: append([]types.Produto(nil), m.st.Empresa.Produtos...),
			Faqs:     append([]types.Faq(nil), m.st.Empresa.Faqs...),
		}
	}

	form := dadosForm{persona: payload.Empresa.Persona}
	if form.persona == "" {
		form.persona = state.DefaultPersona
	}
	values := [dadosProfileFieldCount]string{
		payload.Empresa.Nome,
		payload.Empresa.Tipo,
		payload.Empresa.HorarioFuncionamento,
		payload.Empresa.ContatosExtras,
		payload.Empresa.Endereco,
		payload.Empresa.Observacoes,
	}
	for i := 0; i < dadosProfileFieldCount; i++ {
		in := newInput(dadosFieldLabels[i])
		in.SetValue(values[i])
		form.profile = append(form.profile, in)
	}
	for _, p := range payload.Produtos {
		form.produtos = append(form.produtos, produtoRowInputs(p))
	}
	for _, f := range payload.Faqs {
		form.faqs = append(form.faqs, faqRowInputs(f))
	}
	m.dados = form
}

// fieldCount is the number of focusable inputs in the dados form.
func (f *dadosForm) fieldCount() int {
	return len(f.profile) + 3*len(f.produtos) + 2*len(f.faqs)
}

// input returns the input at a flat focus index, profile first, then
// produto rows, then faq rows.
func (f *dadosForm) input(idx int) *textinput.Model {
	if idx < len(f.profile) {
		return &f.profile[idx]
	}
	idx -= len(f.profile)
	if idx < 3*len(f.produtos) {
		return &f.produtos[idx/3][idx%3]
	}
	idx -= 3 * len(f.produtos)
	if idx < 2*len(f.faqs) {
		return &f.faqs[idx/2][idx%2]
	}
	return nil
}

// rowAt resolves a focus index to the catalog it belongs to, with -1 for
// profile fields.
func (f *dadosForm) rowAt(idx int) (catalog string, row int) {
	if idx < len(f.profile) {
		return "", -1
	}
	idx -= len(f.profile)
	if idx < 3*len(f.produtos) {
		return "produtos", idx / 3
	}
	idx -= 3 * len(f.produtos)
	if idx < 2*len(f.faqs) {
		return "faqs", idx / 2
	}
	return "", -1
}

func (f *dadosForm) addProduto() {
	f.produtos = append(f.produtos, produtoRowInputs(types.Produto{}))
}

func (f *dadosForm) addFaq() {
	f.faqs = append(f.faqs, faqRowInputs(types.Faq{}))
}

func (f *dadosForm) removeProduto(row int) {
	if row < 0 || row >= len(f.produtos) {
		return
	}
	f.produtos = append(f.produtos[:row], f.produtos[row+1:]...)
}

func (f *dadosForm) removeFaq(row int) {
	if row < 0 || row >= len(f.faqs) {
		return
	}
	f.faqs = append(f.faqs[:row], f.faqs[row+1:]...)
}

// collect assembles the submission payload from the buffers.
func (f *dadosForm) collect() types.DadosPayload {
	payload := types.DadosPayload{
		Empresa: types.EmpresaFields{
			Nome:                 strings.TrimSpace(f.profile[dadosFieldNome].Value()),
			Tipo:                 strings.TrimSpace(f.profile[dadosFieldTipo].Value()),
			HorarioFuncionamento: strings.TrimSpace(f.profile[dadosFieldHorario].Value()),
			ContatosExtras:       strings.TrimSpace(f.profile[dadosFieldContatos].Value()),
			Endereco:             strings.TrimSpace(f.profile[dadosFieldEndereco].Value()),
			Observacoes:          strings.TrimSpace(f.profile[dadosFieldObservacoes].Value()),
			Persona:              f.persona,
		},
	}
	for _, row := range f.produtos {
		payload.Produtos = append(payload.Produtos, types.Produto{
			Nome:      strings.TrimSpace(row[0].Value()),
			Descricao: strings.TrimSpace(row[1].Value()),
			Preco:     strings.TrimSpace(row[2].Value()),
		})
	}
	for _, row := range f.faqs {
		payload.Faqs = append(payload.Faqs, types.Faq{
			Pergunta: strings.TrimSpace(row[0].Value()),
			Resposta: strings.TrimSpace(row[1].Value()),
		})
	}
	return payload
}

// conexoesPanel holds the connections-tab buffers. The toggles live in the
// store draft; only the rejection message needs a text buffer.
type conexoesPanel struct {
	rejectMsg textinput.Model
}

// conexoesToggleCount is the number of boolean settings shown as toggles.
const conexoesToggleCount = 5

var conexoesToggleLabels = [conexoesToggleCount]string{
	"Rejeitar chamadas",
	"Ignorar grupos",
	"Sempre online",
	"Marcar mensagens como lidas",
	"Sincronizar histórico",
}

func toggleValue(s types.InstanciaSettings, idx int) bool {
	switch idx {
	case 0:
		return s.RejeitarChamadas
	case 1:
		return s.IgnorarGrupos
	case 2:
		return s.SempreOnline
	case 3:
		return s.LerMensagens
	case 4:
		return s.SincronizarHistorico
	}
	return false
}

func flipToggle(s *types.InstanciaSettings, idx int) {
	switch idx {
	case 0:
		s.RejeitarChamadas = !s.RejeitarChamadas
	case 1:
		s.IgnorarGrupos = !s.IgnorarGrupos
	case 2:
		s.SempreOnline = !s.SempreOnline
	case 3:
		s.LerMensagens = !s.LerMensagens
	case 4:
		s.SincronizarHistorico = !s.SincronizarHistorico
	}
}

// currentSettings returns the draft when present, otherwise the committed
// settings of the selected instance.
func (m *Model) currentSettings() types.InstanciaSettings {
	if m.st.Forms.Instancias != nil {
		return *m.st.Forms.Instancias
	}
	if inst := m.selectedInstance(); inst != nil {
		return inst.InstanciaSettings
	}
	return types.InstanciaSettings{}
}

// selectedInstance is the instance the connections tab operates on. The
// backend returns an ordered list; the first one is the active pairing.
func (m *Model) selectedInstance() *types.Instancia {
	if len(m.st.Instancias) == 0 {
		return nil
	}
	return &m.st.Instancias[0]
}

func (m *Model) syncConexoesDraft() {
	m.conexoes.rejectMsg.SetValue(m.currentSettings().MensagemRejeicao)
}
