package types

// EmpresaFields holds the editable profile fields of a business.
// It is embedded both in the committed Empresa record and in form drafts.
type EmpresaFields struct {
	Nome                 string `json:"nome"`
	Tipo                 string `json:"tipo,omitempty"`
	HorarioFuncionamento string `json:"horario_funcionamento,omitempty"`
	ContatosExtras       string `json:"contatos_extras,omitempty"`
	Endereco             string `json:"endereco,omitempty"`
	Observacoes          string `json:"observacoes,omitempty"`
	Persona              string `json:"persona,omitempty"`
}

// Empresa is the committed business profile with its catalogs.
type Empresa struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id,omitempty"`
	EmpresaFields
	Produtos  []Produto `json:"produtos,omitempty"`
	Faqs      []Faq     `json:"faqs,omitempty"`
	UpdatedAt string    `json:"updated_at,omitempty"`
}

// Produto is one product or service offered by the business.
type Produto struct {
	ID        string `json:"id,omitempty"`
	Nome      string `json:"nome"`
	Descricao string `json:"descricao,omitempty"`
	// Preco is free text as typed by the user ("R$ 12,50"); the provider
	// backend normalizes it to a number on save.
	Preco string `json:"preco,omitempty"`
}

// Faq is one frequently-asked question fed to the bot.
type Faq struct {
	ID       string `json:"id,omitempty"`
	Pergunta string `json:"pergunta"`
	Resposta string `json:"resposta"`
}

// DadosPayload is the profile-save submission: the profile fields plus the
// full replacement catalogs. It doubles as the per-view draft kept while a
// save is in flight or after it failed.
type DadosPayload struct {
	Empresa  EmpresaFields `json:"empresa"`
	Produtos []Produto     `json:"produtos"`
	Faqs     []Faq         `json:"faqs"`
}

// Clone returns a deep copy so a stored draft cannot alias live slices.
func (p DadosPayload) Clone() DadosPayload {
	out := p
	out.Produtos = append([]Produto(nil), p.Produtos...)
	out.Faqs = append([]Faq(nil), p.Faqs...)
	return out
}

// Clone returns a deep copy of the record and its catalogs.
func (e *Empresa) Clone() *Empresa {
	if e == nil {
		return nil
	}
	out := *e
	out.Produtos = append([]Produto(nil), e.Produtos...)
	out.Faqs = append([]Faq(nil), e.Faqs...)
	return &out
}

// Workspace is the authenticated context loaded after login: the business
// profile (possibly absent) and its connection instances.
type Workspace struct {
	Empresa    *Empresa    `json:"empresa"`
	Instancias []Instancia `json:"instancias"`
}

// User identifies the authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated session as exchanged with a backend.
type Session struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// SignupRequest carries the access-request form.
type SignupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Password string `json:"password"`
}
