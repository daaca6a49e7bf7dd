package demo

import (
	"strings"

	"github.com/omrstudio/pilotctl/internal/types"
)

// Persona ids offered by the simulator.
const (
	PersonaJosi  = "josi"  // warm, chatty
	PersonaClara = "clara" // short and direct
)

// Reply produces the canned simulator answer for a persona. It leans on the
// workspace so the demo feels grounded: prices come from the catalog, hours
// and address from the profile, FAQ matches win over everything.
func Reply(persona, message string, empresa *types.Empresa) string {
	normalized := strings.ToLower(strings.TrimSpace(message))
	warm := persona != PersonaClara

	if empresa != nil {
		for _, faq := range empresa.Faqs {
			if containsAnyWord(normalized, faq.Pergunta) {
				if warm {
					return faq.Resposta + " Posso ajudar com mais alguma coisa?"
				}
				return faq.Resposta
			}
		}
	}

	switch {
	case empresa != nil && len(empresa.Produtos) > 0 && mentionsAny(normalized, "preço", "preco", "quanto custa", "valor", "cardápio", "cardapio", "produtos"):
		var b strings.Builder
		if warm {
			b.WriteString("Claro! Olha o que temos hoje:\n")
		}
		for _, p := range empresa.Produtos {
			b.WriteString("• " + p.Nome)
			if p.Preco != "" {
				b.WriteString(" — R$ " + p.Preco)
			}
			b.WriteString("\n")
		}
		return strings.TrimRight(b.String(), "\n")
	case empresa != nil && empresa.HorarioFuncionamento != "" && mentionsAny(normalized, "horário", "horario", "aberto", "fecha", "abre"):
		if warm {
			return "A gente funciona assim: " + empresa.HorarioFuncionamento + ". Aparece lá!"
		}
		return empresa.HorarioFuncionamento
	case empresa != nil && empresa.Endereco != "" && mentionsAny(normalized, "endereço", "endereco", "onde fica", "localização", "localizacao"):
		if warm {
			return "Estamos em " + empresa.Endereco + ". Te esperamos!"
		}
		return empresa.Endereco
	case mentionsAny(normalized, "oi", "olá", "ola", "bom dia", "boa tarde", "boa noite"):
		if warm {
			return "Oi! Que bom te ver por aqui. Como posso ajudar hoje?"
		}
		return "Olá. Em que posso ajudar?"
	}

	if warm {
		return "Hmm, essa eu não sei de cabeça, mas vou verificar e já te respondo, combinado?"
	}
	return "Não tenho essa informação no momento."
}

func mentionsAny(message string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(message, term) {
			return true
		}
	}
	return false
}

// containsAnyWord reports whether the message shares a meaningful word with
// the FAQ question. Short words carry no signal and are skipped.
func containsAnyWord(message, question string) bool {
	for _, word := range strings.Fields(strings.ToLower(question)) {
		word = strings.Trim(word, "?!.,:;")
		if len([]rune(word)) < 4 {
			continue
		}
		if strings.Contains(message, word) {
			return true
		}
	}
	return false
}
