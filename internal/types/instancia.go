package types

// Instance connection status values as reported by the backend.
const (
	InstanceStatusDisconnected = "desconectado"
	InstanceStatusConnecting   = "conectando"
	InstanceStatusConnected    = "conectado"
)

// InstanciaSettings are the per-instance behavior toggles plus the reply
// sent when a call is rejected. This is also the connections-tab draft.
type InstanciaSettings struct {
	RejeitarChamadas     bool   `json:"rejeitar_chamadas"`
	IgnorarGrupos        bool   `json:"ignorar_grupos"`
	SempreOnline         bool   `json:"sempre_online"`
	LerMensagens         bool   `json:"ler_mensagens"`
	SincronizarHistorico bool   `json:"sincronizar_historico"`
	MensagemRejeicao     string `json:"mensagem_rejeicao,omitempty"`
}

// InstanciaEvent is one entry of an instance's event log, most recent last.
type InstanciaEvent struct {
	TS      int64  `json:"ts"` // unix milliseconds
	Message string `json:"message"`
}

// Instancia is one WhatsApp connection instance. At most one is meaningfully
// used per workspace today, but the backend returns an ordered list.
type Instancia struct {
	ID                  string `json:"id,omitempty"`
	EmpresaID           string `json:"empresa_id,omitempty"`
	EvolutionInstanceID string `json:"evolution_instance_id,omitempty"`
	Status              string `json:"status"`
	InstanciaSettings
	LastEvent string           `json:"last_event,omitempty"`
	Logs      []InstanciaEvent `json:"logs,omitempty"`
	// QRPayload is the raw pairing payload to render as a QR code, empty
	// when no pairing is in progress.
	QRPayload string `json:"qr_payload,omitempty"`
}

// Clone returns a deep copy of the instance and its event log.
func (i Instancia) Clone() Instancia {
	out := i
	out.Logs = append([]InstanciaEvent(nil), i.Logs...)
	return out
}

// CloneInstancias deep-copies an instance list, preserving order.
func CloneInstancias(in []Instancia) []Instancia {
	if in == nil {
		return nil
	}
	out := make([]Instancia, len(in))
	for n, inst := range in {
		out[n] = inst.Clone()
	}
	return out
}
