package models

// CompanySettings holds the operator's billing identity, printed on driver
// invoice instructions, and optional Bolt API credentials.
type CompanySettings struct {
	Name             string `json:"name"`
	NIF              string `json:"nif"`
	Address          string `json:"address"`
	Email            string `json:"email"`
	IBAN             string `json:"iban"`
	BoltClientID     string `json:"bolt_client_id,omitempty"`
	BoltClientSecret string `json:"bolt_client_secret,omitempty"`
}

// DefaultSettings are used when no snapshot exists yet
func DefaultSettings() CompanySettings {
	return CompanySettings{
		Name:    "Sua Empresa TVDE",
		NIF:     "000000000",
		Address: "Endereço da Empresa",
		Email:   "seu-email@empresa.pt",
		IBAN:    "PT50 0000 0000 0000 0000 0000 0",
	}
}
