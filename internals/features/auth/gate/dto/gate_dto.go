package dto

type LoginRequest struct {
	Clave string `json:"clave" validate:"required"`
}

type ChangePassphraseRequest struct {
	Current string `json:"clave_actual" validate:"required"`
	Next    string `json:"clave_nueva"  validate:"required,min=6,max=72,nefield=Current"`
}

type LoginResponse struct {
	Token         string `json:"token"`
	Authenticated bool   `json:"authenticated"`
	ExpiresAt     string `json:"expires_at"`
}
