package dto

type AuthStatus struct {
	HasToken bool `json:"hasToken"`
}

type SaveTokenRequest struct {
	Token string `json:"token"`
}
