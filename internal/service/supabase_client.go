package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/util"
)

// SupabaseClient fala com a API GoTrue do Supabase para cadastro e
// login por e-mail/senha. Usamos a REST diretamente com a anon key.
type SupabaseClient struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewSupabaseClient(baseURL, anonKey string) *SupabaseClient {
	return &SupabaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type supabaseCredentials struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

type supabaseUser struct {
	ID               string                 `json:"id"`
	Email            string                 `json:"email"`
	ConfirmedAt      string                 `json:"confirmed_at"`
	EmailConfirmedAt string                 `json:"email_confirmed_at"`
	UserMetadata     map[string]interface{} `json:"user_metadata"`
}

type supabaseAuthResponse struct {
	AccessToken string        `json:"access_token"`
	User        *supabaseUser `json:"user"`
	// campos de erro variam entre versões do GoTrue
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error_code"`
}

func (r *supabaseAuthResponse) errorText() string {
	for _, s := range []string{r.ErrorDescription, r.Msg, r.Message, r.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// SignUp cadastra um usuário. Quando a confirmação de e-mail está
// habilitada no projeto, o GoTrue devolve um usuário sem sessão; o
// chamador avisa o aluno para confirmar o e-mail.
func (c *SupabaseClient) SignUp(ctx context.Context, name, email, password string) (confirmed bool, err error) {
	body := supabaseCredentials{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"name": name},
	}
	resp, status, err := c.post(ctx, "/auth/v1/signup", body)
	if err != nil {
		return false, err
	}
	if status >= 400 {
		msg := strings.ToLower(resp.errorText())
		if strings.Contains(msg, "already registered") || strings.Contains(msg, "already exists") ||
			resp.ErrorCode == "user_already_exists" {
			return false, util.ErrEmailRegistered
		}
		return false, fmt.Errorf("supabase signup: %s", resp.errorText())
	}
	// sessão presente = projeto sem confirmação de e-mail obrigatória
	if resp.AccessToken != "" {
		return true, nil
	}
	if resp.User != nil && (resp.User.ConfirmedAt != "" || resp.User.EmailConfirmedAt != "") {
		return true, nil
	}
	return false, nil
}

// SignIn autentica por senha e devolve o id e o nome do usuário.
func (c *SupabaseClient) SignIn(ctx context.Context, email, password string) (id, name string, err error) {
	body := supabaseCredentials{Email: email, Password: password}
	resp, status, err := c.post(ctx, "/auth/v1/token?grant_type=password", body)
	if err != nil {
		return "", "", err
	}
	if status >= 400 {
		msg := strings.ToLower(resp.errorText())
		if strings.Contains(msg, "not confirmed") || resp.ErrorCode == "email_not_confirmed" {
			return "", "", util.ErrEmailNotConfirmed
		}
		if strings.Contains(msg, "invalid") || status == http.StatusBadRequest || status == http.StatusUnauthorized {
			return "", "", util.ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("supabase login: %s", resp.errorText())
	}
	if resp.User == nil {
		return "", "", util.ErrInvalidCredentials
	}
	name = email
	if raw, ok := resp.User.UserMetadata["name"].(string); ok && raw != "" {
		name = raw
	}
	return resp.User.ID, name, nil
}

func (c *SupabaseClient) post(ctx context.Context, path string, body interface{}) (*supabaseAuthResponse, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("falha ao contatar o Supabase: %w", err)
	}
	defer res.Body.Close()

	var parsed supabaseAuthResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, res.StatusCode, fmt.Errorf("resposta inválida do Supabase: %w", err)
	}
	return &parsed, res.StatusCode, nil
}
