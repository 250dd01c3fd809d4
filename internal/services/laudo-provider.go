package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"sistema-pericial/internal/entities"
	"sistema-pericial/pkg/config"
	apperrors "sistema-pericial/pkg/errors"
)

// ChatProvider abstrai o modelo de linguagem que conduz a redação do
// laudo. A implementação HTTP fala com o provedor configurado; sem
// configuração, o provedor local devolve respostas de esqueleto.
type ChatProvider interface {
	Responder(ctx context.Context, mensagens []entities.ChatMensagem) (string, error)
}

type httpChatProvider struct {
	config config.LaudoIAConfig
	client *http.Client
}

func NewHTTPChatProvider(cfg config.LaudoIAConfig) ChatProvider {
	return &httpChatProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatCompletionRequest struct {
	Messages []chatCompletionMessage `json:"messages"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

func (p *httpChatProvider) Responder(ctx context.Context, mensagens []entities.ChatMensagem) (string, error) {
	payload := chatCompletionRequest{}
	for _, m := range mensagens {
		payload.Messages = append(payload.Messages, chatCompletionMessage{Role: m.Role, Content: m.Conteudo})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provedor de IA indisponível: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", apperrors.NewHttpError(502,
			"O provedor de IA recusou a requisição",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(data)), nil)
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", apperrors.NewHttpError(502, "O provedor de IA devolveu resposta vazia", nil, nil)
	}
	return parsed.Choices[0].Message.Content, nil
}

// localChatProvider cobre ambientes sem provedor configurado: ecoa um
// rascunho estruturado a partir da última mensagem do perito.
type localChatProvider struct{}

func NewLocalChatProvider() ChatProvider {
	return &localChatProvider{}
}

func (p *localChatProvider) Responder(_ context.Context, mensagens []entities.ChatMensagem) (string, error) {
	var ultima string
	for i := len(mensagens) - 1; i >= 0; i-- {
		if mensagens[i].Role == entities.ChatRoleUsuario {
			ultima = mensagens[i].Conteudo
			break
		}
	}
	return fmt.Sprintf(
		"RASCUNHO DE LAUDO\n\n1. PREÂMBULO\nLaudo elaborado a partir das informações fornecidas pelo perito.\n\n2. HISTÓRICO\n%s\n\n3. CONCLUSÃO\nA ser complementada pelo perito responsável.",
		ultima), nil
}
