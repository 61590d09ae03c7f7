package prompt

import "fmt"

// QuestionSystem fixes the persona for the history-aware Q&A path.
func QuestionSystem() string {
	return "Você é um consultor financeiro especializado em análise de dados contábeis. Seja prático e baseie-se apenas nos dados fornecidos."
}

// QuestionUser folds the caller's question and their serialized analysis
// history into the advisory prompt.
func QuestionUser(question, historyJSON string) string {
	return fmt.Sprintf(`## PERGUNTA DO USUÁRIO:
%s

## HISTÓRICO DO USUÁRIO (últimas 10 análises):
%s

## SUA RESPOSTA:
Forneça uma análise estratégica baseada no histórico. Seja específico, use números concretos e dê recomendações acionáveis.

Formate a resposta em parágrafos claros para melhor legibilidade.`, question, historyJSON)
}
