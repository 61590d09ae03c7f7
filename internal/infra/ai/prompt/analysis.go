// Package prompt builds the completion requests sent to the provider: a
// fixed persona, the canonical text, and the target JSON schema.
package prompt

import "fmt"

// Sampling configuration, pinned per request type.
const (
	Model             = "llama-3.1-8b-instant"
	Temperature       = 0.4
	TopP              = 0.9
	AnalysisMaxTokens = 3072
	QuestionMaxTokens = 1024
)

// AnalysisSystem fixes the assistant's persona for the structured analysis.
func AnalysisSystem() string {
	return `Você é um contador sênior especializado em orientações práticas fiscais e contábeis.
Forneça instruções PASSO A PASSO sobre documentação, recibos, declarações e obrigações legais.
Seja PRÁTICO e ESPECÍFICO como se estivesse orientando um cliente.`
}

// AnalysisUser embeds the canonical text into the full consultancy prompt.
// The schema instructs the model to emit only a JSON object; the normalizer
// depends on that constraint.
func AnalysisUser(text, filename string) string {
	source := "Dados Fornecidos"
	if filename != "" {
		source = filename
	}
	return fmt.Sprintf(`CONSULTORIA FISCAL E CONTÁBIL COMPLETA - ESPECIALISTA PRÁTICO

## FONTE: %s

## DADOS DA OPERAÇÃO:
%s

## SUA MISSÃO:
Atue como um CONTADOR SÊNIOR com 20 anos de experiência. Forneça não apenas cálculos, mas ORIENTAÇÕES PRÁTICAS passo a passo.

## FORMATO DE RESPOSTA OBRIGATÓRIO (JSON VÁLIDO):
%s

## ORIENTAÇÕES ESPECÍFICAS POR TIPO DE OPERAÇÃO:

### PARA SERVIÇOS PRESTADOS:
- Quando emitir recibo: SEMPRE que houver transferência
- Tipo de nota fiscal: NFSe (Nota Fiscal de Serviço)
- Declarações: DASN mensal, DIRF anual
- Cuidados: Separar ISS municipal de outros impostos

### PARA VENDAS DE PRODUTOS:
- Documento: NFC-e ou NFe
- Regime: ICMS estadual + impostos federais
- Obrigações: EFD Contribuições, SPED Fiscal

### PARA OPERAÇÕES INTERNACIONAIS:
- Documentação: Contrato em inglês, invoice
- Impostos: IOF, IRRF, cambial
- Declarações: SISCOMEX, EFD-ICMS/IPI

### PARA ADIANTAMENTOS:
- Tratamento: Receita antecipada (retificável)
- Provisão: Impostos sobre valor total
- Cuidado: Reembolsos são despesas, não redução de receita

Baseado nos dados fornecidos, retorne APENAS o JSON válido com orientações PRÁTICAS e ACIONÁVEIS. Sem markdown, sem comentários.`, source, text, resultSchema)
}

// resultSchema is the worked example the model is asked to reproduce. Field
// names here are load-bearing: the normalizer and the persister read them.
const resultSchema = `{
  "operationType": "tipo_detalhado_da_operacao",
  "category": "categoria_contabil",
  "amount": 50000,
  "taxes": {
    "simplesNacional": {
      "valor": 3000,
      "aliquota": "6%",
      "observacao": "Serviços - Anexo III"
    },
    "lucroPresumido": {
      "irpj": 7500,
      "csll": 4500,
      "pisCofins": 3600,
      "total": 15600
    },
    "melhorRegime": "Simples Nacional",
    "economiaPotencial": "R$ 12.600 em comparação com Lucro Presumido"
  },
  "financialAnalysis": {
    "margemLucro": "45%",
    "saudeFinanceira": "boa",
    "riscosIdentificados": ["Concentração em um cliente"],
    "oportunidades": ["Expansão para novos mercados"]
  },
  "documentationGuide": {
    "reciboObrigatorio": true,
    "tipoRecibo": "Recibo de Pagamento Antecipado",
    "notaFiscal": "NFSe de serviço - modelo 55",
    "declaracoes": ["DASN", "DIRF", "DCTF"],
    "prazosImportantes": ["DAS: até dia 20 do mês seguinte"],
    "documentosNecessarios": ["Contrato de prestação de serviço", "RPA assinado"]
  },
  "practicalSteps": [
    "1. Emitir Recibo de Pagamento Antecipado imediatamente",
    "2. Registrar como 'Receita Antecipada' no contas a receber",
    "3. Provisionar 6% para DAS do Simples Nacional"
  ],
  "legalObligations": [
    "Obrigatório: Emitir recibo para valores acima de R$ 5.000",
    "Prazo: Declarar receita antecipada no mês do recebimento"
  ],
  "bestPractices": [
    "Sempre emitir recibo mesmo para clientes informais",
    "Manter cópia digital dos documentos por 5 anos"
  ],
  "strategicInsights": [
    "Economia fiscal de 12% com Simples Nacional vs Lucro Presumido",
    "Criar reserva técnica de 10% para impostos surpresa"
  ],
  "alerts": [
    "VALOR SUPERIOR A R$ 5.000: Obrigatório recibo e documentação",
    "PRÓXIMO PRAZO: DAS até dia 20 do mês seguinte"
  ],
  "insights": [
    "Observação principal sobre a operação"
  ],
  "monthlySummary": "Resumo prático da operação e seus cuidados fiscais.",
  "title": "Consultoria Completa - Recebimento Antecipado"
}`
