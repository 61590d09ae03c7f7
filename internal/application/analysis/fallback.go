package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/fiscalia/fiscalia-api/internal/domain/analysis"
)

// defaultAmount is used when the source text carries no numeric signal.
const defaultAmount = 1000

// Placeholder tax rates for the degraded-mode record. Simples Nacional
// Anexo III entry rate and the Lucro Presumido service composite; fixed
// illustrative percentages, not a tax engine.
var (
	rateSimples   = decimal.RequireFromString("0.06")
	rateIRPJ      = decimal.RequireFromString("0.15")
	rateCSLL      = decimal.RequireFromString("0.09")
	ratePisCofins = decimal.RequireFromString("0.085")
	rateSaving    = decimal.RequireFromString("0.265")
)

var (
	currencyRe  = regexp.MustCompile(`(?i)R\$\s*([0-9]+(?:[.,][0-9]+)?)`)
	magnitudeRe = regexp.MustCompile(`(?i)\b([0-9]+(?:[.,][0-9]+)?)\s*(milh(?:ões|ão|oes|ao)|mil|mi|k)\b`)
	digitRunRe  = regexp.MustCompile(`\b[0-9]{4,}\b`)
)

// extractAmount derives an operation amount from free text. Precedence:
// currency-marked number, number with a magnitude word, first run of four or
// more digits, fixed default.
func extractAmount(text string) float64 {
	if m := currencyRe.FindStringSubmatch(text); m != nil {
		if d, err := parseNumber(m[1]); err == nil {
			return d.InexactFloat64()
		}
	}
	if m := magnitudeRe.FindStringSubmatch(text); m != nil {
		if d, err := parseNumber(m[1]); err == nil {
			return d.Mul(magnitudeFactor(m[2])).InexactFloat64()
		}
	}
	if m := digitRunRe.FindString(text); m != "" {
		if d, err := parseNumber(m); err == nil {
			return d.InexactFloat64()
		}
	}
	return defaultAmount
}

func parseNumber(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func magnitudeFactor(word string) decimal.Decimal {
	switch strings.ToLower(word) {
	case "mil", "k":
		return decimal.NewFromInt(1000)
	default: // milhão/milhões/mi
		return decimal.NewFromInt(1_000_000)
	}
}

// fallbackResult builds the degraded-mode record when the provider path
// failed or returned unparsable output. Every schema field is populated so
// the persister and the caller see the same shape as a successful analysis.
func fallbackResult(sourceText, filename string) *domain.Result {
	amount := decimal.NewFromFloat(extractAmount(sourceText))

	simples := amount.Mul(rateSimples).Round(2)
	irpj := amount.Mul(rateIRPJ).Round(2)
	csll := amount.Mul(rateCSLL).Round(2)
	pisCofins := amount.Mul(ratePisCofins).Round(2)
	total := irpj.Add(csll).Add(pisCofins)
	saving := amount.Mul(rateSaving).Round(2)

	source := "Dados Fornecidos"
	if filename != "" {
		source = filename
	}

	insights := []string{
		"Configure GROQ_API_KEY para insights personalizados",
		"Economia fiscal disponível com o regime correto",
		"Análise completa com orientações práticas após configuração",
	}

	return &domain.Result{
		OperationType: "Análise Fiscal Detalhada",
		Category:      "Consultoria Contábil",
		Title:         "Orientação Fiscal - " + source,
		Amount:        amount.InexactFloat64(),
		Taxes: map[string]any{
			"simplesNacional": map[string]any{
				"valor":      simples.InexactFloat64(),
				"aliquota":   "6%",
				"observacao": "Serviços - Anexo III",
			},
			"lucroPresumido": map[string]any{
				"irpj":      irpj.InexactFloat64(),
				"csll":      csll.InexactFloat64(),
				"pisCofins": pisCofins.InexactFloat64(),
				"total":     total.InexactFloat64(),
			},
			"melhorRegime":      "Simples Nacional",
			"economiaPotencial": fmt.Sprintf("R$ %s em economia fiscal", saving.StringFixed(2)),
		},
		Insights:       insights,
		MonthlySummary: "Consultoria fiscal completa disponível após configuração do provedor de IA.",
		DocumentationGuide: map[string]any{
			"reciboObrigatorio":     amount.GreaterThan(decimal.NewFromInt(5000)),
			"tipoRecibo":            "Recibo de Pagamento para Serviços",
			"notaFiscal":            "NFSe - Nota Fiscal de Serviço",
			"declaracoes":           []string{"DASN", "DIRF"},
			"prazosImportantes":     []string{"DAS: até dia 20 todo mês"},
			"documentosNecessarios": []string{"Contrato", "Comprovante", "Recibo"},
		},
		PracticalSteps: []string{
			"1. Configure GROQ_API_KEY para orientações específicas",
			"2. Consulte um contador para documentação exata",
			"3. Mantenha todos os recibos e comprovantes",
		},
		LegalObligations: []string{
			"Configure a API para detalhes de obrigações legais",
			"Prazos fiscais variam por tipo de empresa",
		},
		BestPractices: []string{
			"Sempre emitir recibos para qualquer valor",
			"Manter documentação organizada por 5 anos",
			"Consultar especialista para dúvidas específicas",
		},
		StrategicInsights: insights,
		Alerts: []string{
			"Configure GROQ_API_KEY para alertas específicos",
			"Orientações detalhadas disponíveis após configuração",
		},
	}
}

// degradedAnswer is the static Q&A response used when the provider is not
// configured or its call failed.
func degradedAnswer() string {
	return `CONSULTORIA AVANÇADA

Para receber análises estratégicas detalhadas, configure a GROQ_API_KEY corretamente.

Próximos passos:
1. Verifique se a chave da Groq está correta na configuração
2. Reinicie o servidor backend
3. Teste novamente a análise`
}
