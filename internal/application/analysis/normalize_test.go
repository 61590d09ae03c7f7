package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_extractsJSONFromProse(t *testing.T) {
	raw := "Claro! Segue a análise solicitada:\n```json\n" +
		`{"operationType":"servico","category":"consultoria","title":"Consultoria","amount":2500,` +
		`"taxes":{"melhorRegime":"Simples Nacional"},"insights":["fatura mensal"],"monthlySummary":"ok"}` +
		"\n```\nEspero ter ajudado."

	res := Normalize(raw, "irrelevant", "")
	assert.Equal(t, "servico", res.OperationType)
	assert.Equal(t, "Consultoria", res.Title)
	assert.Equal(t, 2500.0, res.Amount)
	assert.Equal(t, []string{"fatura mensal"}, res.Insights)
	assert.Equal(t, "Simples Nacional", res.Taxes["melhorRegime"])
}

func TestNormalize_idempotent(t *testing.T) {
	raw := `{"operationType":"venda","category":"produtos","title":"Venda","amount":900,` +
		`"taxes":{},"insights":["a"],"monthlySummary":"resumo"}`

	first := Normalize(raw, "", "")
	again, err := json.Marshal(first)
	require.NoError(t, err)

	second := Normalize(string(again), "", "")
	assert.Equal(t, first, second)
}

func TestNormalize_noJSONFallsBack(t *testing.T) {
	res := Normalize("o modelo respondeu só prosa, sem objeto", "Recebi R$ 1500 pelo serviço", "dados.csv")
	require.NotNil(t, res)
	assert.Equal(t, 1500.0, res.Amount)
	assert.NotEmpty(t, res.Title)
	assert.NotEmpty(t, res.MonthlySummary)
	assert.NotEmpty(t, res.Taxes)
	assert.NotEmpty(t, res.Insights)
}

func TestNormalize_malformedJSONFallsBack(t *testing.T) {
	res := Normalize(`{"amount": not-json`, "sem sinal numérico aqui", "")
	assert.Equal(t, float64(defaultAmount), res.Amount)
}

func TestNormalize_legacyInsightsShim(t *testing.T) {
	raw := `{"operationType":"servico","category":"x","title":"t","amount":10,` +
		`"taxes":{},"strategicInsights":["plano A","plano B"],"monthlySummary":"m"}`

	res := Normalize(raw, "", "")
	assert.Equal(t, []string{"plano A", "plano B"}, res.Insights)
}

func TestNormalize_negativeAmountRederived(t *testing.T) {
	raw := `{"operationType":"servico","category":"x","title":"t","amount":-50,` +
		`"taxes":{},"monthlySummary":"m"}`

	res := Normalize(raw, "Nota fiscal de R$ 320,50", "")
	assert.Equal(t, 320.5, res.Amount)
}

func TestExtractAmount_precedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"currency marker wins over digit run", "Pedido 99887766 no valor de R$ 1500", 1500},
		{"currency with decimals", "Total: R$ 1234,56", 1234.56},
		{"magnitude mil", "recebemos 3 mil de adiantamento", 3000},
		{"magnitude k", "faturamento de 12k no mês", 12000},
		{"magnitude milhões", "contrato de 2 milhões", 2_000_000},
		{"digit run", "Invoice 20231144", 20231144},
		{"no signal", "nenhum valor informado", defaultAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractAmount(tt.text))
		})
	}
}

func TestFallbackResult_taxFigures(t *testing.T) {
	res := fallbackResult("R$ 1000", "notas.csv")

	require.NotNil(t, res)
	assert.Equal(t, 1000.0, res.Amount)
	assert.Equal(t, "Orientação Fiscal - notas.csv", res.Title)

	simples := res.Taxes["simplesNacional"].(map[string]any)
	assert.Equal(t, 60.0, simples["valor"])

	presumido := res.Taxes["lucroPresumido"].(map[string]any)
	assert.Equal(t, 150.0, presumido["irpj"])
	assert.Equal(t, 90.0, presumido["csll"])
	assert.Equal(t, 85.0, presumido["pisCofins"])
	assert.Equal(t, 325.0, presumido["total"])
}

func TestFallbackResult_alwaysNonNegativeAmount(t *testing.T) {
	for _, text := range []string{"", "sem números", "R$ 0", "pedido 12345"} {
		res := fallbackResult(text, "")
		assert.GreaterOrEqual(t, res.Amount, 0.0, "text %q", text)
	}
}
