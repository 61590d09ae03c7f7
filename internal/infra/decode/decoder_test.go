package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/fiscalia/fiscalia-api/internal/domain/analysis"
)

func TestDecode_csv(t *testing.T) {
	data := []byte("descricao,valor\nConsultoria,1500\nLicenca,300\n")
	got, err := Decode(data, "vendas.csv")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var rows []map[string]string
	if err := json.Unmarshal([]byte(got), &rows); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["descricao"] != "Consultoria" || rows[0]["valor"] != "1500" {
		t.Errorf("first row = %v", rows[0])
	}
}

func TestDecode_csvShortRow(t *testing.T) {
	data := []byte("a,b,c\n1,2\n")
	got, err := Decode(data, "x.csv")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var rows []map[string]string
	if err := json.Unmarshal([]byte(got), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rows[0]["c"] != "" {
		t.Errorf("missing cell should be empty, got %q", rows[0]["c"])
	}
}

func TestDecode_csvEmpty(t *testing.T) {
	got, err := Decode(nil, "empty.csv")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "[]" {
		t.Errorf("got %q, want empty array", got)
	}
}

func TestDecode_xlsx(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "item")
	f.SetCellValue("Sheet1", "B1", "total")
	f.SetCellValue("Sheet1", "A2", "Servico prestado")
	f.SetCellValue("Sheet1", "B2", 2500)
	f.SetCellValue("Sheet1", "A3", "Venda de produto")
	f.SetCellValue("Sheet1", "B3", 900)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	got, err := Decode(buf.Bytes(), "planilha.xlsx")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var rows []map[string]string
	if err := json.Unmarshal([]byte(got), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["item"] != "Servico prestado" {
		t.Errorf("first row = %v", rows[0])
	}
}

// testdata/legacy.xls is a BIFF8 workbook whose first sheet holds the header
// row Test1/Lorem/Ipsum and one data row starting with Avocado.
func TestDecode_xls(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "legacy.xls"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	got, err := Decode(data, "planilha.xls")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got == "" || got == "[]" {
		t.Fatalf("got empty output %q", got)
	}
	var rows []map[string]string
	if err := json.Unmarshal([]byte(got), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("no data rows decoded")
	}
	if rows[0]["Test1"] != "Avocado" {
		t.Errorf("first row = %v", rows[0])
	}
}

func TestDecode_xlsCorrupt(t *testing.T) {
	// OLE2 magic with no workbook behind it.
	junk := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, bytes.Repeat([]byte{0}, 64)...)
	if _, err := Decode(junk, "broken.xls"); !errors.Is(err, analysis.ErrDecode) {
		t.Errorf("got %v, want ErrDecode", err)
	}
}

func TestDecode_xlsxCorrupt(t *testing.T) {
	_, err := Decode([]byte("definitely not a workbook"), "broken.xlsx")
	if !errors.Is(err, analysis.ErrDecode) {
		t.Errorf("got %v, want ErrDecode", err)
	}
}

func TestDecode_pdfDisabled(t *testing.T) {
	_, err := Decode([]byte("%PDF-1.4"), "doc.pdf")
	if !errors.Is(err, analysis.ErrFeatureDisabled) {
		t.Errorf("got %v, want ErrFeatureDisabled", err)
	}
}

func TestDecode_unsupported(t *testing.T) {
	for _, name := range []string{"notes.txt", "img.png", "archive", "data.json"} {
		if _, err := Decode([]byte("x"), name); !errors.Is(err, analysis.ErrUnsupportedFormat) {
			t.Errorf("%s: got %v, want ErrUnsupportedFormat", name, err)
		}
	}
}
