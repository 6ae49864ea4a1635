package reference_test

import (
	"errors"
	"testing"

	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/reference"
	"golang.org/x/text/encoding/charmap"
)

const tacoHeader = "Descrição dos alimentos;Energia (kcal);Proteína (g);Carboidrato (g);Lipídeos (g)"

func TestParse_HeaderMode_CommaDecimals(t *testing.T) {
	raw := tacoHeader + "\n\"Arroz Branco Cozido\";128,0;2,5;28,1;0,2\n"

	result, err := reference.Parse([]byte(raw), reference.Options{})
	if err != nil {
		t.Fatalf("parsing table: %v", err)
	}
	if result.Encoding != "utf-8" {
		t.Errorf("expected utf-8, got %s", result.Encoding)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}

	item := result.Items[0]
	if item.Name != "Arroz Branco Cozido" {
		t.Errorf("expected name 'Arroz Branco Cozido', got '%s'", item.Name)
	}
	want := models.Macros{Kcal: 128.0, ProteinG: 2.5, CarbG: 28.1, FatG: 0.2}
	if item.Per100g != want {
		t.Errorf("expected %+v, got %+v", want, item.Per100g)
	}
}

func TestParse_Latin1Fallback(t *testing.T) {
	text := tacoHeader + "\nPão francês;300;8;58,6;3,1\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	result, err := reference.Parse([]byte(encoded), reference.Options{})
	if err != nil {
		t.Fatalf("parsing table: %v", err)
	}
	if result.Encoding != "windows-1252" {
		t.Errorf("expected windows-1252, got %s", result.Encoding)
	}
	if result.Items[0].Name != "Pão francês" {
		t.Errorf("expected decoded name 'Pão francês', got '%s'", result.Items[0].Name)
	}
	if result.Headers[0] != "Descrição dos alimentos" {
		t.Errorf("expected decoded header, got '%s'", result.Headers[0])
	}
}

func TestParse_UTF8BOMStripped(t *testing.T) {
	raw := "\xef\xbb\xbf" + tacoHeader + "\nOvo;146;13,3;0,6;9,5\n"

	result, err := reference.Parse([]byte(raw), reference.Options{})
	if err != nil {
		t.Fatalf("parsing table: %v", err)
	}
	if result.Headers[0] != "Descrição dos alimentos" {
		t.Errorf("expected BOM to be stripped, got %q", result.Headers[0])
	}
}

func TestParse_ColumnOrderIndependent(t *testing.T) {
	raw := "GORDURA TOTAL;Carboidratos;Descricao;Proteinas;Energia\nx;1;Ovo;13;146\n"

	result, err := reference.Parse([]byte(raw), reference.Options{})
	if err != nil {
		t.Fatalf("parsing table: %v", err)
	}
	item := result.Items[0]
	if item.Name != "Ovo" || item.Per100g.Kcal != 146 || item.Per100g.ProteinG != 13 || item.Per100g.CarbG != 1 {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.Per100g.FatG != 0 {
		t.Errorf("expected garbage fat cell to become 0, got %v", item.Per100g.FatG)
	}
}

func TestParse_SentinelsAndSkippedRows(t *testing.T) {
	raw := tacoHeader + "\nSal;0;Tr;NA;*\n;10;1;1;1\n   ;5;5;5;5\n"

	result, err := reference.Parse([]byte(raw), reference.Options{})
	if err != nil {
		t.Fatalf("parsing table: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Skipped != 2 {
		t.Errorf("expected 2 skipped rows, got %d", result.Skipped)
	}
	if result.Items[0].Per100g != (models.Macros{}) {
		t.Errorf("expected sentinel cells to become zero, got %+v", result.Items[0].Per100g)
	}
}

func TestParse_MissingColumns(t *testing.T) {
	raw := "Nome;Calorias;Proteina\nOvo;146;13\n"

	_, err := reference.Parse([]byte(raw), reference.Options{})
	var resolutionErr *reference.ColumnResolutionError
	if !errors.As(err, &resolutionErr) {
		t.Fatalf("expected ColumnResolutionError, got %v", err)
	}
	if len(resolutionErr.Headers) != 3 || resolutionErr.Headers[0] != "Nome" {
		t.Errorf("expected headers seen to be reported, got %v", resolutionErr.Headers)
	}
	missing := map[reference.Role]bool{}
	for _, role := range resolutionErr.Missing {
		missing[role] = true
	}
	for _, role := range []reference.Role{reference.RoleName, reference.RoleEnergy, reference.RoleCarbohydrate, reference.RoleFat} {
		if !missing[role] {
			t.Errorf("expected role %s to be reported missing", role)
		}
	}
	if missing[reference.RoleProtein] {
		t.Error("protein was resolvable and should not be reported missing")
	}
}

func TestParse_FixedMode(t *testing.T) {
	header := "id;cat;desc;umid;kcal;kj;prot;lip;col;carb"
	row := "1;Cereais;Arroz Branco Cozido;69,1;128;536;2,5;0,2;NA;28,1"

	tests := []struct {
		name         string
		raw          string
		skipFirstRow bool
	}{
		{name: "with header row", raw: header + "\n" + row + "\n", skipFirstRow: true},
		{name: "without header row", raw: row + "\n", skipFirstRow: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := reference.Parse([]byte(test.raw), reference.Options{
				Mode:         reference.ModeFixed,
				SkipFirstRow: test.skipFirstRow,
			})
			if err != nil {
				t.Fatalf("parsing table: %v", err)
			}
			if len(result.Items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(result.Items))
			}
			want := models.Macros{Kcal: 128, ProteinG: 2.5, CarbG: 28.1, FatG: 0.2}
			if result.Items[0].Name != "Arroz Branco Cozido" || result.Items[0].Per100g != want {
				t.Errorf("unexpected item: %+v", result.Items[0])
			}
		})
	}
}

func TestParse_NoUsableEncoding(t *testing.T) {
	raw := []byte("Descri\xe7\xe3o;Energia\nArroz;128\n")

	_, err := reference.Parse(raw, reference.Options{Encodings: []string{"utf-8", "ebcdic"}})
	var decodeErr *reference.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if len(decodeErr.Tried) != 2 || decodeErr.Tried[0] != "utf-8" || decodeErr.Tried[1] != "ebcdic" {
		t.Errorf("expected both attempts reported, got %v", decodeErr.Tried)
	}
}

func TestParse_SingleColumnRejected(t *testing.T) {
	_, err := reference.Parse([]byte("just one column\nrow\n"), reference.Options{})
	var decodeErr *reference.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestParse_EmptyTable(t *testing.T) {
	_, err := reference.Parse([]byte(tacoHeader+"\n"), reference.Options{})
	if !errors.Is(err, reference.ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}

func TestParse_UnknownMode(t *testing.T) {
	if _, err := reference.Parse([]byte(tacoHeader), reference.Options{Mode: "guess"}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
